package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch profile")
		return nil, fmt.Errorf("service: failed to fetch profile: %w", err)
	}

	return p, nil
}

func (s *service) SaveProfile(ctx context.Context, p *Profile) error {
	if p.UserID == uuid.Nil {
		return errors.New("service: profile user id cannot be nil")
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		log.Error().Err(err).Stringer("user_id", p.UserID).Msg("service: failed to save profile")
		return fmt.Errorf("service: failed to save profile: %w", err)
	}

	log.Info().Stringer("user_id", p.UserID).Msg("service: profile saved")
	return nil
}
