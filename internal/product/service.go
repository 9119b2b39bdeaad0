package product

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	ListProducts(ctx context.Context, category Category) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, form Form) (*Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, form Form) (*Product, error)
	// DeleteProduct implements the two-step confirmation: the first call for
	// an id arms it and returns false, the second call actually deletes and
	// returns true. Arming a different id replaces the previous one.
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo Repository

	mu    sync.Mutex
	armed uuid.UUID
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListProducts(ctx context.Context, category Category) ([]Product, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}

	products, err := s.repo.List(ctx, category)
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			log.Warn().Stringer("product_id", id).Msg("service: product not found")
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}

	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, form Form) (*Product, error) {
	p, err := form.Parse()
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate product id: %w", err)
	}
	p.ID = id

	if err := s.repo.Create(ctx, &p); err != nil {
		log.Error().Err(err).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", p.ID).Str("name", p.Name).Msg("service: product created")
	return &p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, form Form) (*Product, error) {
	p, err := form.Parse()
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to update product")
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product updated")
	return &p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	if s.armed != id {
		s.armed = id
		s.mu.Unlock()
		log.Info().Stringer("product_id", id).Msg("service: delete armed, awaiting confirmation")
		return false, nil
	}
	// Confirmation received. The armed slot resets whether or not the
	// delete succeeds.
	s.armed = uuid.Nil
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return false, fmt.Errorf("service: failed to delete product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product deleted")
	return true, nil
}
