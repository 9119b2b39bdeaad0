package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT user_id, full_name, phone, address, city, state, pincode, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.State,
		&p.Pincode,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: failed to select profile for user %s: %w", userID, err)
	}

	return &p, nil
}

func (r *postgresRepository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, phone, address, city, state, pincode, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address,
		    city = EXCLUDED.city,
		    state = EXCLUDED.state,
		    pincode = EXCLUDED.pincode,
		    updated_at = EXCLUDED.updated_at
	`

	p.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, query,
		p.UserID,
		p.FullName,
		p.Phone,
		p.Address,
		p.City,
		p.State,
		p.Pincode,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert profile for user %s: %w", p.UserID, err)
	}

	return nil
}
