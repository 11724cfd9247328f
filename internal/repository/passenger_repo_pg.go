package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/poornima12/ACME-AIR/internal/domain"
)

type PassengerRepository interface {
	// FindByEmail returns nil when no passenger carries the email.
	FindByEmail(ctx context.Context, email string) (*domain.Passenger, error)
	Create(ctx context.Context, p *domain.Passenger) error
}

type PGPassengerRepository struct {
	db DBTX
}

func NewPassengerRepository(db DBTX) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) FindByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, phone, passport_number, created_at, updated_at
		FROM passengers WHERE email=$1`, email)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.PassportNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	return r.db.QueryRow(ctx, `INSERT INTO passengers (first_name, last_name, email, phone, passport_number)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		p.FirstName, p.LastName, p.Email, p.Phone, p.PassportNumber).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
