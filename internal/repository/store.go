package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the querying surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to one DBTX. Inside
// Store.Serializable all of them share the transaction.
type Repositories struct {
	Schedules  FlightScheduleRepository
	Seats      SeatRepository
	SeatLocks  SeatLockRepository
	Passengers PassengerRepository
	Bookings   BookingRepository
}

func newRepositories(db DBTX) *Repositories {
	return &Repositories{
		Schedules:  NewFlightScheduleRepository(db),
		Seats:      NewSeatRepository(db),
		SeatLocks:  NewSeatLockRepository(db),
		Passengers: NewPassengerRepository(db),
		Bookings:   NewBookingRepository(db),
	}
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns repositories bound to the pool, outside any transaction.
// The compensating lock release after a failed booking runs through these
// so it survives the rollback of the aborted transaction.
func (s *Store) Repos() *Repositories {
	return newRepositories(s.pool)
}

// Serializable runs fn inside a serializable transaction. The whole
// read-check-write sequence of a booking behaves as if no other
// transaction interleaved; conflicting transactions fail at commit.
func (s *Store) Serializable(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, e.g. a duplicate booking reference at write time.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
