package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/poornima12/ACME-AIR/internal/domain"
)

type FlightScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FlightSchedule, error)
	Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.FlightSchedule, error)
}

type PGFlightScheduleRepository struct {
	db DBTX
}

func NewFlightScheduleRepository(db DBTX) FlightScheduleRepository {
	return &PGFlightScheduleRepository{db: db}
}

const scheduleColumns = `id, flight_code, origin, destination, departure_time, arrival_time, total_seats, price_cents, currency, created_at, updated_at`

func (r *PGFlightScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.FlightSchedule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM flight_schedules WHERE id=$1`, id)
	var s domain.FlightSchedule
	if err := scanSchedule(row, &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGFlightScheduleRepository) Search(ctx context.Context, origin, destination string, day time.Time) ([]domain.FlightSchedule, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM flight_schedules
		WHERE origin=$1 AND destination=$2 AND departure_time >= $3 AND departure_time < $4
		ORDER BY departure_time`, origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]domain.FlightSchedule, 0)
	for rows.Next() {
		var s domain.FlightSchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func scanSchedule(row pgx.Row, s *domain.FlightSchedule) error {
	return row.Scan(&s.ID, &s.FlightCode, &s.Origin, &s.Destination, &s.DepartureTime, &s.ArrivalTime, &s.TotalSeats, &s.PriceCents, &s.Currency, &s.CreatedAt, &s.UpdatedAt)
}

var _ FlightScheduleRepository = (*PGFlightScheduleRepository)(nil)
