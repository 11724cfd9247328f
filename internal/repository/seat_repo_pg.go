package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/poornima12/ACME-AIR/internal/domain"
)

type SeatRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Seat, error)
	// GetForUpdate fetches the seat row under an exclusive row lock. A
	// concurrent acquirer of the same seat blocks here until the holding
	// transaction commits or aborts.
	GetForUpdate(ctx context.Context, id int64) (*domain.Seat, error)
	FindByScheduleAndNumbers(ctx context.Context, scheduleID int64, seatNumbers []string) ([]domain.Seat, error)
	ListBySchedule(ctx context.Context, scheduleID int64) ([]domain.Seat, error)
	CountByScheduleAndStatus(ctx context.Context, scheduleID int64, status domain.SeatStatus) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SeatStatus) error
}

type PGSeatRepository struct {
	db DBTX
}

func NewSeatRepository(db DBTX) SeatRepository {
	return &PGSeatRepository{db: db}
}

const seatColumns = `id, schedule_id, seat_number, status, created_at, updated_at`

func (r *PGSeatRepository) GetByID(ctx context.Context, id int64) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id=$1`, id)
	return scanSeatRow(row)
}

func (r *PGSeatRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id=$1 FOR UPDATE`, id)
	return scanSeatRow(row)
}

func (r *PGSeatRepository) FindByScheduleAndNumbers(ctx context.Context, scheduleID int64, seatNumbers []string) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT `+seatColumns+` FROM seats WHERE schedule_id=$1 AND seat_number = ANY($2)`, scheduleID, seatNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

func (r *PGSeatRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT `+seatColumns+` FROM seats WHERE schedule_id=$1 ORDER BY seat_number`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

func (r *PGSeatRepository) CountByScheduleAndStatus(ctx context.Context, scheduleID int64, status domain.SeatStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM seats WHERE schedule_id=$1 AND status=$2`, scheduleID, status).Scan(&count)
	return count, err
}

func (r *PGSeatRepository) UpdateStatus(ctx context.Context, id int64, status domain.SeatStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE seats SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("seat not found")
	}
	return nil
}

func scanSeatRow(row pgx.Row) (*domain.Seat, error) {
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.ScheduleID, &s.SeatNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func collectSeats(rows pgx.Rows) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.ScheduleID, &s.SeatNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

var _ SeatRepository = (*PGSeatRepository)(nil)
