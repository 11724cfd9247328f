package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/poornima12/ACME-AIR/internal/domain"
)

type SeatLockRepository interface {
	// FindActiveBySeat returns the ACTIVE, unexpired lock on the seat, or
	// nil when none exists.
	FindActiveBySeat(ctx context.Context, seatID int64, now time.Time) (*domain.SeatLock, error)
	FindBySessionAndSeat(ctx context.Context, sessionID string, seatID int64) (*domain.SeatLock, error)
	// FindActiveForSession joins seats so SeatNumber is populated.
	FindActiveForSession(ctx context.Context, sessionID string) ([]domain.SeatLock, error)
	Create(ctx context.Context, lock *domain.SeatLock) error
	UpdateExpiry(ctx context.Context, id int64, expiresAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.LockStatus) error
	// ExpireLapsedForSeat marks ACTIVE locks on the seat whose expiry has
	// passed as EXPIRED. Lazy eviction: this runs on the acquire path, there
	// is no background sweeper.
	ExpireLapsedForSeat(ctx context.Context, seatID int64, now time.Time) error
	// ReleaseForSeats marks ACTIVE locks on the given seats as RELEASED,
	// used once the seats are permanently owned by a booking.
	ReleaseForSeats(ctx context.Context, seatIDs []int64) error
}

type PGSeatLockRepository struct {
	db DBTX
}

func NewSeatLockRepository(db DBTX) SeatLockRepository {
	return &PGSeatLockRepository{db: db}
}

const lockColumns = `id, seat_id, session_id, locked_at, expires_at, status`

func (r *PGSeatLockRepository) FindActiveBySeat(ctx context.Context, seatID int64, now time.Time) (*domain.SeatLock, error) {
	row := r.db.QueryRow(ctx, `SELECT `+lockColumns+` FROM seat_locks
		WHERE seat_id=$1 AND status=$2 AND expires_at > $3`, seatID, domain.LockStatusActive, now)
	return scanLockRow(row)
}

func (r *PGSeatLockRepository) FindBySessionAndSeat(ctx context.Context, sessionID string, seatID int64) (*domain.SeatLock, error) {
	row := r.db.QueryRow(ctx, `SELECT `+lockColumns+` FROM seat_locks
		WHERE session_id=$1 AND seat_id=$2 ORDER BY id DESC LIMIT 1`, sessionID, seatID)
	return scanLockRow(row)
}

func (r *PGSeatLockRepository) FindActiveForSession(ctx context.Context, sessionID string) ([]domain.SeatLock, error) {
	rows, err := r.db.Query(ctx, `SELECT l.id, l.seat_id, l.session_id, l.locked_at, l.expires_at, l.status, s.seat_number
		FROM seat_locks l JOIN seats s ON s.id = l.seat_id
		WHERE l.session_id=$1 AND l.status=$2`, sessionID, domain.LockStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locks := make([]domain.SeatLock, 0)
	for rows.Next() {
		var l domain.SeatLock
		if err := rows.Scan(&l.ID, &l.SeatID, &l.SessionID, &l.LockedAt, &l.ExpiresAt, &l.Status, &l.SeatNumber); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, rows.Err()
}

func (r *PGSeatLockRepository) Create(ctx context.Context, lock *domain.SeatLock) error {
	return r.db.QueryRow(ctx, `INSERT INTO seat_locks (seat_id, session_id, locked_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		lock.SeatID, lock.SessionID, lock.LockedAt, lock.ExpiresAt, lock.Status).Scan(&lock.ID)
}

func (r *PGSeatLockRepository) UpdateExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE seat_locks SET expires_at=$1 WHERE id=$2`, expiresAt, id)
	return err
}

func (r *PGSeatLockRepository) UpdateStatus(ctx context.Context, id int64, status domain.LockStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE seat_locks SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (r *PGSeatLockRepository) ExpireLapsedForSeat(ctx context.Context, seatID int64, now time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE seat_locks SET status=$1
		WHERE seat_id=$2 AND status=$3 AND expires_at <= $4`,
		domain.LockStatusExpired, seatID, domain.LockStatusActive, now)
	return err
}

func (r *PGSeatLockRepository) ReleaseForSeats(ctx context.Context, seatIDs []int64) error {
	_, err := r.db.Exec(ctx, `UPDATE seat_locks SET status=$1
		WHERE seat_id = ANY($2) AND status=$3`,
		domain.LockStatusReleased, seatIDs, domain.LockStatusActive)
	return err
}

func scanLockRow(row pgx.Row) (*domain.SeatLock, error) {
	var l domain.SeatLock
	if err := row.Scan(&l.ID, &l.SeatID, &l.SessionID, &l.LockedAt, &l.ExpiresAt, &l.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

var _ SeatLockRepository = (*PGSeatLockRepository)(nil)
