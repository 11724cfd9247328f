package seatlock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poornima12/ACME-AIR/internal/apperr"
	"github.com/poornima12/ACME-AIR/internal/domain"
	"github.com/poornima12/ACME-AIR/internal/repository"
	"go.uber.org/zap"
)

// DefaultTTL is how long a provisional seat claim lives before it is
// eligible for lazy eviction.
const DefaultTTL = 10 * time.Minute

// Manager is the sole mutator of seat and seat-lock state. It is a cheap
// value constructed over whatever repositories the caller is holding, so
// the booking path builds one inside its transaction and another, bound to
// the plain pool, for compensating cleanup after a rollback.
type Manager struct {
	seats repository.SeatRepository
	locks repository.SeatLockRepository
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewManager(seats repository.SeatRepository, locks repository.SeatLockRepository, ttl time.Duration, log *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		seats: seats,
		locks: locks,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Acquire stakes an exclusive claim on the seat for the session. It first
// lazily expires any lapsed lock on the seat, then reads the seat row
// under FOR UPDATE: a concurrent acquirer of the same seat blocks until
// this transaction finishes and then observes the resulting state. Failure
// is never retried here; the caller compensates and propagates.
func (m *Manager) Acquire(ctx context.Context, seatID int64, sessionID string) (*domain.Seat, error) {
	now := m.now()
	if err := m.locks.ExpireLapsedForSeat(ctx, seatID, now); err != nil {
		return nil, err
	}

	seat, err := m.seats.GetForUpdate(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if seat == nil {
		return nil, apperr.NotFoundf("Seat not found: %d", seatID)
	}
	if seat.Status != domain.SeatStatusAvailable {
		return nil, apperr.SeatUnavailable(fmt.Sprintf("Seat %s is not available", seat.SeatNumber)).
			WithDetails(map[string]any{"seat_number": seat.SeatNumber})
	}

	active, err := m.locks.FindActiveBySeat(ctx, seatID, now)
	if err != nil {
		return nil, err
	}
	if active != nil && active.SessionID != sessionID {
		return nil, apperr.SeatUnavailable(fmt.Sprintf("Seat %s is temporarily reserved by another user", seat.SeatNumber)).
			WithDetails(map[string]any{"seat_number": seat.SeatNumber})
	}

	if err := m.seats.UpdateStatus(ctx, seatID, domain.SeatStatusLocked); err != nil {
		return nil, err
	}
	if err := m.createOrRefreshLock(ctx, seatID, sessionID, now); err != nil {
		return nil, err
	}

	seat.Status = domain.SeatStatusLocked
	m.log.Debug("seat locked", zap.Int64("seat_id", seatID), zap.String("session_id", sessionID))
	return seat, nil
}

func (m *Manager) createOrRefreshLock(ctx context.Context, seatID int64, sessionID string, now time.Time) error {
	expiresAt := now.Add(m.ttl)

	existing, err := m.locks.FindBySessionAndSeat(ctx, sessionID, seatID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == domain.LockStatusActive {
		return m.locks.UpdateExpiry(ctx, existing.ID, expiresAt)
	}
	return m.locks.Create(ctx, &domain.SeatLock{
		SeatID:    seatID,
		SessionID: sessionID,
		LockedAt:  now,
		ExpiresAt: expiresAt,
		Status:    domain.LockStatusActive,
	})
}

// Confirm transitions the seats LOCKED->BOOKED and releases their locks:
// once a booking permanently owns the seat the provisional claim is no
// longer needed.
func (m *Manager) Confirm(ctx context.Context, seatIDs []int64, sessionID string) error {
	for _, id := range seatIDs {
		if err := m.seats.UpdateStatus(ctx, id, domain.SeatStatusBooked); err != nil {
			return err
		}
	}
	if err := m.locks.ReleaseForSeats(ctx, seatIDs); err != nil {
		return err
	}
	m.log.Debug("seats confirmed", zap.Int("count", len(seatIDs)), zap.String("session_id", sessionID))
	return nil
}

// Release reverts seats to AVAILABLE. Used when a multi-seat acquisition
// partially succeeded: only the seats this attempt managed to lock are
// handed back. Per-seat failures are logged and skipped so the remaining
// seats still get released.
func (m *Manager) Release(ctx context.Context, seatIDs []int64) {
	for _, id := range seatIDs {
		if err := m.seats.UpdateStatus(ctx, id, domain.SeatStatusAvailable); err != nil {
			m.log.Error("failed to release seat", zap.Int64("seat_id", id), zap.Error(err))
		}
	}
}

// ReleaseForSession marks the session's ACTIVE locks on the given seat
// numbers as RELEASED and reverts any seat still LOCKED by them to
// AVAILABLE. A lock legitimately held by another session is untouched.
// This is the compensating cleanup after a failed booking and must run
// outside the aborted transaction.
func (m *Manager) ReleaseForSession(ctx context.Context, sessionID string, seatNumbers []string) error {
	wanted := make(map[string]bool, len(seatNumbers))
	for _, n := range seatNumbers {
		wanted[strings.ToUpper(n)] = true
	}

	locks, err := m.locks.FindActiveForSession(ctx, sessionID)
	if err != nil {
		return err
	}

	released := 0
	for _, lock := range locks {
		if len(wanted) > 0 && !wanted[strings.ToUpper(lock.SeatNumber)] {
			continue
		}
		if err := m.locks.UpdateStatus(ctx, lock.ID, domain.LockStatusReleased); err != nil {
			m.log.Error("failed to release lock", zap.Int64("lock_id", lock.ID), zap.Error(err))
			continue
		}
		seat, err := m.seats.GetByID(ctx, lock.SeatID)
		if err != nil || seat == nil {
			m.log.Error("failed to load seat for released lock", zap.Int64("seat_id", lock.SeatID), zap.Error(err))
			continue
		}
		if seat.Status == domain.SeatStatusLocked {
			if err := m.seats.UpdateStatus(ctx, seat.ID, domain.SeatStatusAvailable); err != nil {
				m.log.Error("failed to release seat", zap.Int64("seat_id", seat.ID), zap.Error(err))
				continue
			}
		}
		released++
	}

	m.log.Debug("released seat locks", zap.Int("count", released), zap.String("session_id", sessionID))
	return nil
}
