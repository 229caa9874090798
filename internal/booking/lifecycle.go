// Package booking holds the reservation lifecycle state machine and the
// pricing rules.  Everything in this package is pure: functions take an
// in-memory reservation plus the current time, validate the requested
// transition and mutate the struct on success.  Persistence is the
// caller's job; handlers load the row inside a transaction, apply the
// transition here and write both the reservation and the dependent slot
// state back atomically.
package booking

import (
	"errors"
	"time"

	"github.com/bikemetro/bikemetro/internal/model"
)

// Sentinel errors returned by lifecycle transitions.  Handlers map them
// onto HTTP responses; none of them is retried inside this package.
var (
	// ErrInvalidState means the requested operation is not valid for
	// the reservation's current lifecycle state.
	ErrInvalidState = errors.New("invalid reservation state")
	// ErrTokenMismatch means the presented QR code does not match the
	// stored token.  The reservation is left untouched.
	ErrTokenMismatch = errors.New("qr token mismatch")
	// ErrReservationExpired is returned by ConfirmEntry when the hold
	// window has passed.  The reservation has already been mutated to
	// EXPIRADA when this is returned; the caller must persist that
	// mutation and release the slot.
	ErrReservationExpired = errors.New("reservation expired")
)

// IsExpired reports whether a pending reservation has outlived its hold
// window.  It is the single expiry predicate, shared by the lazy check
// inside ConfirmEntry and by the periodic sweep.
func IsExpired(r *model.Reservation, now time.Time) bool {
	return r.State == model.ReservationPending && now.After(r.ExpiresAt)
}

// ConfirmEntry moves a reservation PENDIENTE -> CONFIRMADA after the
// user scans the entry QR.  Checks run in order: state, expiry, token.
// The expiry check fires even though the caller meant to confirm; in
// that case the reservation is mutated to EXPIRADA and
// ErrReservationExpired is returned so the caller persists the expiry
// and releases the slot.  On success EntryAt is set to now and the
// slot must be moved RESERVADO -> OCUPADO by the caller.
func ConfirmEntry(r *model.Reservation, qr string, now time.Time) error {
	if r.State != model.ReservationPending {
		return ErrInvalidState
	}
	if IsExpired(r, now) {
		r.State = model.ReservationExpired
		return ErrReservationExpired
	}
	if qr != r.QREntry {
		return ErrTokenMismatch
	}
	t := now
	r.EntryAt = &t
	r.State = model.ReservationConfirmed
	return nil
}

// Finalize moves a reservation to FINALIZADA after the user scans the
// exit QR.  CONFIRMADA and EN_CURSO are both accepted as source states
// (EN_CURSO exists only in rows written by older clients).  On success
// ExitAt is set to now, the total cost is computed from the entry/exit
// timestamps and written exactly once, and the caller must release the
// slot back to DISPONIBLE.  The computed cost is returned.
func Finalize(r *model.Reservation, qr string, now time.Time) (float64, error) {
	if r.State != model.ReservationConfirmed && r.State != model.ReservationInUse {
		return 0, ErrInvalidState
	}
	if qr != r.QRExit {
		return 0, ErrTokenMismatch
	}
	t := now
	r.ExitAt = &t
	r.TotalCost = Cost(r.EntryAt, r.ExitAt, r.FreeHours, r.ExtraHourCost)
	r.State = model.ReservationFinalized
	return r.TotalCost, nil
}

// Cancel moves a PENDIENTE or CONFIRMADA reservation to CANCELADA.  No
// cost is computed and no refund logic runs here.  The caller releases
// the slot when the reservation was still holding one.
func Cancel(r *model.Reservation) error {
	if r.State != model.ReservationPending && r.State != model.ReservationConfirmed {
		return ErrInvalidState
	}
	r.State = model.ReservationCancelled
	return nil
}

// Expire idempotently moves a stale PENDIENTE reservation to EXPIRADA.
// It reports whether the transition happened; calling it on an already
// expired (or any non-pending) reservation is a no-op, not an error,
// so the sweep can safely run repeatedly and concurrently.
func Expire(r *model.Reservation, now time.Time) bool {
	if !IsExpired(r, now) {
		return false
	}
	r.State = model.ReservationExpired
	return true
}
