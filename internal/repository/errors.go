// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// failure scenarios: ErrSlotUnavailable signals that a conditional state
// flip found the slot in the wrong state (somebody else got there
// first), ErrInvalidTransition that a slot state change was requested
// from a state that does not allow it, and ErrConflict that an insert
// hit a uniqueness constraint (duplicate RUT, email or username).
package repository

import "errors"

// ErrSlotUnavailable is returned when a reservation attempt finds the
// slot not DISPONIBLE.  The caller should let the user pick another
// slot; the operation is never retried automatically.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInvalidTransition is returned when a slot state change is
// requested from a state that does not permit it, e.g. occupying a
// slot that is not RESERVADO or putting a busy slot into maintenance.
var ErrInvalidTransition = errors.New("invalid slot transition")

// ErrConflict is returned when an insert or update cannot proceed
// because of conflicting existing records, such as registering a user
// with an already-taken RUT or email.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
