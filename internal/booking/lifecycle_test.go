package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikemetro/bikemetro/internal/model"
)

func newPendingReservation(created time.Time) *model.Reservation {
	slotID := uint64(7)
	return &model.Reservation{
		ID:            NewReservationID(),
		UserID:        1,
		StationID:     3,
		SlotID:        &slotID,
		State:         model.ReservationPending,
		CreatedAt:     created,
		ExpiresAt:     created.Add(10 * time.Minute),
		QREntry:       NewQRToken(),
		QRExit:        NewQRToken(),
		FreeHours:     2,
		ExtraHourCost: 500,
	}
}

func TestHappyPathRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	arrival := created.Add(5 * time.Minute)
	require.NoError(t, ConfirmEntry(r, r.QREntry, arrival))
	assert.Equal(t, model.ReservationConfirmed, r.State)
	require.NotNil(t, r.EntryAt)
	assert.Equal(t, arrival, *r.EntryAt)

	departure := arrival.Add(2*time.Hour + 31*time.Minute)
	cost, err := Finalize(r, r.QRExit, departure)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationFinalized, r.State)
	assert.InDelta(t, 250, cost, 0.001)
	assert.InDelta(t, 250, r.TotalCost, 0.001)
	require.NotNil(t, r.ExitAt)
	assert.Equal(t, departure, *r.ExitAt)
}

func TestRoundTripZeroGap(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	now := created.Add(time.Minute)
	require.NoError(t, ConfirmEntry(r, r.QREntry, now))
	cost, err := Finalize(r, r.QRExit, now)
	require.NoError(t, err)
	assert.Zero(t, cost)
	assert.Equal(t, model.ReservationFinalized, r.State)
}

func TestConfirmEntryAfterExpiry(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	// correct token, but past the hold window: the reservation expires
	err := ConfirmEntry(r, r.QREntry, created.Add(11*time.Minute))
	assert.ErrorIs(t, err, ErrReservationExpired)
	assert.Equal(t, model.ReservationExpired, r.State)
	assert.Nil(t, r.EntryAt)
}

func TestConfirmEntryTokenMismatch(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	err := ConfirmEntry(r, "not-the-token", created.Add(time.Minute))
	assert.ErrorIs(t, err, ErrTokenMismatch)
	// no state change on a bad scan; the user may retry
	assert.Equal(t, model.ReservationPending, r.State)
	assert.Nil(t, r.EntryAt)
}

func TestConfirmEntryWrongState(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for _, state := range []string{
		model.ReservationConfirmed,
		model.ReservationFinalized,
		model.ReservationCancelled,
		model.ReservationExpired,
	} {
		r := newPendingReservation(created)
		r.State = state
		err := ConfirmEntry(r, r.QREntry, created.Add(time.Minute))
		assert.ErrorIs(t, err, ErrInvalidState, "state %s", state)
		assert.Equal(t, state, r.State)
	}
}

func TestFinalizeTokenMismatchLeavesStateUntouched(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)
	require.NoError(t, ConfirmEntry(r, r.QREntry, created.Add(time.Minute)))

	cost, err := Finalize(r, "wrong", created.Add(time.Hour))
	assert.ErrorIs(t, err, ErrTokenMismatch)
	assert.Zero(t, cost)
	assert.Equal(t, model.ReservationConfirmed, r.State)
	assert.Nil(t, r.ExitAt)
	assert.Zero(t, r.TotalCost)
}

func TestFinalizeAcceptsInUse(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)
	require.NoError(t, ConfirmEntry(r, r.QREntry, created.Add(time.Minute)))
	// rows written by older clients may carry EN_CURSO; finalize must
	// still accept them
	r.State = model.ReservationInUse

	_, err := Finalize(r, r.QRExit, created.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.ReservationFinalized, r.State)
}

func TestFinalizePendingRejected(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	_, err := Finalize(r, r.QRExit, created.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.ReservationPending, r.State)
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	r := newPendingReservation(created)
	require.NoError(t, Cancel(r))
	assert.Equal(t, model.ReservationCancelled, r.State)

	r = newPendingReservation(created)
	require.NoError(t, ConfirmEntry(r, r.QREntry, created.Add(time.Minute)))
	require.NoError(t, Cancel(r))
	assert.Equal(t, model.ReservationCancelled, r.State)
}

func TestCancelFinalizedRejected(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)
	require.NoError(t, ConfirmEntry(r, r.QREntry, created.Add(time.Minute)))
	_, err := Finalize(r, r.QRExit, created.Add(time.Hour))
	require.NoError(t, err)

	err = Cancel(r)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.ReservationFinalized, r.State)
}

func TestExpireIsIdempotent(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)
	late := created.Add(15 * time.Minute)

	assert.True(t, Expire(r, late))
	assert.Equal(t, model.ReservationExpired, r.State)
	// second pass over the same reservation is a no-op
	assert.False(t, Expire(r, late))
	assert.Equal(t, model.ReservationExpired, r.State)
}

func TestExpireLeavesFreshPendingAlone(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	r := newPendingReservation(created)

	assert.False(t, Expire(r, created.Add(9*time.Minute)))
	assert.Equal(t, model.ReservationPending, r.State)
}

func TestIsExpiredOnlyAppliesToPending(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	late := created.Add(time.Hour)

	r := newPendingReservation(created)
	assert.True(t, IsExpired(r, late))

	r.State = model.ReservationConfirmed
	assert.False(t, IsExpired(r, late))
}
