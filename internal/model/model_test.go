package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotCode(t *testing.T) {
	s := Slot{Row: 3, Column: "B"}
	assert.Equal(t, "B3", s.Code())
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Reservation{State: ReservationPending, ExpiresAt: now.Add(10 * time.Minute)}

	assert.Equal(t, 600, r.RemainingSeconds(now))
	assert.Equal(t, 90, r.RemainingSeconds(now.Add(8*time.Minute+30*time.Second)))

	// Past the window or out of PENDIENTE there is nothing left.
	assert.Equal(t, 0, r.RemainingSeconds(now.Add(11*time.Minute)))
	r.State = ReservationConfirmed
	assert.Equal(t, 0, r.RemainingSeconds(now))
}

func TestHoldsSlot(t *testing.T) {
	slotID := uint64(7)
	r := Reservation{State: ReservationPending, SlotID: &slotID}
	assert.True(t, r.HoldsSlot())

	r.State = ReservationConfirmed
	assert.True(t, r.HoldsSlot())

	r.State = ReservationFinalized
	assert.False(t, r.HoldsSlot())

	r.State = ReservationPending
	r.SlotID = nil
	assert.False(t, r.HoldsSlot())
}
