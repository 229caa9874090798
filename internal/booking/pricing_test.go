package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(base time.Time, d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestCostWithinFreeHoursIsZero(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entry := ts(base, 0)

	assert.Zero(t, Cost(entry, ts(base, 0), 2, 500))
	assert.Zero(t, Cost(entry, ts(base, time.Hour), 2, 500))
	// exactly the free allowance: 2h with 2 free hours costs nothing
	assert.Zero(t, Cost(entry, ts(base, 2*time.Hour), 2, 500))
}

func TestCostBillsHalfHourUnitsRoundedHalfUp(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entry := ts(base, 0)

	// 2h31m -> 0.5167 extra hours -> 1.033 units -> rounds to 1 -> 250
	assert.InDelta(t, 250, Cost(entry, ts(base, 2*time.Hour+31*time.Minute), 2, 500), 0.001)
	// 2h14.4m -> 0.24 extra hours -> 0.48 units -> rounds to 0, not billed
	assert.Zero(t, Cost(entry, ts(base, 2*time.Hour+14*time.Minute+24*time.Second), 2, 500))
	// 2h16m -> 0.267 extra hours -> 0.53 units -> rounds to 1 -> 250
	assert.InDelta(t, 250, Cost(entry, ts(base, 2*time.Hour+16*time.Minute), 2, 500), 0.001)
	// 3h45m -> 1.75 extra hours -> 3.5 units -> floor(4.0) -> 4 -> 1000
	assert.InDelta(t, 1000, Cost(entry, ts(base, 3*time.Hour+45*time.Minute), 2, 500), 0.001)
	// 5h -> 3 extra hours -> 6 units -> 1500
	assert.InDelta(t, 1500, Cost(entry, ts(base, 5*time.Hour), 2, 500), 0.001)
}

func TestCostMonotonicInDuration(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entry := ts(base, 0)

	prev := 0.0
	for m := 0; m <= 10*60; m += 7 {
		c := Cost(entry, ts(base, time.Duration(m)*time.Minute), 2, 500)
		assert.GreaterOrEqual(t, c, prev, "cost decreased at %dm", m)
		prev = c
	}
}

func TestCostGuardsMissingTimestamps(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entry := ts(base, 0)

	assert.Zero(t, Cost(nil, entry, 2, 500))
	assert.Zero(t, Cost(entry, nil, 2, 500))
	assert.Zero(t, Cost(nil, nil, 2, 500))
	// exit before entry never produces a negative amount
	assert.Zero(t, Cost(entry, ts(base, -time.Hour), 2, 500))
}

func TestCostNoFreeHours(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	entry := ts(base, 0)

	// 1h with no allowance -> 2 units -> full hourly tariff
	assert.InDelta(t, 500, Cost(entry, ts(base, time.Hour), 0, 500), 0.001)
	// 30m -> 1 unit -> half tariff
	assert.InDelta(t, 250, Cost(entry, ts(base, 30*time.Minute), 0, 500), 0.001)
}
