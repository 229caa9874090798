package booking

import (
	"math"
	"time"
)

// Cost computes the billable amount for a stay between entry and exit.
// Usage up to freeHours is not billed.  Anything beyond is billed in
// half-hour units at half the hourly tariff, with the unit count
// rounded half-up: units = floor(extraHours*2 + 0.5).  That means 0.24
// extra hours (0.48 units) rounds down to 0 and is not billed, while
// 0.26 extra hours rounds up to one unit.  The result is rounded to
// two decimal places.  When either timestamp is absent the cost is 0;
// finalize never calls this without both.
func Cost(entry, exit *time.Time, freeHours int, tariffPerHour float64) float64 {
	if entry == nil || exit == nil {
		return 0
	}
	usedHours := exit.Sub(*entry).Hours()
	extraHours := usedHours - float64(freeHours)
	if extraHours <= 0 {
		return 0
	}
	halfHourUnits := math.Floor(extraHours*2 + 0.5)
	return round2(halfHourUnits * (tariffPerHour / 2))
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
