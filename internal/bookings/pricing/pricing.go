package pricing

import (
	"math"
	"time"
)

// Days converts a date range to a billable day count: the absolute
// span in 24h units, rounded half up. A same-day rental rounds to 0
// and is billed as 1 day minimum.
func Days(from, to time.Time) int {
	span := to.Sub(from)
	if span < 0 {
		span = -span
	}

	days := int(math.Round(span.Hours() / 24))
	if days == 0 {
		return 1
	}
	return days
}

// Total prices a rental: billable days times the tool's daily rate.
// Computed once at booking creation and stored on the booking.
func Total(from, to time.Time, pricePerDay float64) float64 {
	return float64(Days(from, to)) * pricePerDay
}
