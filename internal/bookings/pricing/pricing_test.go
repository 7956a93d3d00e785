package pricing

import (
	"testing"
	"time"
)

func date(day int, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func TestDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", date(1, 0), date(1, 0), 1},
		{"same day few hours", date(1, 9), date(1, 15), 1},
		{"exactly one day", date(1, 0), date(2, 0), 1},
		{"one and a half days rounds up", date(1, 0), date(2, 12), 2},
		{"just under half rounds down", date(1, 0), date(2, 11), 1},
		{"exactly three days", date(1, 0), date(4, 0), 3},
		{"reversed range uses absolute span", date(4, 0), date(1, 0), 3},
		{"ten days", date(1, 0), date(11, 0), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Days(tt.from, tt.to); got != tt.want {
				t.Errorf("Days(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		rate float64
		want float64
	}{
		{"same day bills one day", date(1, 9), date(1, 15), 100, 100},
		{"one and a half days bills two", date(1, 0), date(2, 12), 100, 200},
		{"three days at fractional rate", date(1, 0), date(4, 0), 49.5, 148.5},
		{"ten days", date(1, 0), date(11, 0), 25, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Total(tt.from, tt.to, tt.rate); got != tt.want {
				t.Errorf("Total(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.rate, got, tt.want)
			}
		})
	}
}
