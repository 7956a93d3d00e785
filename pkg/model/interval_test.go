package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    DateRange
		b    DateRange
		want bool
	}{
		{
			name: "disjoint before",
			a:    DateRange{From: date(2026, 1, 1), To: date(2026, 1, 5)},
			b:    DateRange{From: date(2026, 1, 6), To: date(2026, 1, 10)},
			want: false,
		},
		{
			name: "disjoint after",
			a:    DateRange{From: date(2026, 1, 11), To: date(2026, 1, 15)},
			b:    DateRange{From: date(2026, 1, 6), To: date(2026, 1, 10)},
			want: false,
		},
		{
			name: "shared endpoint conflicts (no same-day handover)",
			a:    DateRange{From: date(2026, 1, 1), To: date(2026, 1, 5)},
			b:    DateRange{From: date(2026, 1, 5), To: date(2026, 1, 10)},
			want: true,
		},
		{
			name: "partial overlap",
			a:    DateRange{From: date(2026, 1, 1), To: date(2026, 1, 7)},
			b:    DateRange{From: date(2026, 1, 5), To: date(2026, 1, 10)},
			want: true,
		},
		{
			name: "contained",
			a:    DateRange{From: date(2026, 1, 1), To: date(2026, 1, 31)},
			b:    DateRange{From: date(2026, 1, 10), To: date(2026, 1, 12)},
			want: true,
		},
		{
			name: "identical",
			a:    DateRange{From: date(2026, 1, 10), To: date(2026, 1, 15)},
			b:    DateRange{From: date(2026, 1, 10), To: date(2026, 1, 15)},
			want: true,
		},
		{
			name: "single day vs single day",
			a:    DateRange{From: date(2026, 1, 3), To: date(2026, 1, 3)},
			b:    DateRange{From: date(2026, 1, 3), To: date(2026, 1, 3)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestDateRange_Valid(t *testing.T) {
	chronological := DateRange{From: date(2026, 3, 1), To: date(2026, 3, 5)}
	if !chronological.Valid() {
		t.Error("chronological range should be valid")
	}

	sameDay := DateRange{From: date(2026, 3, 1), To: date(2026, 3, 1)}
	if !sameDay.Valid() {
		t.Error("same-day range should be valid")
	}

	reversed := DateRange{From: date(2026, 3, 5), To: date(2026, 3, 1)}
	if reversed.Valid() {
		t.Error("reversed range should be invalid")
	}
}

func TestIntervalSet_Conflicts(t *testing.T) {
	set := IntervalSet{
		{From: date(2026, 1, 1), To: date(2026, 1, 5)},
		{From: date(2026, 1, 10), To: date(2026, 1, 15)},
		{From: date(2026, 2, 1), To: date(2026, 2, 3)},
	}

	conflicts := set.Conflicts(DateRange{From: date(2026, 1, 5), To: date(2026, 1, 10)})
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
	}

	free := set.Conflicts(DateRange{From: date(2026, 1, 6), To: date(2026, 1, 9)})
	if len(free) != 0 {
		t.Errorf("expected no conflicts, got %d", len(free))
	}
}

func TestIntervalSet_HasConflict_Idempotent(t *testing.T) {
	set := IntervalSet{
		{From: date(2026, 1, 1), To: date(2026, 1, 5)},
	}
	candidate := DateRange{From: date(2026, 1, 3), To: date(2026, 1, 8)}

	first := set.HasConflict(candidate)
	for i := 0; i < 10; i++ {
		if got := set.HasConflict(candidate); got != first {
			t.Fatalf("query %d changed result: got %v, want %v", i, got, first)
		}
	}
	if len(set) != 1 {
		t.Errorf("querying must not mutate the set, len = %d", len(set))
	}
}

func TestIntervalSet_HasConflict_Empty(t *testing.T) {
	var set IntervalSet
	if set.HasConflict(DateRange{From: date(2026, 1, 1), To: date(2026, 1, 5)}) {
		t.Error("empty set should never conflict")
	}
}

func TestIntervalSet_Add(t *testing.T) {
	var set IntervalSet
	r := DateRange{From: date(2026, 1, 1), To: date(2026, 1, 5)}

	set = set.Add(r)
	if len(set) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set))
	}
	if !set.HasConflict(r) {
		t.Error("added range should now conflict with itself")
	}
}
