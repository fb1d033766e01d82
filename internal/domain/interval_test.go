package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange_Overlaps(t *testing.T) {
	existing := DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)}

	cases := []struct {
		name      string
		candidate DateRange
		want      bool
	}{
		{"inside", DateRange{date(2024, 6, 2), date(2024, 6, 4)}, true},
		{"starts inside", DateRange{date(2024, 6, 3), date(2024, 6, 7)}, true},
		{"ends inside", DateRange{date(2024, 5, 30), date(2024, 6, 2)}, true},
		{"contains existing", DateRange{date(2024, 5, 30), date(2024, 6, 10)}, true},
		{"identical", DateRange{date(2024, 6, 1), date(2024, 6, 5)}, true},
		{"touching after", DateRange{date(2024, 6, 5), date(2024, 6, 8)}, false},
		{"touching before", DateRange{date(2024, 5, 28), date(2024, 6, 1)}, false},
		{"disjoint", DateRange{date(2024, 7, 1), date(2024, 7, 3)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := existing.Overlaps(tc.candidate); got != tc.want {
				t.Fatalf("overlaps(existing, %v) = %v, want %v", tc.candidate, got, tc.want)
			}
			// The predicate is symmetric.
			if got := tc.candidate.Overlaps(existing); got != tc.want {
				t.Fatalf("overlaps(%v, existing) = %v, want %v", tc.candidate, got, tc.want)
			}
		})
	}
}

func TestDateRange_SelfOverlap(t *testing.T) {
	r := DateRange{date(2024, 6, 1), date(2024, 6, 2)}
	if !r.Overlaps(r) {
		t.Fatal("non-empty interval must overlap itself")
	}
}

func TestDateRange_Nights(t *testing.T) {
	r := DateRange{date(2024, 6, 1), date(2024, 6, 4)}
	if n := r.Nights(); n != 3 {
		t.Fatalf("nights = %d, want 3", n)
	}

	empty := DateRange{date(2024, 6, 1), date(2024, 6, 1)}
	if empty.Valid() {
		t.Fatal("zero-night range must be invalid")
	}
	if n := empty.Nights(); n != 0 {
		t.Fatalf("nights = %d, want 0", n)
	}
}

func TestOrderID_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	orderID := NewOrderID(123456, now)

	got, err := BookingIDFromOrderID(orderID)
	if err != nil {
		t.Fatalf("BookingIDFromOrderID(%q): %v", orderID, err)
	}
	if got != 123456 {
		t.Fatalf("recovered booking id %d, want 123456", got)
	}
}

func TestBookingIDFromOrderID_Malformed(t *testing.T) {
	for _, bad := range []string{"", "123456", "_17000", "abc_17000"} {
		if _, err := BookingIDFromOrderID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
