package reconciler

import (
	"testing"
	"time"
)

var _ Clock = (*SystemClock)(nil)

func TestNewSystemClockDefaultsTimezone(t *testing.T) {
	c, err := NewSystemClock("")
	if err != nil {
		t.Fatalf("NewSystemClock(\"\") returned error: %v", err)
	}
	if got := c.Now().Location().String(); got != DefaultTimezone {
		t.Fatalf("Now() location = %q, want %q", got, DefaultTimezone)
	}
	if c.Location().String() != DefaultTimezone {
		t.Fatalf("Location() = %q, want %q", c.Location(), DefaultTimezone)
	}
}

func TestNewSystemClockRejectsUnknownTimezone(t *testing.T) {
	if _, err := NewSystemClock("Nowhere/Invalid"); err == nil {
		t.Fatal("expected error for unknown timezone, got nil")
	}
}

func TestNewSystemClockInPinsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	c := NewSystemClockIn(loc)
	if got := c.Now().Location(); got != loc {
		t.Fatalf("Now() location = %v, want %v", got, loc)
	}
}

func TestNewSystemClockInNilLocation(t *testing.T) {
	c := NewSystemClockIn(nil)
	// Must not panic; reading the clock has to work even without a location.
	if c.Now().IsZero() {
		t.Fatal("Now() returned zero time")
	}
}
