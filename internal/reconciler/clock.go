package reconciler

import (
	"fmt"
	"time"
)

// DefaultTimezone is the civil timezone all schedule fields are local to.
const DefaultTimezone = "Asia/Jakarta"

// Clock supplies the reconciler's notion of "now". Sweeps read it exactly
// once, at the start of the sweep.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed civil timezone, independent of
// the host machine's local timezone.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(timezone string) (*SystemClock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &SystemClock{loc: loc}, nil
}

// NewSystemClockIn pins the clock to an already-resolved location, for hosts
// that load the timezone themselves.
func NewSystemClockIn(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}
