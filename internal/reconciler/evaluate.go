package reconciler

import (
	"fmt"
	"time"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

// Decision lists the transitions that apply to one counseling snapshot. The
// checks run in a fixed order (fail, start, finish) and are mutually
// exclusive on status and payment_status, so at most one field is set for any
// given snapshot.
type Decision struct {
	Fail   bool
	Start  bool
	Finish bool
}

// None reports whether no transition applies.
func (d Decision) None() bool { return !d.Fail && !d.Start && !d.Finish }

// Evaluate classifies a counseling snapshot against "now". It is pure: the
// caller applies whatever transitions come back. The snapshot's ScheduleDate
// and StartTime must be present; an error means the schedule fields could not
// be parsed and the session should be skipped.
func Evaluate(c model.Counseling, now time.Time, loc *time.Location) (Decision, error) {
	start, err := combineCivil(*c.ScheduleDate, *c.StartTime, loc)
	if err != nil {
		return Decision{}, fmt.Errorf("start instant: %w", err)
	}

	var d Decision

	if c.Status == model.CounselingWaiting && !now.Before(start) {
		switch c.AccessType {
		case model.AccessScheduled:
			d.Fail = c.PaymentStatus != model.PaymentApproved
		case model.AccessOnDemand:
			d.Fail = c.PaymentStatus != model.PaymentWaiting && c.PaymentStatus != model.PaymentApproved
		}
		if c.PaymentStatus == model.PaymentApproved {
			d.Start = true
		}
	}

	if c.Status == model.CounselingOnGoing && c.EndTime != nil {
		end, err := combineCivil(*c.ScheduleDate, *c.EndTime, loc)
		if err != nil {
			return Decision{}, fmt.Errorf("end instant: %w", err)
		}
		// A session whose end clock is earlier than its start clock crosses
		// midnight; its effective end is on the next civil day.
		if end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}
		if !now.Before(end) {
			d.Finish = true
		}
	}

	return d, nil
}

// combineCivil resolves a civil date ("2006-01-02") and clock ("15:04" or
// "15:04:05") into an instant in the platform timezone.
func combineCivil(date, clock string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid civil datetime %q %q", date, clock)
}
