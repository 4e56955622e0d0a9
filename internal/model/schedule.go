package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry is one row of a psychologist's published schedule: either a
// weekly rule (Day set) or a dated entry (Date set).
type ScheduleEntry struct {
	ID        uuid.UUID `json:"id"`
	Day       *string   `json:"day,omitempty"`
	Date      *string   `json:"date,omitempty"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// BookedSchedule reserves a slot for a scheduled counseling until its payment
// is settled. Released when the payment is rejected or refunded.
type BookedSchedule struct {
	ID             uuid.UUID
	PsychologistID uuid.UUID
	CounselingID   uuid.UUID
	Date           string
	StartTime      string
	EndTime        string
	CreatedAt      time.Time
}
