package schedule

import "errors"

var (
	ErrPsychologistNotFound = errors.New("psychologist not found")
	ErrNoSchedules          = errors.New("psychologist has no published schedules")
	ErrInvalidTimeRange     = errors.New("time range must be HH:MM-HH:MM")
)
