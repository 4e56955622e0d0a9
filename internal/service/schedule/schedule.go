package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// PsychologistSchedules merges the weekly rules and the upcoming dated
// entries of one psychologist.
type PsychologistSchedules struct {
	Name      string                `json:"name"`
	Price     int64                 `json:"price"`
	Schedules []model.ScheduleEntry `json:"schedules"`
}

type AvailabilityResult struct {
	PsychologistID uuid.UUID `json:"psychologist_id"`
	Date           string    `json:"date"`
	RequestedTime  string    `json:"requested_time"`
	IsAvailable    bool      `json:"is_available"`
	ConflictID     *string   `json:"conflict_id"`
	ConflictRange  *string   `json:"conflict_range"`
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type Store interface {
	ListWeekly(ctx context.Context, psychologistID uuid.UUID) ([]model.ScheduleEntry, error)
	ListDated(ctx context.Context, psychologistID uuid.UUID, fromDate string) ([]model.ScheduleEntry, error)
	FindConflict(ctx context.Context, psychologistID uuid.UUID, date, startTime, endTime string) (*model.BookedSchedule, error)
}

type PsychologistStore interface {
	GetProfile(ctx context.Context, psychologistID uuid.UUID) (model.Psychologist, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListForPsychologist(ctx context.Context, psychologistID uuid.UUID) (PsychologistSchedules, error)
	CheckAvailability(ctx context.Context, psychologistID uuid.UUID, date, timeRange string) (AvailabilityResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type scheduleService struct {
	store         Store
	psychologists PsychologistStore
	loc           *time.Location
}

func New(store Store, psychologists PsychologistStore, loc *time.Location) Service {
	return &scheduleService{store: store, psychologists: psychologists, loc: loc}
}

func (s *scheduleService) ListForPsychologist(ctx context.Context, psychologistID uuid.UUID) (PsychologistSchedules, error) {
	var out PsychologistSchedules

	p, err := s.psychologists.GetProfile(ctx, psychologistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrPsychologistNotFound
		}
		return out, fmt.Errorf("get psychologist: %w", err)
	}

	weekly, err := s.store.ListWeekly(ctx, psychologistID)
	if err != nil {
		return out, fmt.Errorf("list weekly schedules: %w", err)
	}

	today := time.Now().In(s.loc).Format("2006-01-02")
	dated, err := s.store.ListDated(ctx, psychologistID, today)
	if err != nil {
		return out, fmt.Errorf("list dated schedules: %w", err)
	}

	if len(weekly) == 0 && len(dated) == 0 {
		return out, ErrNoSchedules
	}

	out.Name = p.Name
	out.Price = p.Price
	out.Schedules = append(append([]model.ScheduleEntry{}, weekly...), dated...)
	return out, nil
}

// CheckAvailability probes one slot. timeRange is "HH:MM-HH:MM".
func (s *scheduleService) CheckAvailability(ctx context.Context, psychologistID uuid.UUID, date, timeRange string) (AvailabilityResult, error) {
	var out AvailabilityResult

	startTime, endTime, err := splitTimeRange(timeRange)
	if err != nil {
		return out, err
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return out, ErrInvalidTimeRange
	}

	conflict, err := s.store.FindConflict(ctx, psychologistID, date, startTime, endTime)
	if err != nil {
		return out, fmt.Errorf("check booked schedules: %w", err)
	}

	out = AvailabilityResult{
		PsychologistID: psychologistID,
		Date:           date,
		RequestedTime:  startTime + " - " + endTime,
		IsAvailable:    conflict == nil,
	}
	if conflict != nil {
		id := conflict.ID.String()
		rng := clipMinutes(conflict.StartTime) + " - " + clipMinutes(conflict.EndTime)
		out.ConflictID = &id
		out.ConflictRange = &rng
	}
	return out, nil
}

func splitTimeRange(timeRange string) (string, string, error) {
	parts := strings.SplitN(timeRange, "-", 2)
	if len(parts) != 2 {
		return "", "", ErrInvalidTimeRange
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	for _, v := range []string{start, end} {
		if _, err := time.Parse("15:04", v); err != nil {
			return "", "", ErrInvalidTimeRange
		}
	}
	return start, end, nil
}

// clipMinutes drops the seconds a time column renders with.
func clipMinutes(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
