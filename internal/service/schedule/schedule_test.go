package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

type fakeStore struct {
	weekly   []model.ScheduleEntry
	dated    []model.ScheduleEntry
	conflict *model.BookedSchedule
}

func (f *fakeStore) ListWeekly(_ context.Context, _ uuid.UUID) ([]model.ScheduleEntry, error) {
	return f.weekly, nil
}

func (f *fakeStore) ListDated(_ context.Context, _ uuid.UUID, _ string) ([]model.ScheduleEntry, error) {
	return f.dated, nil
}

func (f *fakeStore) FindConflict(_ context.Context, _ uuid.UUID, _, _, _ string) (*model.BookedSchedule, error) {
	return f.conflict, nil
}

type fakePsychologists struct {
	profile model.Psychologist
	err     error
}

func (f *fakePsychologists) GetProfile(_ context.Context, _ uuid.UUID) (model.Psychologist, error) {
	return f.profile, f.err
}

func strptr(s string) *string { return &s }

func newService(store *fakeStore, ps *fakePsychologists) Service {
	return New(store, ps, time.FixedZone("WIB", 7*3600))
}

func TestListForPsychologistMergesWeeklyAndDated(t *testing.T) {
	store := &fakeStore{
		weekly: []model.ScheduleEntry{
			{ID: uuid.New(), Day: strptr("monday"), StartTime: "09:00", EndTime: "12:00"},
		},
		dated: []model.ScheduleEntry{
			{ID: uuid.New(), Date: strptr("2026-09-05"), StartTime: "13:00", EndTime: "15:00"},
		},
	}
	ps := &fakePsychologists{profile: model.Psychologist{Name: "Dr. Sari", Price: 150000}}
	svc := newService(store, ps)

	got, err := svc.ListForPsychologist(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListForPsychologist: %v", err)
	}
	if got.Name != "Dr. Sari" || got.Price != 150000 {
		t.Fatalf("profile fields wrong: %+v", got)
	}
	if len(got.Schedules) != 2 {
		t.Fatalf("got %d schedules, want 2", len(got.Schedules))
	}
	if got.Schedules[0].Day == nil || got.Schedules[1].Date == nil {
		t.Fatal("weekly entries must come before dated entries")
	}
}

func TestListForPsychologistEmptyIsNotFound(t *testing.T) {
	svc := newService(&fakeStore{}, &fakePsychologists{profile: model.Psychologist{Name: "Dr. Sari"}})

	_, err := svc.ListForPsychologist(context.Background(), uuid.New())
	if !errors.Is(err, ErrNoSchedules) {
		t.Fatalf("err = %v, want ErrNoSchedules", err)
	}
}

func TestListForPsychologistUnknownID(t *testing.T) {
	svc := newService(&fakeStore{}, &fakePsychologists{err: repository.ErrNotFound})

	_, err := svc.ListForPsychologist(context.Background(), uuid.New())
	if !errors.Is(err, ErrPsychologistNotFound) {
		t.Fatalf("err = %v, want ErrPsychologistNotFound", err)
	}
}

func TestCheckAvailabilityFree(t *testing.T) {
	svc := newService(&fakeStore{}, &fakePsychologists{})

	got, err := svc.CheckAvailability(context.Background(), uuid.New(), "2026-09-05", "10:00-11:00")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !got.IsAvailable {
		t.Fatal("slot should be available")
	}
	if got.RequestedTime != "10:00 - 11:00" {
		t.Fatalf("requested time = %q", got.RequestedTime)
	}
	if got.ConflictID != nil || got.ConflictRange != nil {
		t.Fatal("free slot must not report a conflict")
	}
}

func TestCheckAvailabilityConflict(t *testing.T) {
	conflictID := uuid.New()
	store := &fakeStore{conflict: &model.BookedSchedule{
		ID:        conflictID,
		StartTime: "10:30:00",
		EndTime:   "11:30:00",
	}}
	svc := newService(store, &fakePsychologists{})

	got, err := svc.CheckAvailability(context.Background(), uuid.New(), "2026-09-05", "10:00 - 11:00")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.IsAvailable {
		t.Fatal("slot should be taken")
	}
	if got.ConflictID == nil || *got.ConflictID != conflictID.String() {
		t.Fatalf("conflict id = %v", got.ConflictID)
	}
	if got.ConflictRange == nil || *got.ConflictRange != "10:30 - 11:30" {
		t.Fatalf("conflict range = %v", got.ConflictRange)
	}
}

func TestCheckAvailabilityRejectsBadInput(t *testing.T) {
	svc := newService(&fakeStore{}, &fakePsychologists{})

	for _, tc := range []struct{ date, timeRange string }{
		{"2026-09-05", "10:00"},
		{"2026-09-05", "morning-noon"},
		{"tomorrow", "10:00-11:00"},
	} {
		if _, err := svc.CheckAvailability(context.Background(), uuid.New(), tc.date, tc.timeRange); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("(%q, %q): err = %v, want ErrInvalidTimeRange", tc.date, tc.timeRange, err)
		}
	}
}
