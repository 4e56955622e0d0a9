package counseling

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

type fakeStore struct {
	detail    model.CounselingDetail
	detailErr error

	lastUpdate *repository.PaymentUpdate
	updateErr  error
}

func (f *fakeStore) GetDetail(_ context.Context, _ uuid.UUID) (model.CounselingDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeStore) List(_ context.Context, _ repository.ListFilter) ([]model.CounselingDetail, error) {
	return []model.CounselingDetail{f.detail}, nil
}

func (f *fakeStore) UpdatePayment(_ context.Context, _ uuid.UUID, upd repository.PaymentUpdate) (model.CounselingDetail, error) {
	if f.updateErr != nil {
		return model.CounselingDetail{}, f.updateErr
	}
	f.lastUpdate = &upd
	out := f.detail
	out.PaymentStatus = upd.Status
	out.PaymentNote = upd.Note
	return out, nil
}

type fakeSchedules struct {
	released  []uuid.UUID
	returnN   int64
	returnErr error
}

func (f *fakeSchedules) ReleaseByCounseling(_ context.Context, id uuid.UUID) (int64, error) {
	f.released = append(f.released, id)
	return f.returnN, f.returnErr
}

func strptr(s string) *string { return &s }

func detail(status model.CounselingStatus, pay model.PaymentStatus, access model.AccessType) model.CounselingDetail {
	return model.CounselingDetail{
		Counseling: model.Counseling{
			ID:             uuid.New(),
			PatientID:      uuid.New(),
			PsychologistID: uuid.New(),
			AccessType:     access,
			Status:         status,
			PaymentStatus:  pay,
		},
		PatientName:      "Rina",
		PsychologistName: "Dr. Sari",
	}
}

func newService(store *fakeStore, schedules *fakeSchedules) Service {
	return New(store, schedules, nil, time.FixedZone("WIB", 7*3600), slog.New(slog.DiscardHandler))
}

func TestChangePaymentStatusRejectsInvalidDecision(t *testing.T) {
	store := &fakeStore{detail: detail(model.CounselingWaiting, model.PaymentWaiting, model.AccessScheduled)}
	svc := newService(store, &fakeSchedules{})

	_, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{Status: model.PaymentWaiting})
	if !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Fatalf("err = %v, want ErrInvalidPaymentStatus", err)
	}
}

func TestChangePaymentStatusFinalIsConflict(t *testing.T) {
	for _, pay := range []model.PaymentStatus{model.PaymentApproved, model.PaymentRejected, model.PaymentRefunded} {
		t.Run(string(pay), func(t *testing.T) {
			store := &fakeStore{detail: detail(model.CounselingWaiting, pay, model.AccessScheduled)}
			svc := newService(store, &fakeSchedules{})

			_, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{Status: model.PaymentApproved})
			if !errors.Is(err, ErrPaymentFinal) {
				t.Fatalf("err = %v, want ErrPaymentFinal", err)
			}
			if store.lastUpdate != nil {
				t.Fatal("payment was updated despite final status")
			}
		})
	}
}

func TestChangePaymentStatusCannotApproveFailedSession(t *testing.T) {
	store := &fakeStore{detail: detail(model.CounselingFailed, model.PaymentWaiting, model.AccessScheduled)}
	svc := newService(store, &fakeSchedules{})

	_, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{Status: model.PaymentApproved})
	if !errors.Is(err, ErrApproveFailedSession) {
		t.Fatalf("err = %v, want ErrApproveFailedSession", err)
	}
}

func TestChangePaymentStatusFailedRejectionNeedsNote(t *testing.T) {
	store := &fakeStore{detail: detail(model.CounselingFailed, model.PaymentWaiting, model.AccessScheduled)}
	svc := newService(store, &fakeSchedules{returnN: 1})

	_, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{Status: model.PaymentRejected})
	if !errors.Is(err, ErrRejectionNoteRequired) {
		t.Fatalf("err = %v, want ErrRejectionNoteRequired", err)
	}

	_, err = svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{
		Status: model.PaymentRejected,
		Note:   strptr("proof unreadable"),
	})
	if err != nil {
		t.Fatalf("with note: %v", err)
	}
}

func TestChangePaymentStatusFailedRefundOverridesNote(t *testing.T) {
	store := &fakeStore{detail: detail(model.CounselingFailed, model.PaymentWaiting, model.AccessScheduled)}
	svc := newService(store, &fakeSchedules{returnN: 1})

	out, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{
		Status: model.PaymentRefunded,
		Note:   strptr("admin typed something else"),
	})
	if err != nil {
		t.Fatalf("ChangePaymentStatus: %v", err)
	}
	if out.PaymentNote == nil || *out.PaymentNote != refundNote {
		t.Fatalf("note = %v, want the standard refund note", out.PaymentNote)
	}
}

func TestChangePaymentStatusApprovedOnDemandStampsSchedule(t *testing.T) {
	store := &fakeStore{detail: detail(model.CounselingWaiting, model.PaymentWaiting, model.AccessOnDemand)}
	schedules := &fakeSchedules{}
	svc := newService(store, schedules)

	_, err := svc.ChangePaymentStatus(context.Background(), uuid.New(), PaymentDecision{Status: model.PaymentApproved})
	if err != nil {
		t.Fatalf("ChangePaymentStatus: %v", err)
	}

	upd := store.lastUpdate
	if upd == nil {
		t.Fatal("payment was not updated")
	}
	if upd.ScheduleDate == nil || upd.StartTime == nil || upd.EndTime == nil {
		t.Fatalf("schedule not stamped: %+v", upd)
	}
	start, err := time.Parse("15:04", *upd.StartTime)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	end, err := time.Parse("15:04", *upd.EndTime)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	if d := end.Sub(start); d != time.Hour && d != time.Hour-24*time.Hour {
		t.Fatalf("window = %v, want one hour", d)
	}
	if len(schedules.released) != 0 {
		t.Fatal("approval must not release any slot")
	}
}

func TestChangePaymentStatusApprovedScheduledKeepsSchedule(t *testing.T) {
	d := detail(model.CounselingWaiting, model.PaymentWaiting, model.AccessScheduled)
	d.ScheduleDate = strptr("2026-09-01")
	d.StartTime = strptr("10:00")
	d.EndTime = strptr("11:00")
	store := &fakeStore{detail: d}
	svc := newService(store, &fakeSchedules{})

	_, err := svc.ChangePaymentStatus(context.Background(), d.ID, PaymentDecision{Status: model.PaymentApproved})
	if err != nil {
		t.Fatalf("ChangePaymentStatus: %v", err)
	}
	if store.lastUpdate.ScheduleDate != nil {
		t.Fatal("scheduled approval must not rewrite the schedule")
	}
}

func TestChangePaymentStatusRejectionReleasesBookedSlot(t *testing.T) {
	d := detail(model.CounselingWaiting, model.PaymentWaiting, model.AccessScheduled)
	store := &fakeStore{detail: d}
	schedules := &fakeSchedules{returnN: 1}
	svc := newService(store, schedules)

	_, err := svc.ChangePaymentStatus(context.Background(), d.ID, PaymentDecision{
		Status: model.PaymentRejected,
		Note:   strptr("wrong amount"),
	})
	if err != nil {
		t.Fatalf("ChangePaymentStatus: %v", err)
	}
	if len(schedules.released) != 1 || schedules.released[0] != d.ID {
		t.Fatalf("released = %v, want [%s]", schedules.released, d.ID)
	}
}

func TestChangePaymentStatusRefundOnDemandSkipsRelease(t *testing.T) {
	d := detail(model.CounselingWaiting, model.PaymentWaiting, model.AccessOnDemand)
	store := &fakeStore{detail: d}
	schedules := &fakeSchedules{}
	svc := newService(store, schedules)

	_, err := svc.ChangePaymentStatus(context.Background(), d.ID, PaymentDecision{Status: model.PaymentRefunded})
	if err != nil {
		t.Fatalf("ChangePaymentStatus: %v", err)
	}
	if len(schedules.released) != 0 {
		t.Fatal("on_demand refund must not touch booked schedules")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := &fakeStore{detailErr: repository.ErrNotFound}
	svc := newService(store, &fakeSchedules{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
