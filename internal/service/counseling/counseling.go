package counseling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

// refundNote replaces whatever note the admin entered when refunding a
// session that already failed, so the patient sees a consistent message.
const refundNote = "Your payment has been refunded to your account."

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	Status        *model.CounselingStatus
	PaymentStatus *model.PaymentStatus
	Page          int
	PerPage       int
}

type PaymentDecision struct {
	Status model.PaymentStatus // approved | rejected | refunded
	Note   *string
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type Store interface {
	GetDetail(ctx context.Context, id uuid.UUID) (model.CounselingDetail, error)
	List(ctx context.Context, filter repository.ListFilter) ([]model.CounselingDetail, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, upd repository.PaymentUpdate) (model.CounselingDetail, error)
}

type ScheduleStore interface {
	ReleaseByCounseling(ctx context.Context, counselingID uuid.UUID) (int64, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.CounselingDetail, error)
	List(ctx context.Context, req ListRequest) ([]model.CounselingDetail, error)
	ChangePaymentStatus(ctx context.Context, id uuid.UUID, decision PaymentDecision) (model.CounselingDetail, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type counselingService struct {
	store     Store
	schedules ScheduleStore
	nc        *nats.Conn
	loc       *time.Location
	log       *slog.Logger
}

func New(store Store, schedules ScheduleStore, nc *nats.Conn, loc *time.Location, log *slog.Logger) Service {
	return &counselingService{store: store, schedules: schedules, nc: nc, loc: loc, log: log}
}

func (s *counselingService) GetByID(ctx context.Context, id uuid.UUID) (model.CounselingDetail, error) {
	d, err := s.store.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return d, ErrNotFound
		}
		return d, fmt.Errorf("get counseling: %w", err)
	}
	return d, nil
}

func (s *counselingService) List(ctx context.Context, req ListRequest) ([]model.CounselingDetail, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 20
	}

	out, err := s.store.List(ctx, repository.ListFilter{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Page:          req.Page,
		PerPage:       req.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list counselings: %w", err)
	}
	return out, nil
}

// ChangePaymentStatus applies an admin payment decision. Approving an
// on_demand session stamps it to start immediately; rejecting or refunding
// a scheduled session frees its booked slot. The decision is published so
// the notification worker can deliver email and WhatsApp messages.
func (s *counselingService) ChangePaymentStatus(ctx context.Context, id uuid.UUID, decision PaymentDecision) (model.CounselingDetail, error) {
	switch decision.Status {
	case model.PaymentApproved, model.PaymentRejected, model.PaymentRefunded:
	default:
		return model.CounselingDetail{}, ErrInvalidPaymentStatus
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return model.CounselingDetail{}, err
	}

	if current.PaymentStatus.Final() {
		return model.CounselingDetail{}, ErrPaymentFinal
	}
	if current.Status == model.CounselingFailed && decision.Status == model.PaymentApproved {
		return model.CounselingDetail{}, ErrApproveFailedSession
	}

	upd := repository.PaymentUpdate{
		Status: decision.Status,
		Note:   decision.Note,
	}

	// An approved on_demand session starts right away: stamp today's date
	// and a one-hour window from now.
	if current.AccessType == model.AccessOnDemand && decision.Status == model.PaymentApproved {
		now := time.Now().In(s.loc)
		date := now.Format("2006-01-02")
		start := now.Format("15:04")
		end := now.Add(time.Hour).Format("15:04")
		upd.ScheduleDate = &date
		upd.StartTime = &start
		upd.EndTime = &end
	}

	if current.Status == model.CounselingFailed {
		switch decision.Status {
		case model.PaymentRefunded:
			note := refundNote
			upd.Note = &note
		case model.PaymentRejected:
			if decision.Note == nil || *decision.Note == "" {
				return model.CounselingDetail{}, ErrRejectionNoteRequired
			}
		}
	}

	updated, err := s.store.UpdatePayment(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CounselingDetail{}, ErrNotFound
		}
		return model.CounselingDetail{}, fmt.Errorf("update payment status: %w", err)
	}

	// Rejection and refund release the slot a scheduled session was holding.
	// On-demand sessions never hold one.
	if updated.AccessType == model.AccessScheduled &&
		(decision.Status == model.PaymentRejected || decision.Status == model.PaymentRefunded) {
		released, err := s.schedules.ReleaseByCounseling(ctx, id)
		if err != nil {
			return model.CounselingDetail{}, fmt.Errorf("release booked schedule: %w", err)
		}
		if released == 0 {
			s.log.Warn("no booked schedule to release", "counseling_id", id)
		}
	}

	if s.nc != nil {
		subject := fmt.Sprintf("mentalwell.counseling.payment.%s", decision.Status)
		if err := s.nc.Publish(subject, []byte(updated.ID.String())); err != nil {
			s.log.Warn("publish payment event", "subject", subject, "error", err)
		}
	}

	return updated, nil
}
