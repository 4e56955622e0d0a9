package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

var tracer = otel.Tracer("github.com/aninkinaa/mentalwell1.0-api/internal/reconciler")

// DefaultInterval is the sweep period.
const DefaultInterval = 60 * time.Second

// SessionStore is the counseling repository surface the reconciler needs.
// UpdateStatus returns the updated record so the finish transition can read
// the conversation id stamped by an earlier sweep.
type SessionStore interface {
	ListByStatus(ctx context.Context, statuses ...model.CounselingStatus) ([]model.Counseling, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CounselingStatus) (model.Counseling, error)
	SetConversationID(ctx context.Context, id, conversationID uuid.UUID) error
}

// ConversationStore finds, opens and closes patient/psychologist chat
// channels. FindActive returns (nil, nil) when no active conversation exists
// for the pair.
type ConversationStore interface {
	FindActive(ctx context.Context, patientID, psychologistID uuid.UUID) (*model.Conversation, error)
	Create(ctx context.Context, patientID, psychologistID uuid.UUID) (model.Conversation, error)
	Close(ctx context.Context, id uuid.UUID) error
}

// AvailabilityStore flips the psychologist availability flag.
type AvailabilityStore interface {
	SetAvailability(ctx context.Context, psychologistID uuid.UUID, availability model.Availability) error
}

// Reconciler advances in-flight counselings through the time- and
// payment-driven lifecycle. It owns no state of its own: every decision is
// derived from one snapshot per sweep, every write goes to the external
// stores, and failed writes are healed by the next sweep finding the session
// still in its pre-transition state.
type Reconciler struct {
	sessions      SessionStore
	conversations ConversationStore
	psychologists AvailabilityStore
	clock         Clock
	loc           *time.Location
	log           *slog.Logger

	running atomic.Bool
}

func New(
	sessions SessionStore,
	conversations ConversationStore,
	psychologists AvailabilityStore,
	clock Clock,
	loc *time.Location,
	log *slog.Logger,
) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		sessions:      sessions,
		conversations: conversations,
		psychologists: psychologists,
		clock:         clock,
		loc:           loc,
		log:           log,
	}
}

// StartPeriodic runs one sweep immediately, then one per interval until ctx
// is cancelled. Cancellation takes effect between sweeps; a sweep in progress
// is never interrupted mid-session.
func (r *Reconciler) StartPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	_ = r.RunSweepOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("counseling reconciler stopped")
			return
		case <-ticker.C:
			_ = r.RunSweepOnce(ctx)
		}
	}
}

// RunSweepOnce performs one full pass over all candidate counselings. Sweeps
// are single-flight: a call that overlaps a running sweep is skipped, since
// two sweeps observing the same waiting session could both try to start it.
// A fetch failure aborts the sweep; any other failure is contained to its
// session.
func (r *Reconciler) RunSweepOnce(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		r.log.Warn("previous sweep still running, skipping")
		return nil
	}
	defer r.running.Store(false)

	ctx, span := tracer.Start(ctx, "reconciler.sweep")
	defer span.End()

	now := r.clock.Now().In(r.loc)

	sessions, err := r.sessions.ListByStatus(ctx, model.CounselingWaiting, model.CounselingOnGoing)
	if err != nil {
		r.log.Error("fetching candidate counselings failed, aborting sweep", "error", err)
		return fmt.Errorf("list counselings: %w", err)
	}
	span.SetAttributes(attribute.Int("counselings.candidates", len(sessions)))

	for _, c := range sessions {
		if c.ScheduleDate == nil || c.StartTime == nil {
			r.log.Warn("counseling has no complete schedule, skipping", "counseling_id", c.ID)
			continue
		}
		// One session's failure never aborts the rest of the batch.
		if err := r.reconcile(ctx, c, now); err != nil {
			r.log.Error("reconcile counseling failed", "counseling_id", c.ID, "error", err)
		}
	}

	return nil
}

// reconcile applies whichever transition the snapshot matches. Decisions for
// a session are made once, from one snapshot, per sweep; the session is never
// re-fetched after an intermediate write.
func (r *Reconciler) reconcile(ctx context.Context, c model.Counseling, now time.Time) error {
	d, err := Evaluate(c, now, r.loc)
	if err != nil {
		r.log.Warn("counseling has malformed schedule, skipping", "counseling_id", c.ID, "error", err)
		return nil
	}

	switch {
	case d.Fail:
		return r.applyFail(ctx, c)
	case d.Start:
		return r.applyStart(ctx, c)
	case d.Finish:
		return r.applyFinish(ctx, c)
	}
	return nil
}

// applyFail marks a session failed. The session never started, so there is
// no conversation or availability side effect.
func (r *Reconciler) applyFail(ctx context.Context, c model.Counseling) error {
	if _, err := r.sessions.UpdateStatus(ctx, c.ID, model.CounselingFailed); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	r.log.Info("counseling failed: payment not settled by start time",
		"counseling_id", c.ID, "payment_status", c.PaymentStatus)
	return nil
}

// applyStart moves the session to on_going, attaches (or reuses) the active
// conversation for the pair, and marks the psychologist unavailable. The
// conversation and availability writes are independent: one failing is
// logged and does not block the other, and nothing rolls back. Because the
// next sweep no longer sees the session as waiting, a missing conversation
// association stays a degraded outcome rather than triggering a retry.
func (r *Reconciler) applyStart(ctx context.Context, c model.Counseling) error {
	if _, err := r.sessions.UpdateStatus(ctx, c.ID, model.CounselingOnGoing); err != nil {
		return fmt.Errorf("mark on_going: %w", err)
	}
	r.log.Info("counseling started", "counseling_id", c.ID)

	if convID := r.attachConversation(ctx, c); convID != nil {
		if err := r.sessions.SetConversationID(ctx, c.ID, *convID); err != nil {
			r.log.Error("stamping conversation on counseling failed",
				"counseling_id", c.ID, "conversation_id", *convID, "error", err)
		}
	}

	if err := r.psychologists.SetAvailability(ctx, c.PsychologistID, model.Unavailable); err != nil {
		r.log.Error("marking psychologist unavailable failed",
			"counseling_id", c.ID, "psychologist_id", c.PsychologistID, "error", err)
	}
	return nil
}

// attachConversation reuses the pair's active conversation when one exists,
// otherwise opens a new one. Returns nil when neither worked; the caller
// treats that as degraded, not fatal.
func (r *Reconciler) attachConversation(ctx context.Context, c model.Counseling) *uuid.UUID {
	existing, err := r.conversations.FindActive(ctx, c.PatientID, c.PsychologistID)
	if err != nil {
		r.log.Error("looking up active conversation failed", "counseling_id", c.ID, "error", err)
		return nil
	}
	if existing != nil {
		r.log.Debug("reusing active conversation",
			"counseling_id", c.ID, "conversation_id", existing.ID)
		return &existing.ID
	}

	conv, err := r.conversations.Create(ctx, c.PatientID, c.PsychologistID)
	if err != nil {
		r.log.Error("creating conversation failed", "counseling_id", c.ID, "error", err)
		return nil
	}
	r.log.Debug("conversation created", "counseling_id", c.ID, "conversation_id", conv.ID)
	return &conv.ID
}

// applyFinish marks the session finished, frees the psychologist, and closes
// the attached conversation if one was ever stamped.
func (r *Reconciler) applyFinish(ctx context.Context, c model.Counseling) error {
	updated, err := r.sessions.UpdateStatus(ctx, c.ID, model.CounselingFinished)
	if err != nil {
		return fmt.Errorf("mark finished: %w", err)
	}

	if err := r.psychologists.SetAvailability(ctx, c.PsychologistID, model.Available); err != nil {
		return fmt.Errorf("mark psychologist available: %w", err)
	}

	if updated.ConversationID != nil {
		if err := r.conversations.Close(ctx, *updated.ConversationID); err != nil {
			return fmt.Errorf("close conversation: %w", err)
		}
	}

	r.log.Info("counseling finished", "counseling_id", c.ID)
	return nil
}
