package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSessions struct {
	order []uuid.UUID
	byID  map[uuid.UUID]*model.Counseling

	listErr         error
	updateErrFor    map[uuid.UUID]error
	statusWrites    int
	convStampWrites int
}

func newFakeSessions(cs ...*model.Counseling) *fakeSessions {
	f := &fakeSessions{byID: map[uuid.UUID]*model.Counseling{}, updateErrFor: map[uuid.UUID]error{}}
	for _, c := range cs {
		f.order = append(f.order, c.ID)
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeSessions) ListByStatus(_ context.Context, statuses ...model.CounselingStatus) ([]model.Counseling, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Counseling
	for _, id := range f.order {
		c := f.byID[id]
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSessions) UpdateStatus(_ context.Context, id uuid.UUID, status model.CounselingStatus) (model.Counseling, error) {
	if err := f.updateErrFor[id]; err != nil {
		return model.Counseling{}, err
	}
	c, ok := f.byID[id]
	if !ok {
		return model.Counseling{}, errors.New("counseling not found")
	}
	c.Status = status
	f.statusWrites++
	return *c, nil
}

func (f *fakeSessions) SetConversationID(_ context.Context, id, conversationID uuid.UUID) error {
	c, ok := f.byID[id]
	if !ok {
		return errors.New("counseling not found")
	}
	c.ConversationID = &conversationID
	f.convStampWrites++
	return nil
}

type fakeConversations struct {
	convs []*model.Conversation

	findErr error
	created int
	closed  int
}

func (f *fakeConversations) FindActive(_ context.Context, patientID, psychologistID uuid.UUID) (*model.Conversation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, c := range f.convs {
		if c.Status == model.ConversationActive && c.PatientID == patientID && c.PsychologistID == psychologistID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConversations) Create(_ context.Context, patientID, psychologistID uuid.UUID) (model.Conversation, error) {
	c := &model.Conversation{
		ID:             uuid.New(),
		PatientID:      patientID,
		PsychologistID: psychologistID,
		Status:         model.ConversationActive,
	}
	f.convs = append(f.convs, c)
	f.created++
	return *c, nil
}

func (f *fakeConversations) Close(_ context.Context, id uuid.UUID) error {
	for _, c := range f.convs {
		if c.ID == id {
			c.Status = model.ConversationClosed
			f.closed++
			return nil
		}
	}
	return errors.New("conversation not found")
}

type fakeAvailability struct {
	state  map[uuid.UUID]model.Availability
	writes int
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{state: map[uuid.UUID]model.Availability{}}
}

func (f *fakeAvailability) SetAvailability(_ context.Context, psychologistID uuid.UUID, a model.Availability) error {
	f.state[psychologistID] = a
	f.writes++
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func testCounseling(status model.CounselingStatus, access model.AccessType, pay model.PaymentStatus) *model.Counseling {
	return &model.Counseling{
		ID:             uuid.New(),
		PatientID:      uuid.New(),
		PsychologistID: uuid.New(),
		ScheduleDate:   strptr("2025-06-01"),
		StartTime:      strptr("10:00"),
		EndTime:        strptr("11:00"),
		AccessType:     access,
		Status:         status,
		PaymentStatus:  pay,
	}
}

func newTestReconciler(t *testing.T, now string, sessions *fakeSessions, convs *fakeConversations, avail *fakeAvailability) *Reconciler {
	t.Helper()
	return New(sessions, convs, avail, fixedClock{now: at(t, now)}, wib, slog.New(slog.DiscardHandler))
}

// ---------------------------------------------------------------------------
// sweeps
// ---------------------------------------------------------------------------

func TestSweepFailsUnpaidSessions(t *testing.T) {
	tests := []struct {
		name   string
		access model.AccessType
		pay    model.PaymentStatus
	}{
		{"scheduled waiting payment", model.AccessScheduled, model.PaymentWaiting},
		{"scheduled rejected payment", model.AccessScheduled, model.PaymentRejected},
		{"on_demand rejected payment", model.AccessOnDemand, model.PaymentRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCounseling(model.CounselingWaiting, tt.access, tt.pay)
			sessions := newFakeSessions(c)
			convs := &fakeConversations{}
			avail := newFakeAvailability()

			r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
			if err := r.RunSweepOnce(context.Background()); err != nil {
				t.Fatalf("RunSweepOnce() error = %v", err)
			}

			if c.Status != model.CounselingFailed {
				t.Errorf("status = %s, want failed", c.Status)
			}
			if convs.created != 0 || convs.closed != 0 {
				t.Errorf("conversation writes = %d/%d, want none", convs.created, convs.closed)
			}
			if avail.writes != 0 {
				t.Errorf("availability writes = %d, want none", avail.writes)
			}
		})
	}
}

func TestSweepStartsApprovedSessionIdempotently(t *testing.T) {
	c := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	sessions := newFakeSessions(c)
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	if c.Status != model.CounselingOnGoing {
		t.Fatalf("status = %s, want on_going", c.Status)
	}
	if c.ConversationID == nil {
		t.Fatal("conversation_id not stamped")
	}
	if got := avail.state[c.PsychologistID]; got != model.Unavailable {
		t.Errorf("availability = %s, want unavailable", got)
	}

	// Second sweep over the same state must change nothing: the session is
	// no longer waiting and its end time has not passed.
	stamped := *c.ConversationID
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("second RunSweepOnce() error = %v", err)
	}
	if c.Status != model.CounselingOnGoing {
		t.Errorf("status after second sweep = %s, want on_going", c.Status)
	}
	if convs.created != 1 {
		t.Errorf("conversations created = %d, want 1", convs.created)
	}
	if *c.ConversationID != stamped {
		t.Error("conversation_id changed on second sweep")
	}
	if sessions.statusWrites != 1 {
		t.Errorf("status writes = %d, want 1", sessions.statusWrites)
	}
}

func TestSweepReusesConversationForSamePair(t *testing.T) {
	a := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	b := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	b.PatientID = a.PatientID
	b.PsychologistID = a.PsychologistID

	sessions := newFakeSessions(a, b)
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	if convs.created != 1 {
		t.Fatalf("conversations created = %d, want 1", convs.created)
	}
	if a.ConversationID == nil || b.ConversationID == nil {
		t.Fatal("conversation_id not stamped on both sessions")
	}
	if *a.ConversationID != *b.ConversationID {
		t.Error("sessions for the same pair got different conversations")
	}
}

func TestSweepFinishesAcrossMidnight(t *testing.T) {
	c := testCounseling(model.CounselingOnGoing, model.AccessScheduled, model.PaymentApproved)
	c.StartTime = strptr("22:00")
	c.EndTime = strptr("01:00")
	convID := uuid.New()
	c.ConversationID = &convID

	sessions := newFakeSessions(c)
	convs := &fakeConversations{convs: []*model.Conversation{{
		ID:             convID,
		PatientID:      c.PatientID,
		PsychologistID: c.PsychologistID,
		Status:         model.ConversationActive,
	}}}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-02 02:00", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	if c.Status != model.CounselingFinished {
		t.Errorf("status = %s, want finished", c.Status)
	}
	if got := avail.state[c.PsychologistID]; got != model.Available {
		t.Errorf("availability = %s, want available", got)
	}
	if convs.closed != 1 {
		t.Errorf("conversations closed = %d, want 1", convs.closed)
	}
}

func TestSweepFinishWithoutConversation(t *testing.T) {
	// A session left on_going with no conversation_id by an earlier partial
	// failure must still finish cleanly.
	c := testCounseling(model.CounselingOnGoing, model.AccessScheduled, model.PaymentApproved)
	sessions := newFakeSessions(c)
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 12:00", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	if c.Status != model.CounselingFinished {
		t.Errorf("status = %s, want finished", c.Status)
	}
	if convs.closed != 0 {
		t.Errorf("conversations closed = %d, want 0", convs.closed)
	}
}

func TestSweepLeavesTerminalSessionsAlone(t *testing.T) {
	finished := testCounseling(model.CounselingFinished, model.AccessScheduled, model.PaymentApproved)
	failed := testCounseling(model.CounselingFailed, model.AccessScheduled, model.PaymentRejected)
	sessions := newFakeSessions(finished, failed)
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2030-01-01 00:00", sessions, convs, avail)
	for i := 0; i < 3; i++ {
		if err := r.RunSweepOnce(context.Background()); err != nil {
			t.Fatalf("RunSweepOnce() error = %v", err)
		}
	}

	if finished.Status != model.CounselingFinished || failed.Status != model.CounselingFailed {
		t.Error("terminal session mutated by sweep")
	}
	if sessions.statusWrites != 0 || avail.writes != 0 {
		t.Errorf("writes = %d status, %d availability; want none", sessions.statusWrites, avail.writes)
	}
}

func TestSweepSkipsIncompleteSchedule(t *testing.T) {
	c := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	c.StartTime = nil
	sessions := newFakeSessions(c)
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2030-01-01 00:00", sessions, convs, avail)
	for i := 0; i < 3; i++ {
		if err := r.RunSweepOnce(context.Background()); err != nil {
			t.Fatalf("RunSweepOnce() error = %v", err)
		}
	}

	if c.Status != model.CounselingWaiting {
		t.Errorf("status = %s, want waiting", c.Status)
	}
	if sessions.statusWrites != 0 {
		t.Errorf("status writes = %d, want 0", sessions.statusWrites)
	}
}

func TestSweepAbortsWhenFetchFails(t *testing.T) {
	sessions := newFakeSessions(testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved))
	sessions.listErr = errors.New("connection refused")
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err == nil {
		t.Fatal("RunSweepOnce() expected error when fetch fails")
	}
	if sessions.statusWrites != 0 || convs.created != 0 || avail.writes != 0 {
		t.Error("sweep mutated state despite fetch failure")
	}
}

func TestSweepIsolatesPerSessionFailure(t *testing.T) {
	broken := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	healthy := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	sessions := newFakeSessions(broken, healthy)
	sessions.updateErrFor[broken.ID] = errors.New("write timeout")
	convs := &fakeConversations{}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	if broken.Status != model.CounselingWaiting {
		t.Errorf("broken session status = %s, want waiting", broken.Status)
	}
	if healthy.Status != model.CounselingOnGoing {
		t.Errorf("healthy session status = %s, want on_going", healthy.Status)
	}
}

func TestSweepStartDegradesWhenConversationLookupFails(t *testing.T) {
	c := testCounseling(model.CounselingWaiting, model.AccessScheduled, model.PaymentApproved)
	sessions := newFakeSessions(c)
	convs := &fakeConversations{findErr: errors.New("lookup failed")}
	avail := newFakeAvailability()

	r := newTestReconciler(t, "2025-06-01 10:30", sessions, convs, avail)
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("RunSweepOnce() error = %v", err)
	}

	// Status and availability still advance; the conversation association is
	// the only degraded piece, and no sweep retries it.
	if c.Status != model.CounselingOnGoing {
		t.Errorf("status = %s, want on_going", c.Status)
	}
	if c.ConversationID != nil {
		t.Error("conversation_id stamped despite lookup failure")
	}
	if got := avail.state[c.PsychologistID]; got != model.Unavailable {
		t.Errorf("availability = %s, want unavailable", got)
	}
}

// blockingSessions parks the fetch until released, so a test can hold one
// sweep open while another is attempted.
type blockingSessions struct {
	*fakeSessions
	entered chan struct{}
	release chan struct{}
	fetches atomic.Int32
}

func (f *blockingSessions) ListByStatus(ctx context.Context, statuses ...model.CounselingStatus) ([]model.Counseling, error) {
	f.fetches.Add(1)
	f.entered <- struct{}{}
	<-f.release
	return f.fakeSessions.ListByStatus(ctx, statuses...)
}

func TestSweepSkipsWhileAnotherSweepRuns(t *testing.T) {
	sessions := &blockingSessions{
		fakeSessions: newFakeSessions(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	r := New(sessions, &fakeConversations{}, newFakeAvailability(),
		fixedClock{now: at(t, "2025-06-01 10:30")}, wib, slog.New(slog.DiscardHandler))

	first := make(chan error, 1)
	go func() { first <- r.RunSweepOnce(context.Background()) }()
	<-sessions.entered // first sweep is now parked inside its fetch

	// The overlapping call must return immediately without fetching.
	if err := r.RunSweepOnce(context.Background()); err != nil {
		t.Fatalf("overlapping RunSweepOnce() error = %v", err)
	}
	if got := sessions.fetches.Load(); got != 1 {
		t.Fatalf("fetches during overlap = %d, want 1", got)
	}

	close(sessions.release)
	if err := <-first; err != nil {
		t.Fatalf("first RunSweepOnce() error = %v", err)
	}

	// Once the first sweep completes, the guard must release again.
	second := make(chan error, 1)
	go func() { second <- r.RunSweepOnce(context.Background()) }()
	<-sessions.entered
	if err := <-second; err != nil {
		t.Fatalf("follow-up RunSweepOnce() error = %v", err)
	}
	if got := sessions.fetches.Load(); got != 2 {
		t.Fatalf("fetches after release = %d, want 2", got)
	}
}

func TestStartPeriodicStopsOnCancel(t *testing.T) {
	sessions := newFakeSessions()
	r := newTestReconciler(t, "2025-06-01 10:30", sessions, &fakeConversations{}, newFakeAvailability())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.StartPeriodic(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartPeriodic did not stop after cancel")
	}
}
