package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vocusapp/vocus/internal/clarify"
	"github.com/vocusapp/vocus/internal/conversation"
	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/infrastructure/storage"
	"github.com/vocusapp/vocus/internal/nlu"
	"github.com/vocusapp/vocus/internal/pkg/logger"
	"github.com/vocusapp/vocus/internal/planner"
	"github.com/vocusapp/vocus/internal/router"
	"github.com/vocusapp/vocus/internal/usage"
)

type stubRegistry struct {
	aliases map[string]string
}

func (s stubRegistry) Names(context.Context) ([]string, error) {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	return names, nil
}

func (s stubRegistry) Lookup(_ context.Context, name string) (string, bool, error) {
	r, ok := s.aliases[name]
	return r, ok, nil
}

func (s stubRegistry) Add(context.Context, string, string) error { return nil }
func (s stubRegistry) Remove(context.Context, string) error      { return nil }

// stubBlocking is mutex-guarded: the deferred apply runs on the grace
// timer's goroutine.
type stubBlocking struct {
	mu        sync.Mutex
	resources map[string]string
	started   []string
	stopped   int
}

func (s *stubBlocking) Resolve(_ context.Context, alias string) (string, error) {
	return s.resources[alias], nil
}

func (s *stubBlocking) Start(_ context.Context, resource string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, resource)
	return "session-1", nil
}

func (s *stubBlocking) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
	return nil
}

func (s *stubBlocking) startCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.started)
}

func (s *stubBlocking) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type stubNotifications struct {
	granted   bool
	scheduled int
	cancelled []string
}

func (s *stubNotifications) PermissionGranted(context.Context) (bool, error) {
	return s.granted, nil
}

func (s *stubNotifications) ScheduleOnce(context.Context, string, time.Time) ([]string, error) {
	s.scheduled++
	return []string{"n1"}, nil
}

func (s *stubNotifications) ScheduleDaily(context.Context, string, string) ([]string, error) {
	s.scheduled++
	return []string{"n1"}, nil
}

func (s *stubNotifications) ScheduleWeekly(context.Context, string, []string, string) ([]string, error) {
	s.scheduled++
	return []string{"n1"}, nil
}

func (s *stubNotifications) Cancel(_ context.Context, ids []string) error {
	s.cancelled = append(s.cancelled, ids...)
	return nil
}

type freeUser struct{}

func (freeUser) IsPremium(context.Context) (bool, error) { return false, nil }

type testFixture struct {
	svc           *CommandService
	blocking      *stubBlocking
	notifications *stubNotifications
}

func newTestService(t *testing.T, graceDelay time.Duration) *testFixture {
	t.Helper()

	classifier, err := nlu.NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}
	now := func() time.Time {
		return time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	}

	store := storage.NewMemoryStore()
	log := logger.NewNop()
	parser := &nlu.Parser{Classifier: classifier, Now: now}
	blocking := &stubBlocking{resources: map[string]string{"instagram": "app:com.instagram"}}
	notifications := &stubNotifications{granted: true}

	svc := &CommandService{
		Router: &router.Hybrid{
			Local: parser,
			Usage: &usage.Tracker{Storage: store, Premium: freeUser{}},
		},
		Parser:               parser,
		Contexts:             conversation.NewStore(store, 5*time.Minute, log),
		Aliases:              stubRegistry{aliases: map[string]string{"instagram": "app:com.instagram"}},
		Focus:                &planner.Focus{Blocking: blocking, Logger: log},
		Reminders:            &planner.Reminder{Notifications: notifications, Logger: log, Now: now},
		Grace:                &planner.Grace{Delay: graceDelay},
		Storage:              store,
		Logger:               log,
		AllowDefaultDuration: true,
	}
	return &testFixture{svc: svc, blocking: blocking, notifications: notifications}
}

func TestExecuteTwoPhaseConfirm(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	intent, err := fx.svc.ParseIntentHybrid(ctx, "Block Instagram for 30 minutes", true)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	pending, err := fx.svc.Execute(ctx, intent, true)
	if err != nil {
		t.Fatalf("Execute(confirm) error: %v", err)
	}
	if !pending.PendingConfirmation {
		t.Fatalf("got %+v, want pending confirmation", pending)
	}
	if fx.blocking.startCount() != 0 {
		t.Fatal("planning must not touch the backend")
	}

	applied, err := fx.svc.Execute(ctx, intent, false)
	if err != nil {
		t.Fatalf("Execute(apply) error: %v", err)
	}
	if !applied.OK {
		t.Fatalf("got %+v", applied)
	}
	if fx.blocking.startCount() != 1 {
		t.Fatalf("start count = %d, want one session", fx.blocking.startCount())
	}

	record, err := fx.svc.LastUndo(ctx)
	if err != nil {
		t.Fatalf("LastUndo error: %v", err)
	}
	if record == nil || record.Action != domain.PlanBlock {
		t.Fatalf("undo record = %+v", record)
	}

	cctx, err := fx.svc.Contexts.Load(ctx)
	if err != nil {
		t.Fatalf("context load error: %v", err)
	}
	if cctx == nil || cctx.LastTarget != "instagram" || cctx.LastDurationMinutes != 30 {
		t.Fatalf("conversation context = %+v", cctx)
	}
}

func TestExecuteUnknownAliasIsNoop(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	result, err := fx.svc.Execute(ctx, domain.BlockIntent{Target: "facebook", DurationMinutes: 30}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.OK {
		t.Fatalf("got %+v, want failure", result)
	}
	if result.Reason != domain.ReasonAliasNotFound {
		t.Fatalf("reason = %q, want %q", result.Reason, domain.ReasonAliasNotFound)
	}
	if fx.blocking.startCount() != 0 {
		t.Fatal("unknown alias must never reach the backend")
	}
}

func TestExecuteRemindWithoutPermission(t *testing.T) {
	fx := newTestService(t, 0)
	fx.notifications.granted = false

	result, err := fx.svc.Execute(context.Background(), domain.RemindIntent{
		Type:            domain.ReminderOneTime,
		Message:         "drink water",
		DurationMinutes: 10,
	}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.OK || !result.NeedsPermission {
		t.Fatalf("got %+v, want needs-permission failure", result)
	}
}

func TestExecuteClassificationIntentNeedsGuidance(t *testing.T) {
	fx := newTestService(t, 0)

	result, err := fx.svc.Execute(context.Background(), domain.ClassificationIntent{
		Classification: domain.Classification{Type: domain.ClassOffTopic},
		NeedsGuidance:  true,
	}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.OK || result.Reason != ReasonNeedsGuidance {
		t.Fatalf("got %+v", result)
	}
}

func TestExecuteNilIntentIsUnparseable(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	// A block verb the grammar doesn't know yields a valid classification
	// but no intent once the remote leg is absent.
	intent, err := fx.svc.ParseIntentHybrid(ctx, "disable instagram", true)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if intent != nil {
		t.Fatalf("intent = %+v, want nil", intent)
	}

	result, err := fx.svc.Execute(ctx, intent, true)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.OK || result.Reason != ReasonUnparseable {
		t.Fatalf("got %+v, want unparseable failure", result)
	}
	if fx.blocking.startCount() != 0 {
		t.Fatal("an unparseable utterance must never reach the backend")
	}
}

func TestParseIntentHybridVoiceModeKeepsDurationMissing(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	// Spoken path: no silent duration backfill, the missing slot must
	// surface as a clarification question instead.
	intent, err := fx.svc.ParseIntentHybrid(ctx, "Block Instagram", false)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	bi, ok := intent.(domain.BlockIntent)
	if !ok {
		t.Fatalf("intent = %+v, want BlockIntent", intent)
	}
	if bi.DurationMinutes != 0 {
		t.Fatalf("duration = %d, want 0", bi.DurationMinutes)
	}

	req, err := fx.svc.NeedsClarification(ctx, intent)
	if err != nil {
		t.Fatalf("NeedsClarification error: %v", err)
	}
	if req == nil || req.Missing != clarify.MissingDuration {
		t.Fatalf("clarification request = %+v, want missing duration", req)
	}

	// Typed path keeps the configured backfill.
	typed, err := fx.svc.ParseIntentHybrid(ctx, "Block Instagram", true)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if bi, ok := typed.(domain.BlockIntent); !ok || bi.DurationMinutes != 30 {
		t.Fatalf("intent = %+v, want 30-minute backfill", typed)
	}
}

func TestUndoWithinGraceWindowAppliesNothing(t *testing.T) {
	fx := newTestService(t, time.Hour)
	ctx := context.Background()

	result, err := fx.svc.Execute(ctx, domain.BlockIntent{Target: "instagram", DurationMinutes: 30}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !result.OK || result.Undo == nil || !result.Undo.Pending {
		t.Fatalf("got %+v, want pending undo record", result)
	}

	undone, err := fx.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if !undone.OK {
		t.Fatalf("got %+v", undone)
	}
	if fx.blocking.startCount() != 0 || fx.blocking.stopCount() != 0 {
		t.Fatal("cancelling inside the window must leave the backend untouched")
	}

	record, err := fx.svc.LastUndo(ctx)
	if err != nil {
		t.Fatalf("LastUndo error: %v", err)
	}
	if record != nil {
		t.Fatalf("undo ledger should be empty, got %+v", record)
	}
}

func TestDeferredApplyRunsAfterGraceWindow(t *testing.T) {
	fx := newTestService(t, 10*time.Millisecond)
	ctx := context.Background()

	result, err := fx.svc.Execute(ctx, domain.BlockIntent{Target: "instagram", DurationMinutes: 30}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !result.OK {
		t.Fatalf("got %+v", result)
	}

	// Wait for the window to close and the final undo record to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		record, err := fx.svc.LastUndo(ctx)
		if err != nil {
			t.Fatalf("LastUndo error: %v", err)
		}
		if record != nil && !record.Pending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("deferred apply never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if fx.blocking.startCount() != 1 {
		t.Fatalf("start count = %d, want 1", fx.blocking.startCount())
	}
}

func TestUndoCompensatesAppliedBlock(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	if _, err := fx.svc.Execute(ctx, domain.BlockIntent{Target: "instagram", DurationMinutes: 30}, false); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	undone, err := fx.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if !undone.OK {
		t.Fatalf("got %+v", undone)
	}
	if fx.blocking.stopCount() != 1 {
		t.Fatalf("stop count = %d, want compensating stop", fx.blocking.stopCount())
	}

	again, err := fx.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("second Undo error: %v", err)
	}
	if again.OK || again.Reason != ReasonNothingToUndo {
		t.Fatalf("got %+v, want nothing-to-undo", again)
	}
}

func TestUndoCancelsScheduledReminder(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	if _, err := fx.svc.Execute(ctx, domain.RemindIntent{
		Type:            domain.ReminderOneTime,
		Message:         "drink water",
		DurationMinutes: 10,
	}, false); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if fx.notifications.scheduled != 1 {
		t.Fatalf("scheduled = %d", fx.notifications.scheduled)
	}

	undone, err := fx.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if !undone.OK {
		t.Fatalf("got %+v", undone)
	}
	if len(fx.notifications.cancelled) != 1 || fx.notifications.cancelled[0] != "n1" {
		t.Fatalf("cancelled = %v", fx.notifications.cancelled)
	}
}

func TestStopIsNotUndoable(t *testing.T) {
	fx := newTestService(t, 0)
	ctx := context.Background()

	if _, err := fx.svc.Execute(ctx, domain.StopIntent{}, false); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	result, err := fx.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if result.OK || result.Reason != ReasonCannotUndoStop {
		t.Fatalf("got %+v, want cannot-undo-stop", result)
	}
}
