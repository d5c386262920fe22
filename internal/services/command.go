// Package services orchestrates the command pipeline end-to-end: classify,
// parse (hybrid), clarify, plan, confirm, apply, undo.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vocusapp/vocus/internal/clarify"
	"github.com/vocusapp/vocus/internal/conversation"
	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/nlu"
	"github.com/vocusapp/vocus/internal/planner"
	"github.com/vocusapp/vocus/internal/ports"
	"github.com/vocusapp/vocus/internal/router"
)

const undoKey = "undo:last"

// Result reasons for typed failures.
const (
	ReasonNeedsGuidance  = "needs-guidance"
	ReasonNothingToUndo  = "nothing-to-undo"
	ReasonCannotUndoStop = "cannot-undo-stop"
	ReasonUnparseable    = "unparseable"
)

// applyTimeout bounds a deferred apply once its grace window elapses; the
// originating request context is usually gone by then.
const applyTimeout = 30 * time.Second

// CommandService processes one utterance at a time. Callers are expected to
// serialize commands; conversation context and the undo ledger are
// read-then-write without locks on that assumption.
type CommandService struct {
	Router    *router.Hybrid
	Parser    *nlu.Parser
	Contexts  *conversation.Store
	Aliases   ports.AliasRegistry
	Focus     *planner.Focus
	Reminders *planner.Reminder
	Grace     *planner.Grace
	Storage   ports.Storage
	Logger    ports.Logger

	// AllowDefaultDuration is the default for typed/confirmed commands;
	// voice callers override it to false per parse.
	AllowDefaultDuration bool
}

func (s *CommandService) deps() error {
	if s.Router == nil || s.Parser == nil || s.Contexts == nil || s.Aliases == nil ||
		s.Focus == nil || s.Reminders == nil || s.Grace == nil || s.Storage == nil ||
		s.Logger == nil {
		return errors.New("services.CommandService dependencies not satisfied")
	}
	return nil
}

// Classify runs only the keyword gate.
func (s *CommandService) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if err := s.deps(); err != nil {
		return domain.Classification{}, err
	}
	return s.Parser.Classifier.Classify(text, s.aliasNames(ctx)), nil
}

// ParseIntent runs the local parser only.
func (s *CommandService) ParseIntent(ctx context.Context, text string, allowDefaultDuration bool) (domain.Intent, error) {
	if err := s.deps(); err != nil {
		return nil, err
	}
	return s.Parser.Parse(text, s.parseOptions(ctx, allowDefaultDuration)), nil
}

// ParseIntentHybrid runs the full local/remote routing chain and returns an
// intent tagged with routing metadata, or nil when nothing was actionable.
// Voice callers pass allowDefaultDuration=false: a transcript with no
// duration must trigger the clarification dialog, not a silent 30-minute
// backfill the speaker never hears about.
func (s *CommandService) ParseIntentHybrid(ctx context.Context, text string, allowDefaultDuration bool) (domain.Intent, error) {
	if err := s.deps(); err != nil {
		return nil, err
	}
	allow := allowDefaultDuration && s.AllowDefaultDuration
	return s.Router.Parse(ctx, text, s.parseOptions(ctx, allow)), nil
}

// NeedsClarification reports the missing slot for an intent, nil when the
// intent is complete and execution may proceed.
func (s *CommandService) NeedsClarification(ctx context.Context, intent domain.Intent) (*clarify.Request, error) {
	if err := s.deps(); err != nil {
		return nil, err
	}
	cctx, err := s.Contexts.Load(ctx)
	if err != nil {
		s.Logger.Warn("context load failed", map[string]interface{}{"error": err.Error()})
	}
	return clarify.NeedsClarification(intent, cctx, s.aliasNames(ctx)), nil
}

// Guidance builds the prompt for classifier-level ambiguity.
func (s *CommandService) Guidance(ctx context.Context, cls domain.Classification, text string) *clarify.Guidance {
	return clarify.GuidancePrompt(cls, text, s.aliasNames(ctx))
}

// Execute turns an intent into a side effect. With confirm=true it stops
// after planning and returns PendingConfirmation; the caller re-invokes
// with confirm=false to apply. Applying goes through the grace window,
// which is what gives undo its free cancellation path.
func (s *CommandService) Execute(ctx context.Context, intent domain.Intent, confirm bool) (domain.ExecutionResult, error) {
	if err := s.deps(); err != nil {
		return domain.ExecutionResult{}, err
	}

	plan, result, err := s.plan(ctx, intent)
	if err != nil || result != nil {
		if result != nil {
			return *result, err
		}
		return domain.ExecutionResult{}, err
	}

	if plan.Action == domain.PlanNoop {
		return domain.ExecutionResult{
			OK:     false,
			Reason: plan.Reason,
			Plan:   &plan,
		}, nil
	}

	if confirm {
		return domain.ExecutionResult{
			OK:                  true,
			PendingConfirmation: true,
			Plan:                &plan,
			Confirmation:        plan.Summary,
		}, nil
	}

	if s.Grace.Delay > 0 {
		return s.applyDeferred(ctx, plan)
	}
	return s.applyNow(ctx, plan)
}

// plan builds the plan for an intent, or a typed failure result.
func (s *CommandService) plan(ctx context.Context, intent domain.Intent) (domain.Plan, *domain.ExecutionResult, error) {
	switch i := intent.(type) {
	case nil:
		// The router returns nil when the classifier accepted the text but
		// no parser (local or remote) could produce an intent.
		return domain.Plan{}, &domain.ExecutionResult{OK: false, Reason: ReasonUnparseable}, nil

	case domain.ClassificationIntent:
		return domain.Plan{}, &domain.ExecutionResult{OK: false, Reason: ReasonNeedsGuidance}, nil

	case domain.RemindIntent:
		plan, err := s.Reminders.Plan(ctx, i)
		switch {
		case errors.Is(err, planner.ErrPermissionDenied):
			return domain.Plan{}, &domain.ExecutionResult{
				OK:              false,
				NeedsPermission: true,
				Reason:          err.Error(),
			}, nil
		case errors.Is(err, planner.ErrIncompleteReminder):
			return domain.Plan{}, &domain.ExecutionResult{OK: false, Reason: err.Error()}, nil
		case err != nil:
			return domain.Plan{}, nil, fmt.Errorf("plan reminder: %w", err)
		}
		return plan, nil, nil

	case domain.BlockIntent, domain.StopIntent:
		plan, err := s.Focus.Plan(ctx, intent)
		if err != nil {
			return domain.Plan{}, nil, fmt.Errorf("plan blocking: %w", err)
		}
		return plan, nil, nil

	default:
		return domain.Plan{}, nil, fmt.Errorf("cannot execute action %q", intent.Action())
	}
}

func (s *CommandService) applyNow(ctx context.Context, plan domain.Plan) (domain.ExecutionResult, error) {
	result, err := s.applyPlan(ctx, plan)
	if err != nil {
		return result, err
	}
	if result.Undo != nil {
		s.saveUndo(ctx, *result.Undo)
	}
	s.rememberApplied(ctx, plan)
	return result, nil
}

// applyDeferred opens the grace window: the pending undo record is written
// immediately, the side effect itself runs when the window closes.
func (s *CommandService) applyDeferred(ctx context.Context, plan domain.Plan) (domain.ExecutionResult, error) {
	record := domain.UndoRecord{
		ID:        uuid.NewString(),
		Action:    plan.Action,
		Summary:   plan.Summary,
		Pending:   true,
		CreatedAt: time.Now(),
	}
	s.saveUndo(ctx, record)

	s.Grace.Schedule(func() {
		actx, cancel := context.WithTimeout(context.Background(), applyTimeout)
		defer cancel()

		result, err := s.applyPlan(actx, plan)
		if err != nil {
			s.Logger.Error("deferred apply failed", err, map[string]interface{}{
				"action": string(plan.Action),
			})
			s.deleteUndo(actx)
			return
		}
		if result.Undo != nil {
			s.saveUndo(actx, *result.Undo)
		}
		s.rememberApplied(actx, plan)
	})

	seconds := int(s.Grace.Delay / time.Second)
	return domain.ExecutionResult{
		OK:           true,
		Plan:         &plan,
		Undo:         &record,
		Confirmation: fmt.Sprintf("%s. Starting in %ds, say undo to cancel.", plan.Summary, seconds),
	}, nil
}

func (s *CommandService) applyPlan(ctx context.Context, plan domain.Plan) (domain.ExecutionResult, error) {
	if plan.Action == domain.PlanRemind {
		return s.Reminders.Apply(ctx, plan)
	}
	return s.Focus.Apply(ctx, plan)
}

// Undo reverses the last action: cancelling the grace timer when the window
// is still open, otherwise performing the compensating action.
func (s *CommandService) Undo(ctx context.Context) (domain.ExecutionResult, error) {
	if err := s.deps(); err != nil {
		return domain.ExecutionResult{}, err
	}

	if s.Grace.Cancel() {
		s.deleteUndo(ctx)
		return domain.ExecutionResult{
			OK:           true,
			Confirmation: "Cancelled, nothing was applied.",
		}, nil
	}

	record, err := s.LastUndo(ctx)
	if err != nil {
		return domain.ExecutionResult{}, err
	}
	if record == nil {
		return domain.ExecutionResult{OK: false, Reason: ReasonNothingToUndo}, nil
	}

	switch record.Action {
	case domain.PlanBlock:
		if _, err := s.Focus.Apply(ctx, domain.Plan{Action: domain.PlanStop}); err != nil {
			return domain.ExecutionResult{Err: err}, err
		}
	case domain.PlanRemind:
		if err := s.Reminders.Notifications.Cancel(ctx, record.NotificationIDs); err != nil {
			return domain.ExecutionResult{Err: err}, fmt.Errorf("cancel notifications: %w", err)
		}
	case domain.PlanStop:
		return domain.ExecutionResult{OK: false, Reason: ReasonCannotUndoStop}, nil
	}

	s.deleteUndo(ctx)
	return domain.ExecutionResult{
		OK:           true,
		Confirmation: fmt.Sprintf("Undid: %s.", record.Summary),
	}, nil
}

// LastUndo returns the persisted undo record, nil when none exists.
func (s *CommandService) LastUndo(ctx context.Context) (*domain.UndoRecord, error) {
	data, ok, err := s.Storage.Get(ctx, undoKey)
	if err != nil {
		return nil, fmt.Errorf("read undo record: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var record domain.UndoRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode undo record: %w", err)
	}
	return &record, nil
}

func (s *CommandService) parseOptions(ctx context.Context, allowDefaultDuration bool) nlu.ParseOptions {
	cctx, err := s.Contexts.Load(ctx)
	if err != nil {
		s.Logger.Warn("context load failed", map[string]interface{}{"error": err.Error()})
	}
	return nlu.ParseOptions{
		AllowDefaultDuration: allowDefaultDuration,
		Aliases:              s.aliasNames(ctx),
		Context:              cctx,
	}
}

func (s *CommandService) aliasNames(ctx context.Context) []string {
	names, err := s.Aliases.Names(ctx)
	if err != nil {
		s.Logger.Warn("alias listing failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return names
}

// rememberApplied overwrites the conversation context after a successful
// apply; stop clears it instead, there is nothing to follow up on.
func (s *CommandService) rememberApplied(ctx context.Context, plan domain.Plan) {
	var err error
	switch plan.Action {
	case domain.PlanBlock:
		err = s.Contexts.Save(ctx, domain.ConversationContext{
			LastAction:          domain.ActionBlock,
			LastTarget:          plan.Target,
			LastDurationMinutes: plan.DurationMinutes,
		})
	case domain.PlanRemind:
		err = s.Contexts.Save(ctx, domain.ConversationContext{
			LastAction:          domain.ActionRemind,
			LastDurationMinutes: plan.DurationMinutes,
		})
	case domain.PlanStop:
		err = s.Contexts.Clear(ctx)
	}
	if err != nil {
		s.Logger.Warn("context update failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *CommandService) saveUndo(ctx context.Context, record domain.UndoRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		s.Logger.Warn("undo encode failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.Storage.Set(ctx, undoKey, data); err != nil {
		s.Logger.Warn("undo save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *CommandService) deleteUndo(ctx context.Context) {
	if err := s.Storage.Delete(ctx, undoKey); err != nil {
		s.Logger.Warn("undo delete failed", map[string]interface{}{"error": err.Error()})
	}
}
