package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/ports"
)

// Planning failures that callers surface as typed results rather than
// generic errors.
var (
	// ErrPermissionDenied means the notification permission is missing;
	// distinct from a transient scheduling error so the caller can show
	// enable-it guidance instead of a retry hint.
	ErrPermissionDenied = errors.New("notification permission not granted")
	// ErrIncompleteReminder means a required field for the reminder type is
	// missing; it should have been caught by clarification.
	ErrIncompleteReminder = errors.New("reminder is missing a required field")
)

const defaultReminderClock = "9:00"

// Reminder plans and applies reminder notifications.
type Reminder struct {
	Notifications ports.NotificationBackend
	Logger        ports.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// Plan validates the intent per reminder type and requires notification
// permission up front, so apply cannot half-fail on a missing grant.
func (r *Reminder) Plan(ctx context.Context, i domain.RemindIntent) (domain.Plan, error) {
	if i.Message == "" {
		return domain.Plan{}, fmt.Errorf("%w: message", ErrIncompleteReminder)
	}
	switch i.Type {
	case domain.ReminderOneTime:
		if i.DurationMinutes < 1 {
			return domain.Plan{}, fmt.Errorf("%w: duration", ErrIncompleteReminder)
		}
	case domain.ReminderDaily:
		if i.Time == "" {
			return domain.Plan{}, fmt.Errorf("%w: time", ErrIncompleteReminder)
		}
	case domain.ReminderWeekly, domain.ReminderCustom:
		if len(i.Days) == 0 {
			return domain.Plan{}, fmt.Errorf("%w: days", ErrIncompleteReminder)
		}
	default:
		return domain.Plan{}, fmt.Errorf("%w: type", ErrIncompleteReminder)
	}

	granted, err := r.Notifications.PermissionGranted(ctx)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("check notification permission: %w", err)
	}
	if !granted {
		return domain.Plan{}, ErrPermissionDenied
	}

	return domain.Plan{
		Action:          domain.PlanRemind,
		Message:         i.Message,
		ReminderType:    i.Type,
		Time:            i.Time,
		Days:            i.Days,
		DurationMinutes: i.DurationMinutes,
		Summary:         r.describe(i),
	}, nil
}

// Apply schedules the notification and returns the ids needed to cancel it.
func (r *Reminder) Apply(ctx context.Context, plan domain.Plan) (domain.ExecutionResult, error) {
	var (
		ids []string
		err error
	)
	switch plan.ReminderType {
	case domain.ReminderOneTime:
		at := r.now().Add(time.Duration(plan.DurationMinutes) * time.Minute)
		ids, err = r.Notifications.ScheduleOnce(ctx, plan.Message, at)
	case domain.ReminderDaily:
		ids, err = r.Notifications.ScheduleDaily(ctx, plan.Message, plan.Time)
	case domain.ReminderWeekly, domain.ReminderCustom:
		clock := plan.Time
		if clock == "" {
			clock = defaultReminderClock
		}
		ids, err = r.Notifications.ScheduleWeekly(ctx, plan.Message, plan.Days, clock)
	default:
		return domain.ExecutionResult{}, fmt.Errorf("reminder planner cannot apply type %q", plan.ReminderType)
	}
	if err != nil {
		return domain.ExecutionResult{Err: err}, fmt.Errorf("schedule reminder: %w", err)
	}

	r.info("reminder scheduled", map[string]interface{}{
		"type": string(plan.ReminderType), "ids": len(ids),
	})
	return domain.ExecutionResult{
		OK:              true,
		NotificationIDs: ids,
		Confirmation:    plan.Summary + ".",
		Undo: &domain.UndoRecord{
			ID:              uuid.NewString(),
			Action:          domain.PlanRemind,
			Summary:         plan.Summary,
			NotificationIDs: ids,
			CreatedAt:       time.Now(),
		},
	}, nil
}

func (r *Reminder) describe(i domain.RemindIntent) string {
	switch i.Type {
	case domain.ReminderOneTime:
		at := r.now().Add(time.Duration(i.DurationMinutes) * time.Minute)
		return fmt.Sprintf("Reminder %q %s", i.Message, humanize.Time(at))
	case domain.ReminderDaily:
		return fmt.Sprintf("Daily reminder %q at %s", i.Message, i.Time)
	default:
		clock := i.Time
		if clock == "" {
			clock = defaultReminderClock
		}
		return fmt.Sprintf("Reminder %q every %s at %s", i.Message, strings.Join(i.Days, ", "), clock)
	}
}

func (r *Reminder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reminder) info(msg string, fields map[string]interface{}) {
	if r.Logger != nil {
		r.Logger.Info(msg, fields)
	}
}
