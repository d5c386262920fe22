package domain

import "time"

// PlanAction identifies the side effect a plan applies.
type PlanAction string

const (
	PlanBlock  PlanAction = "block"
	PlanStop   PlanAction = "stop"
	PlanRemind PlanAction = "remind"
	// PlanNoop means the intent could not be resolved to an applicable
	// resource; callers must re-prompt, never apply.
	PlanNoop PlanAction = "noop"
)

// Noop reasons.
const (
	ReasonAliasNotFound = "alias-not-found"
)

// Plan is an action-specific execution recipe derived from a confirmed
// intent plus resolved resources. Planning never has side effects.
type Plan struct {
	Action PlanAction
	Reason string // set for noop plans

	// Blocking fields.
	Target          string
	TargetType      TargetType
	Resource        string // resolved blocking-target token
	DurationMinutes int

	// Reminder fields.
	Message      string
	ReminderType ReminderType
	Time         string
	Days         []string

	// Summary is the human confirmation text shown before and after apply.
	Summary string
}

// ExecutionResult is the typed outcome of planning or applying a command.
type ExecutionResult struct {
	OK                  bool
	Reason              string
	Err                 error
	NeedsPermission     bool
	PendingConfirmation bool
	Plan                *Plan
	Confirmation        string
	SessionRef          string
	NotificationIDs     []string
	Undo                *UndoRecord
}

// UndoRecord captures enough state to reverse an applied action: the
// blocking session token, scheduled notification ids, or, while the grace
// window is still open, nothing but the pending marker.
type UndoRecord struct {
	ID              string     `json:"id"`
	Action          PlanAction `json:"action"`
	Summary         string     `json:"summary"`
	SessionRef      string     `json:"session_ref,omitempty"`
	NotificationIDs []string   `json:"notification_ids,omitempty"`
	Pending         bool       `json:"pending"`
	CreatedAt       time.Time  `json:"created_at"`
}
