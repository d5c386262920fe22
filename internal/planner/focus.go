// Package planner turns confirmed intents into execution plans and applies
// them. Planning never has side effects; applying does, and every applied
// plan yields an undo record.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/ports"
)

// Focus plans and applies blocking sessions.
type Focus struct {
	Blocking ports.BlockingBackend
	Logger   ports.Logger
}

// Plan resolves a block or stop intent into a plan. An unresolvable target
// yields a noop plan with ReasonAliasNotFound; the caller must route to a
// resource-selection flow, never proceed.
func (f *Focus) Plan(ctx context.Context, intent domain.Intent) (domain.Plan, error) {
	switch i := intent.(type) {
	case domain.StopIntent:
		return domain.Plan{
			Action:  domain.PlanStop,
			Summary: "Stop the active blocking session",
		}, nil

	case domain.BlockIntent:
		resource, err := f.Blocking.Resolve(ctx, i.Target)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("resolve target %q: %w", i.Target, err)
		}
		if resource == "" {
			return domain.Plan{
				Action: domain.PlanNoop,
				Reason: domain.ReasonAliasNotFound,
				Target: i.Target,
			}, nil
		}
		return domain.Plan{
			Action:          domain.PlanBlock,
			Target:          i.Target,
			TargetType:      i.TargetType,
			Resource:        resource,
			DurationMinutes: i.DurationMinutes,
			Summary:         fmt.Sprintf("Block %s for %d minutes", i.Target, i.DurationMinutes),
		}, nil

	default:
		return domain.Plan{}, fmt.Errorf("focus planner cannot plan action %q", intent.Action())
	}
}

// Apply starts or stops blocking per the plan.
func (f *Focus) Apply(ctx context.Context, plan domain.Plan) (domain.ExecutionResult, error) {
	switch plan.Action {
	case domain.PlanStop:
		if err := f.Blocking.Stop(ctx); err != nil {
			return domain.ExecutionResult{Err: err}, fmt.Errorf("stop blocking: %w", err)
		}
		return domain.ExecutionResult{
			OK:           true,
			Confirmation: "Blocking stopped.",
			// A stop is recorded but not reversible; undo surfaces that
			// instead of pretending the old session could come back.
			Undo: &domain.UndoRecord{
				ID:        uuid.NewString(),
				Action:    domain.PlanStop,
				Summary:   plan.Summary,
				CreatedAt: time.Now(),
			},
		}, nil

	case domain.PlanBlock:
		duration := time.Duration(plan.DurationMinutes) * time.Minute
		ref, err := f.Blocking.Start(ctx, plan.Resource, duration)
		if err != nil {
			return domain.ExecutionResult{Err: err}, fmt.Errorf("start blocking: %w", err)
		}
		f.info("blocking started", map[string]interface{}{
			"target": plan.Target, "minutes": plan.DurationMinutes,
		})
		return domain.ExecutionResult{
			OK:           true,
			SessionRef:   ref,
			Confirmation: fmt.Sprintf("Blocking %s for %d minutes.", plan.Target, plan.DurationMinutes),
			Undo: &domain.UndoRecord{
				ID:         uuid.NewString(),
				Action:     domain.PlanBlock,
				Summary:    plan.Summary,
				SessionRef: ref,
				CreatedAt:  time.Now(),
			},
		}, nil

	default:
		return domain.ExecutionResult{}, fmt.Errorf("focus planner cannot apply action %q", plan.Action)
	}
}

func (f *Focus) info(msg string, fields map[string]interface{}) {
	if f.Logger != nil {
		f.Logger.Info(msg, fields)
	}
}
