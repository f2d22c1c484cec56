package reconcile

import (
	"context"
	"fmt"
)

// Mutator executes planned actions.
type Mutator interface {
	Purge(ctx context.Context, key string) error
	Create(ctx context.Context, key string) error
	Remove(ctx context.Context, key string) error
}

// BatchPurger is implemented by mutators that can purge many keys at once.
type BatchPurger interface {
	PurgeBatch(ctx context.Context, keys []string) error
}

// BuildPlan reconciles the sources and plans the actions. Actions are
// ordered purge, create, remove, each group sorted by key.
func BuildPlan(observed, current, registered Set) *Plan {
	results := Reconcile(observed, current, registered)
	summary, actions := buildPlanFromResults(results)
	return &Plan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}
}

func buildPlanFromResults(results []Result) (PlanSummary, []Action) {
	summary := PlanSummary{TotalItems: len(results)}
	var purges, creates, removes []Action

	for _, result := range results {
		switch {
		case result.Current && !result.Observed:
			creates = append(creates, Action{Type: ActionCreate, Key: result.Key, Reason: "new key"})
			summary.CreateActions++
		case result.Observed && !result.Current:
			removes = append(removes, Action{Type: ActionRemove, Key: result.Key, Reason: "key no longer present"})
			summary.RemoveActions++
		case result.Registered && !result.Current && !result.Observed:
			purges = append(purges, Action{Type: ActionPurge, Key: result.Key, Reason: "stale registry entry"})
			summary.PurgeActions++
		}
	}

	actions := make([]Action, 0, len(purges)+len(creates)+len(removes))
	actions = append(actions, purges...)
	actions = append(actions, creates...)
	actions = append(actions, removes...)
	return summary, actions
}

// ApplyPlan executes the actions in a plan and returns the number executed.
// It stops at the first error.
func ApplyPlan(ctx context.Context, m Mutator, plan *Plan) (executed int, err error) {
	if plan.Empty() {
		return 0, nil
	}

	var purgeKeys []string
	for _, action := range plan.Actions {
		if action.Type == ActionPurge {
			purgeKeys = append(purgeKeys, action.Key)
		}
	}

	if len(purgeKeys) > 0 {
		if batch, ok := m.(BatchPurger); ok {
			if err := batch.PurgeBatch(ctx, purgeKeys); err != nil {
				return executed, fmt.Errorf("failed to batch purge keys: %w", err)
			}
			executed += len(purgeKeys)
		} else {
			for _, key := range purgeKeys {
				if err := m.Purge(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to purge key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionCreate:
			if err := m.Create(ctx, action.Key); err != nil {
				return executed, fmt.Errorf("failed to create key %s: %w", action.Key, err)
			}
		case ActionRemove:
			if err := m.Remove(ctx, action.Key); err != nil {
				return executed, fmt.Errorf("failed to remove key %s: %w", action.Key, err)
			}
		default:
			continue
		}
		executed++
	}

	return executed, nil
}
