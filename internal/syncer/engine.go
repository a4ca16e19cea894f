package syncer

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
)

// Engine reconciles the two watch-list stores. One Run is a single linear
// pass: snapshot both sides, plan, apply. There is no cross-store
// transaction and no locking; a crash mid-apply leaves a partial state the
// next idempotent run reconverges.
type Engine struct {
	legacy    Store
	canonical Store
}

// NewEngine builds a sync engine over the two store adapters.
func NewEngine(legacy, canonical Store) *Engine {
	return &Engine{legacy: legacy, canonical: canonical}
}

// Summary counts one run's planned and executed writes.
type Summary struct {
	Planned int
	Applied int
	Failed  int
}

// Run executes one reconciliation pass. Snapshot failures abort the run;
// individual action failures are logged and skipped so one bad key never
// blocks the rest of the batch.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	legacySnap, err := e.legacy.Snapshot(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("syncer: snapshot legacy store: %w", err)
	}
	canonicalSnap, err := e.canonical.Snapshot(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("syncer: snapshot canonical store: %w", err)
	}

	actions := Plan(legacySnap, canonicalSnap)
	summary := e.Apply(ctx, actions)

	logx.WithContext(ctx).Infof("syncer: run complete legacy=%d canonical=%d planned=%d applied=%d failed=%d",
		len(legacySnap), len(canonicalSnap), summary.Planned, summary.Applied, summary.Failed)
	return summary, nil
}

// Apply executes a planned action list against the stores. Exposed
// separately from Run so tests and tooling can replay plans.
func (e *Engine) Apply(ctx context.Context, actions []Action) Summary {
	summary := Summary{Planned: len(actions)}
	for _, action := range actions {
		if action.Reason == "tie, canonical wins" {
			// Surfaced so operators can see how often legacy rows without
			// an update time silently lose conflicts.
			logx.WithContext(ctx).Debugf("syncer: tie on %s/%s resolved to canonical active=%v",
				action.Key.Symbol, action.Key.Exchange, action.Active)
		}
		if err := e.applyAction(ctx, action); err != nil {
			summary.Failed++
			logx.WithContext(ctx).Errorf("syncer: %s %s/%s failed: %v",
				action.Kind, action.Key.Symbol, action.Key.Exchange, err)
			continue
		}
		summary.Applied++
		logx.WithContext(ctx).Infof("syncer: %s %s/%s active=%v (%s)",
			action.Kind, action.Key.Symbol, action.Key.Exchange, action.Active, action.Reason)
	}
	return summary
}

func (e *Engine) applyAction(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionInsertLegacy:
		return e.legacy.Insert(ctx, action.Key, action.Active)
	case ActionInsertCanonical:
		return e.canonical.Insert(ctx, action.Key, action.Active)
	case ActionUpdateLegacy:
		return e.legacy.SetActive(ctx, action.TargetID, action.Active)
	case ActionUpdateCanonical:
		return e.canonical.SetActive(ctx, action.TargetID, action.Active)
	default:
		return fmt.Errorf("syncer: unknown action kind %d", action.Kind)
	}
}
