package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hesiod53/core/retry"

	"go.uber.org/zap"
)

// Reconciler computes and applies the difference between the desired records and
// the records published in a zone.
type Reconciler struct {
	store     Store
	committer *Committer
	policy    retry.Policy
	log       *zap.Logger
}

// NewReconciler returns a reconciler over store. The same store value is shared with
// the committer for the whole run.
func NewReconciler(store Store, cfg CommitConfig, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	policy := retry.Policy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay(),
		OnRetry: func(n int, err error) {
			log.Warn("Store call failed, retrying", zap.Int("attempt", n+1), zap.Error(err))
		},
	}
	return &Reconciler{
		store:     store,
		committer: NewCommitter(store, cfg, log),
		policy:    policy,
		log:       log,
	}
}

// Plan resolves the zone, lists the owned records and diffs them against desired.
// It never mutates the store.
func (r *Reconciler) Plan(ctx context.Context, spec Spec, desired RecordSet) (string, *Plan, error) {
	var zoneID string
	err := r.policy.Do(ctx, func() error {
		id, err := r.store.ResolveZone(ctx, Canonical(spec.Zone))
		zoneID = id
		return err
	})
	if err != nil {
		if errors.Is(err, ErrZoneNotFound) {
			return "", nil, fmt.Errorf("zone %s: %w", Canonical(spec.Zone), err)
		}
		return "", nil, fmt.Errorf("failed to resolve zone %s: %w", Canonical(spec.Zone), err)
	}

	var records []Record
	err = r.policy.Do(ctx, func() error {
		list, err := r.store.ListRecords(ctx, zoneID)
		records = list
		return err
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to list records of zone %s: %w", zoneID, err)
	}

	existing := Owned(records, spec.Domain, spec.Suffixes)
	r.log.Debug("Loaded published records",
		zap.String("zone_id", zoneID),
		zap.Int("listed", len(records)),
		zap.Int("owned", len(existing)),
		zap.Int("desired", len(desired)),
	)

	return zoneID, Diff(existing, desired), nil
}

// Run plans the reconciliation and, unless opts.DryRun is set or the plan is
// empty, commits it. On a failure after mutation has started the returned result
// still lists the committed batches.
func (r *Reconciler) Run(ctx context.Context, spec Spec, desired RecordSet, opts Options) (*Result, error) {
	zoneID, plan, err := r.Plan(ctx, spec, desired)
	if err != nil {
		return nil, err
	}

	result := &Result{ZoneID: zoneID, Plan: plan}
	if opts.OnPlan != nil {
		opts.OnPlan(plan)
	}

	if opts.DryRun {
		r.log.Info("Dry run, skipping mutation",
			zap.Int("to_remove", len(plan.ToRemove)),
			zap.Int("to_add", len(plan.ToAdd)),
		)
		return result, nil
	}

	if plan.Empty() {
		r.log.Info("Zone is up to date", zap.Int("records", plan.Unchanged))
		return result, nil
	}

	batches, err := r.committer.Apply(ctx, zoneID, plan)
	result.Batches = batches
	if err != nil {
		return result, err
	}

	result.Applied = true
	return result, nil
}

// Diff returns the records to remove (existing but not desired) and to add
// (desired but not existing), each sorted by name.
func Diff(existing, desired RecordSet) *Plan {
	unchanged := 0
	for r := range desired {
		if existing.Has(r) {
			unchanged++
		}
	}
	return &Plan{
		ToRemove:  existing.Minus(desired).Sorted(),
		ToAdd:     desired.Minus(existing).Sorted(),
		Unchanged: unchanged,
	}
}

// Owned keeps the records whose name ends with one of the suffixes under domain.
func Owned(records []Record, domain string, suffixes []string) RecordSet {
	domain = Canonical(domain)
	tails := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		tails = append(tails, strings.ToLower(s)+domain)
	}

	out := make(RecordSet)
	for _, rec := range records {
		rec = NewRecord(rec.FQDN, rec.Value)
		for _, tail := range tails {
			if strings.HasSuffix(rec.FQDN, tail) {
				out.Add(rec)
				break
			}
		}
	}
	return out
}

// Canonical lowercases name and ensures a trailing dot.
func Canonical(name string) string {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return name
}
