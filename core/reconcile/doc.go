// Package reconcile keeps the records of a zone identical to a desired record set.
//
// A run has two phases:
//
// 1. Plan: the zone is resolved, its TXT records are listed and filtered down to the
//    names the directory owns, and the result is diffed against the desired set.
//    Records present on both sides are never touched.
//
// 2. Commit: removals are applied before additions, in contiguous batches of at most
//    MaxBatchSize changes. Each batch is polled until the store reports it INSYNC
//    before the next one is submitted, so readers never observe interleaved batches.
//
// Transient store failures are retried with a fixed backoff (see core/retry). Any
// other failure stops the run. If the zone was already mutated the error is a
// *PartialApplyError listing the committed batches; running again is safe because
// the plan is recomputed from whatever state landed.
//
// # Usage
//
//	r := reconcile.NewReconciler(store, cfg.Commit, log)
//	result, err := r.Run(ctx, reconcile.Spec{
//	    Zone:     "example.com.",
//	    Domain:   "hesiod.example.com.",
//	    Suffixes: directory.Suffixes,
//	}, desired, reconcile.Options{DryRun: dryRun})
package reconcile
