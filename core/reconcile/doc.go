// Package reconcile plans the work needed to bring a set of tracked entities
// in line with three sources of truth: the keys observed on the previous
// pass, the keys present now, and the keys persisted in a registry.
//
// # Architecture
//
// 1. Engine: builds the union of keys from all sources and reports, per key,
// where it is present. Diff returns the added and removed keys between two
// passes, both sorted.
//
// 2. Plan: turns the per-key results into actions. A key present now but not
// observed is created, a key observed but gone is removed, and a key only
// left in the registry is purged.
//
// 3. Mutator: callers implement it to execute the actions. ApplyPlan uses
// batch methods when the mutator provides them.
//
// # Usage Example
//
//	plan := reconcile.BuildPlan(observed, current, registered)
//	executed, err := reconcile.ApplyPlan(ctx, mutator, plan)
package reconcile
