// Package operations runs the survey cleaning pipeline as a sequence of steps
// over one exclusively owned table.
//
// Core Components:
//
// Manager: executes the registered steps in order, opens a span per step,
// records step metrics and stops at the first fatal error.
//
// Step: a unit of work (profile, normalize, canonicalize, rules, impute). Steps
// rewrite the table held by the OperationState in place and publish their
// reports through the state context.
//
// Registry: keeps the steps in registration order, which is the execution
// order.
//
// State: tracks the run and each step: status, cells changed, warnings and
// step-specific metadata.
//
// Errors raised by a step are classified with IsFatal. Missing columns and
// non-convergence leave the step completed with warnings; anything else fails
// the step and skips the rest of the run, so the caller must not persist the
// table.
//
// Example usage:
//
//	registry := operations.NewRegistry()
//	registry.Register(operations.NewNormalizeStep(normalizer, logger))
//	registry.Register(operations.NewCanonicalizeStep(canon, logger))
//
//	manager := operations.NewManager(registry, operations.NewConfig(), tracer, logger)
//	state := operations.NewOperationState(runID, tbl)
//	resp, err := manager.Run(ctx, state)
package operations
