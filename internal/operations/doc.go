// Package operations runs the build as a fixed sequence of steps.
//
// A run is: probe the expected last trading day, locate the newest
// cumulative bundle, fetch and normalize it, patch the missing days,
// package the tables, assemble the report and publish both outputs.
// Outputs are only written by the final step, so a failure anywhere earlier
// leaves the previous outputs in place.
//
// Core Components:
//
// Runner: executes registered steps in order, one span and one metrics
// sample per step, stopping at the first failure.
//
// Step: a single unit of work. Steps exchange values through
// OperationState.Data.
//
// Registry: holds steps in registration order.
//
// Example usage:
//
//	registry := operations.NewRegistry()
//	registry.Register(operations.NewProbeStep(prober))
//	registry.Register(operations.NewLocateStep(locator))
//	// ...
//	runner := operations.NewRunner(registry, operations.WithRunnerLogger(logger))
//	state := operations.NewOperationState(runID)
//	if err := runner.Run(ctx, state); err != nil {
//		// err is an *operations.OperationError
//	}
package operations
