// Package errors provides structured error types for the grid-engine library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: component path, offending
// value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseApply, errors.KindOutOfBounds).
//		Path("root", "2,1:list").
//		Value(42).
//		Detail("slot outside the configured surface").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidInput(errors.PhaseSetup, "surface must have positive dimensions")
//	err := errors.OutOfBounds(errors.PhaseApply, 42, 32)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
