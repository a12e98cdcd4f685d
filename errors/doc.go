// Package errors provides structured error types for the modelabi library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, offending
// value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSerialize, errors.KindInvalidArrayLength).
//		Path("inventory", "items").
//		Value(prefix).
//		Detail("length prefix exceeds packing maximum").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.VariantNotFound(errors.PhaseSerialize, path, 2, 2)
//	err := errors.InvalidValuesLength(errors.PhaseSerialize, path, 2, 1)
//
// All errors implement the standard error interface and support errors.Is/As.
// Every error is a local validation failure surfaced synchronously to the
// immediate caller; none are transient or retryable.
package errors
