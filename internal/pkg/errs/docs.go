// Package errs provides standardized error types for the dispatch engine.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrProviderUnavailable)
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() pointing at the sentinel
//
// The taxonomy mirrors how failures surface to callers:
//
//   - ValueIsRequired / ValueIsInvalid / ValueIsOutOfRange - per-item input
//     validation; never aborts a whole batch.
//   - ObjectNotFound - a tenant-scoped lookup found nothing.
//   - ProviderUnavailable - the travel cost provider failed; aborts only the
//     affected cluster of an optimize run.
//   - ConcurrencyConflict - eligible orders were claimed by a concurrent run.
//   - InvalidTransition - a state machine action illegal from the current
//     status; the current status is carried in the error for reconciliation.
//
// Capacity shortfalls are intentionally not an error type: orders that do not
// fit are returned as the unassigned remainder of a solver result.
package errs
