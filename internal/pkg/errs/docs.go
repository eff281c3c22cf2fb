// Package errs provides standardized error types for the marketplace application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the error taxonomy of the order fulfillment engine:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: bad input shape
//   - ObjectNotFoundError: unknown order, product, vendor, or courier reference
//   - ConflictError: illegal status transition, insufficient stock, courier race lost
//   - UnauthorizedError: actor lacks permission over the targeted object
//   - OperationFailedError: transient infrastructure failure after retry exhaustion
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrConflict) for errors.Is classification
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel
//
// Validation, not-found, conflict, and unauthorized errors are surfaced to the
// caller immediately. Transient infrastructure errors are retried internally and
// only surfaced as OperationFailedError once the retry budget is exhausted.
package errs
