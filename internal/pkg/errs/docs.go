// Package errs provides standardized error types for the logistics back office.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside of its allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For when an operation collides with existing state
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// ErrInvalidStateTransition is the sentinel for every rejected lifecycle transition.
// Aggregates that own a state machine define their own error type carrying the
// current, requested and allowed states and unwrap to this sentinel, so adapters can
// classify transition failures without knowing the aggregate.
package errs
