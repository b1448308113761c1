// Package errs provides the error types shared by the domain, the use cases
// and the adapters of the parcel service.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type carrying the details
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// The sentinels are grouped into kinds (see KindOf) so that callers such as
// the HTTP adapter can map any error to a response class without knowing the
// concrete type:
//   - validation: ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange
//   - not found: ErrObjectNotFound
//   - authorization: ErrAccessDenied
//   - conflict: ErrConflict, ErrStaleObject
//   - dependency: ErrDependencyFailed
package errs
