package commands

import (
	"errors"
	"fmt"

	"sendit/internal/core/domain/services"
	"sendit/internal/pkg/errs"
)

var (
	ErrParcelNotFound   = errs.NewObjectNotFoundError("parcel", nil)
	ErrCourierNotFound  = services.ErrCourierNotFound
	ErrSenderNotFound   = errs.NewObjectNotFoundError("sender", nil)
	ErrReceiverNotFound = errs.NewObjectNotFoundError("receiver", nil)
	ErrUserNotFound     = errs.NewObjectNotFoundError("user", nil)

	// ErrAddressUnresolvable is returned when a pickup or destination could
	// not be geocoded. Nothing is written.
	ErrAddressUnresolvable = errs.NewDependencyError("geocoder", errors.New("address could not be resolved"))

	// ErrPersistenceFailure hides storage internals from callers. The cause is
	// formatted into the message for logs but cannot be unwrapped.
	ErrPersistenceFailure = errs.NewDependencyError("storage", nil)

	ErrStaleParcel      = fmt.Errorf("%w: parcel", errs.ErrStaleObject)
	ErrStaleUser        = fmt.Errorf("%w: user", errs.ErrStaleObject)
	ErrEmailTaken       = errs.NewConflictError("email is already registered")
	ErrCannotDeleteSelf = errs.NewConflictError("admins cannot delete their own account")
)

// storageErr passes typed errors through and turns anything else coming out
// of a repository or transaction into ErrPersistenceFailure.
func storageErr(err error) error {
	if err == nil || errs.KindOf(err) != errs.KindInternal {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
}

// staleAs maps a lost optimistic race to target and everything else through
// storageErr.
func staleAs(err, target error) error {
	if errors.Is(err, errs.ErrStaleObject) {
		return target
	}
	return storageErr(err)
}

// notFoundAs maps a repository miss to target and everything else through
// storageErr.
func notFoundAs(err, target error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return target
	}
	return storageErr(err)
}
