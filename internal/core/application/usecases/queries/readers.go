// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Every query runs the access policy before returning anything.
package queries

import (
	"context"
	"errors"
	"fmt"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"
)

// ParcelReader is the read side of ports.ParcelRepository. Queries run
// outside any unit of work.
type ParcelReader interface {
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)
	List(ctx context.Context, filter ports.ParcelFilter) ([]*parcel.Parcel, error)
}

var (
	ErrParcelNotFound = errs.NewObjectNotFoundError("parcel", nil)

	// ErrReadFailure hides storage internals from callers.
	ErrReadFailure = errs.NewDependencyError("storage", nil)
)

func storageErr(err error) error {
	if err == nil || errs.KindOf(err) != errs.KindInternal {
		return err
	}
	return fmt.Errorf("%w: %v", ErrReadFailure, err)
}

func notFoundAs(err, target error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return target
	}
	return storageErr(err)
}
