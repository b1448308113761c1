package ports

import (
	"context"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
)

// ParcelFilter narrows List. Zero fields do not filter.
type ParcelFilter struct {
	// PartyID matches parcels sent by, or addressed to, the user.
	PartyID *kernel.UUID

	// CourierID matches parcels assigned to the courier.
	CourierID *kernel.UUID

	Status *parcel.Status

	Limit  int
	Offset int
}

// ParcelRepository defines the persistence contract for parcel aggregates.
// Every read excludes soft-deleted parcels.
type ParcelRepository interface {
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update writes the aggregate if its stored version still equals
	// aggregate.Version(), then advances the version. Soft deletion goes
	// through Update too. A lost race yields errs.ErrStaleObject.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves an active parcel by id, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// List returns active parcels matching filter, newest first.
	List(ctx context.Context, filter ParcelFilter) ([]*parcel.Parcel, error)

	// CountOpenByCourier counts active PENDING and IN_TRANSIT parcels
	// assigned to the courier.
	CountOpenByCourier(ctx context.Context, courierID kernel.UUID) (int64, error)
}
