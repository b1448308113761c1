package queries

import (
	"context"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/services"
)

// GetParcelQueryHandler loads a parcel and checks that the actor may see it.
// A deleted parcel reads as not found. A customer who is neither sender nor
// receiver gets an AccessDeniedError, as does a courier the parcel is not
// assigned to.
type GetParcelQueryHandler struct {
	parcels ParcelReader
	policy  services.AccessPolicy
}

func NewGetParcelQueryHandler(parcels ParcelReader) GetParcelQueryHandler {
	return GetParcelQueryHandler{parcels: parcels, policy: services.NewAccessPolicy()}
}

func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (*parcel.Parcel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	p, err := h.parcels.Get(ctx, query.ParcelID())
	if err != nil {
		return nil, notFoundAs(err, ErrParcelNotFound)
	}
	if !p.IsActive() {
		return nil, ErrParcelNotFound
	}

	if err = h.policy.Authorize(query.Actor(), services.ActionReadParcel, services.ParcelResource(p)); err != nil {
		return nil, err
	}

	return p, nil
}
