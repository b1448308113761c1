package queries

import (
	"context"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
	"sendit/internal/core/ports"
)

// ListParcelsQueryHandler returns the parcels an actor may see, newest first.
//
// Scope by role:
//   - ADMIN sees every active parcel
//   - CUSTOMER sees parcels they sent or receive
//   - COURIER sees parcels assigned to them
type ListParcelsQueryHandler struct {
	parcels ParcelReader
	policy  services.AccessPolicy
}

func NewListParcelsQueryHandler(parcels ParcelReader) ListParcelsQueryHandler {
	return ListParcelsQueryHandler{parcels: parcels, policy: services.NewAccessPolicy()}
}

func (h ListParcelsQueryHandler) Handle(ctx context.Context, query ListParcelsQuery) ([]*parcel.Parcel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if err := h.policy.Authorize(actor, services.ActionListParcels, services.CollectionResource()); err != nil {
		return nil, err
	}

	filter := ports.ParcelFilter{
		Status: query.Status(),
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}

	id := actor.ID()
	switch actor.Role() {
	case user.RoleCustomer:
		filter.PartyID = &id
	case user.RoleCourier:
		filter.CourierID = &id
	}

	parcels, err := h.parcels.List(ctx, filter)
	if err != nil {
		return nil, storageErr(err)
	}

	return parcels, nil
}
