package commands

import (
	"context"
	"errors"
	"time"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/services"
)

// UpdateParcelCommandHandler applies an admin patch. Address fields whose
// text actually changed are re-geocoded; if any lookup fails the whole
// patch is dropped and the stored coordinates stay as they were.
type UpdateParcelCommandHandler struct {
	uowFactory UoWFactory
	resolver   AddressResolver
	policy     services.AccessPolicy
}

func NewUpdateParcelCommandHandler(uowFactory UoWFactory, resolver AddressResolver) UpdateParcelCommandHandler {
	return UpdateParcelCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		policy:     services.NewAccessPolicy(),
	}
}

func (h UpdateParcelCommandHandler) Handle(ctx context.Context, cmd UpdateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionUpdateParcel, services.CollectionResource()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, notFoundAs(err, ErrParcelNotFound)
	}

	if err = h.policy.Authorize(cmd.Actor(), services.ActionUpdateParcel, services.ParcelResource(p)); err != nil {
		return nil, err
	}

	var pickup, destination *addressLookup
	var lookups []*addressLookup
	if text, ok := cmd.PickupAddress(); ok && !p.Pickup().SameText(text) {
		pickup = &addressLookup{field: "pickup", text: text}
		lookups = append(lookups, pickup)
	}
	if text, ok := cmd.Destination(); ok && !p.Destination().SameText(text) {
		destination = &addressLookup{field: "destination", text: text}
		lookups = append(lookups, destination)
	}
	if len(lookups) > 0 {
		if err = h.resolver.resolve(ctx, lookups...); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if err = applyPatch(p, cmd, pickup, destination, now); err != nil {
		return nil, err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, staleAs(err, ErrStaleParcel)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	return p, nil
}

func applyPatch(p *parcel.Parcel, cmd UpdateParcelCommand, pickup, destination *addressLookup, now time.Time) error {
	var receiverErr, pickupErr, destinationErr, weightErr error

	name, nameSet := cmd.ReceiverName()
	phone, phoneSet := cmd.ReceiverPhone()
	if nameSet || phoneSet {
		if !nameSet {
			name = p.Receiver().Name()
		}
		if !phoneSet {
			phone = p.Receiver().Phone()
		}
		receiverErr = p.UpdateReceiver(name, phone, now)
	}

	if pickup != nil {
		pickupErr = p.ChangePickup(pickup.result, now)
	}
	if destination != nil {
		destinationErr = p.ChangeDestination(destination.result, now)
	}
	if w, ok := cmd.Weight(); ok {
		weightErr = p.ChangeWeight(w, now)
	}

	return errors.Join(receiverErr, pickupErr, destinationErr, weightErr)
}
