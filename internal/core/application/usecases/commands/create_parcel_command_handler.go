package commands

import (
	"context"
	"time"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
	"sendit/internal/core/ports"
)

// CreateParcelCommandHandler registers a parcel with resolved coordinates
// and, optionally, its first courier.
//
// Example:
//
//	handler := NewCreateParcelCommandHandler(uowFactory, resolver, dispatcher)
//	p, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrAddressUnresolvable):
//	    // geocoding failed, nothing was stored
//	case errors.Is(err, user.ErrCourierUnavailable):
//	    // the requested courier is busy
//	}
type CreateParcelCommandHandler struct {
	uowFactory UoWFactory
	resolver   AddressResolver
	dispatcher NotificationDispatcher
	policy     services.AccessPolicy
	assigner   services.CourierAssigner
}

func NewCreateParcelCommandHandler(
	uowFactory UoWFactory,
	resolver AddressResolver,
	dispatcher NotificationDispatcher,
) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		dispatcher: dispatcher,
		policy:     services.NewAccessPolicy(),
		assigner:   services.NewCourierAssigner(),
	}
}

// Handle geocodes both addresses first; if either fails nothing is written.
// Sender, receiver and courier checks, the optional assignment and the
// insert share one transaction. Notifications go out after commit.
func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionCreateParcel, services.CollectionResource()); err != nil {
		return nil, err
	}

	pickup := &addressLookup{field: "pickup", text: cmd.PickupAddress()}
	destination := &addressLookup{field: "destination", text: cmd.Destination()}
	if err := h.resolver.resolve(ctx, pickup, destination); err != nil {
		return nil, err
	}

	now := time.Now()
	p, err := parcel.NewParcel(
		cmd.ParcelID(),
		cmd.SenderID(),
		cmd.Receiver(),
		pickup.result,
		destination.result,
		cmd.Weight(),
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	parcelRepo := uow.ParcelRepository()

	sender, err := userRepo.Get(ctx, cmd.SenderID())
	if err != nil {
		return nil, notFoundAs(err, ErrSenderNotFound)
	}

	notifications := []ports.Notification{
		notificationFor(ports.NotificationParcelCreated, sender, nil),
	}

	if receiverID := cmd.Receiver().ID(); receiverID != nil {
		receiver, err := userRepo.Get(ctx, *receiverID)
		if err != nil {
			return nil, notFoundAs(err, ErrReceiverNotFound)
		}
		notifications = append(notifications, notificationFor(ports.NotificationParcelCreated, receiver, nil))
	}

	if courierID := cmd.CourierID(); courierID != nil {
		courier, err := userRepo.Get(ctx, *courierID)
		if err != nil {
			return nil, notFoundAs(err, ErrCourierNotFound)
		}

		if _, err = h.assigner.Assign(p, courier, nil, now); err != nil {
			return nil, err
		}

		if err = userRepo.Update(ctx, courier); err != nil {
			return nil, staleAs(err, user.ErrCourierUnavailable)
		}
		notifications = append(notifications, notificationFor(ports.NotificationCourierAssigned, courier, nil))
	}

	if err = parcelRepo.Add(ctx, p); err != nil {
		return nil, storageErr(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	data := parcelData(p)
	for i := range notifications {
		notifications[i].Data = data
	}
	h.dispatcher.Dispatch(ctx, notifications...)

	return p, nil
}
