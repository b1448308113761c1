package commands

import (
	"context"
	"errors"
	"time"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"
)

// TransitionParcelStatusCommandHandler applies one state-machine step.
//
// A courier that is not assigned gets parcel.ErrNotAssignedCourier whatever
// the target. An edge missing from the table gives
// parcel.IllegalStatusTransitionError. The write is guarded by the row
// version, so of two racing transitions one wins and the other gets
// ErrStaleParcel.
//
// Reopening a CANCELLED parcel claims its assigned courier again. A courier
// that has meanwhile been deleted or taken another open parcel gives
// user.ErrCourierUnavailable and the parcel stays cancelled.
type TransitionParcelStatusCommandHandler struct {
	uowFactory UoWFactory
	dispatcher NotificationDispatcher
	policy     services.AccessPolicy
}

func NewTransitionParcelStatusCommandHandler(
	uowFactory UoWFactory,
	dispatcher NotificationDispatcher,
) TransitionParcelStatusCommandHandler {
	return TransitionParcelStatusCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		policy:     services.NewAccessPolicy(),
	}
}

func (h TransitionParcelStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionParcelStatusCommand,
) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	parcelRepo := uow.ParcelRepository()

	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, notFoundAs(err, ErrParcelNotFound)
	}

	if err = h.policy.Authorize(cmd.Actor(), services.ActionTransitionParcelStatus, services.ParcelResource(p)); err != nil {
		return nil, err
	}

	previous := p.Status()
	if err = p.TransitionStatus(cmd.Actor(), cmd.Target(), time.Now()); err != nil {
		return nil, err
	}

	if previous == parcel.Cancelled && p.Status().IsOpen() {
		if err = h.reclaimCourier(ctx, userRepo, parcelRepo, p); err != nil {
			return nil, err
		}
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, staleAs(err, ErrStaleParcel)
	}

	senderID := p.SenderID()
	recipients := lookupRecipients(ctx, userRepo, &senderID, p.Receiver().ID())

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	data := parcelData(p)
	data["previous_status"] = previous.String()
	notifications := make([]ports.Notification, 0, len(recipients))
	for _, r := range recipients {
		notifications = append(notifications, notificationFor(ports.NotificationParcelStatusChanged, r, data))
	}
	h.dispatcher.Dispatch(ctx, notifications...)

	return p, nil
}

// reclaimCourier marks the assigned courier busy again. It must run before
// the parcel row is written so the parcel is not counted as one of the
// courier's open parcels. The courier row is written even when it is still
// unavailable, so an idle release racing with the reopen loses its version
// check instead of freeing a courier that is busy again.
func (h TransitionParcelStatusCommandHandler) reclaimCourier(
	ctx context.Context,
	userRepo ports.UserRepository,
	parcelRepo ports.ParcelRepository,
	p *parcel.Parcel,
) error {
	id := p.AssignedCourierID()
	if id == nil {
		return nil
	}

	courier, err := userRepo.Get(ctx, *id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return user.ErrCourierUnavailable
	}
	if err != nil {
		return storageErr(err)
	}

	if courier.IsAvailable() {
		if err = courier.MarkUnavailable(); err != nil {
			return err
		}
	} else {
		open, countErr := parcelRepo.CountOpenByCourier(ctx, courier.ID())
		if countErr != nil {
			return storageErr(countErr)
		}
		if open > 0 {
			return user.ErrCourierUnavailable
		}
	}

	if err = userRepo.Update(ctx, courier); err != nil {
		return staleAs(err, user.ErrCourierUnavailable)
	}
	return nil
}
