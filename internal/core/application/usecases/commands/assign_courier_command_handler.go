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

// AssignCourierCommandHandler orchestrates courier assignment.
// Preconditions are checked in order, first failure wins:
//  1. parcel exists and is active (ErrParcelNotFound)
//  2. courier exists, is a COURIER and is active (ErrCourierNotFound)
//  3. courier is available (user.ErrCourierUnavailable)
//
// The previous courier, if any, is released in the same transaction.
// The courier row is written with a version check, so of two concurrent
// assignments of one courier exactly one commits and the other gets
// user.ErrCourierUnavailable.
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	dispatcher NotificationDispatcher
	policy     services.AccessPolicy
	assigner   services.CourierAssigner
}

// NewAssignCourierCommandHandler creates a handler for courier assignment operations.
// Requires a UoWFactory for coordinating transactional updates across repositories.
func NewAssignCourierCommandHandler(uowFactory UoWFactory, dispatcher NotificationDispatcher) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		policy:     services.NewAccessPolicy(),
		assigner:   services.NewCourierAssigner(),
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionAssignCourier, services.CollectionResource()); err != nil {
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

	if err = h.policy.Authorize(cmd.Actor(), services.ActionAssignCourier, services.ParcelResource(p)); err != nil {
		return nil, err
	}

	courier, err := userRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, notFoundAs(err, ErrCourierNotFound)
	}

	previous, err := h.previousCourier(ctx, userRepo, p, cmd)
	if err != nil {
		return nil, err
	}

	released, err := h.assigner.Assign(p, courier, previous, time.Now())
	if err != nil {
		return nil, err
	}

	if err = writeCouriers(ctx, userRepo, courier, released); err != nil {
		return nil, err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, staleAs(err, ErrStaleParcel)
	}

	senderID := p.SenderID()
	sender := lookupRecipients(ctx, userRepo, &senderID)

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	data := parcelData(p)
	notifications := []ports.Notification{notificationFor(ports.NotificationCourierAssigned, courier, data)}
	for _, s := range sender {
		notifications = append(notifications, notificationFor(ports.NotificationCourierAssignedSender, s, data))
	}
	h.dispatcher.Dispatch(ctx, notifications...)

	return p, nil
}

// writeCouriers stores the claimed courier and the released one in id order,
// so two swaps over the same pair of couriers lock the rows in the same order.
func writeCouriers(ctx context.Context, userRepo ports.UserRepository, claimed, released *user.User) error {
	claim := func() error {
		if err := userRepo.Update(ctx, claimed); err != nil {
			return staleAs(err, user.ErrCourierUnavailable)
		}
		return nil
	}
	release := func() error {
		if released == nil {
			return nil
		}
		return storageErr(userRepo.Update(ctx, released))
	}

	first, second := claim, release
	if released != nil && released.ID().Compare(claimed.ID()) < 0 {
		first, second = release, claim
	}
	if err := first(); err != nil {
		return err
	}
	return second()
}

// previousCourier loads the currently assigned courier so it can be released.
// A courier that can no longer be loaded has nothing to release.
func (h AssignCourierCommandHandler) previousCourier(
	ctx context.Context,
	userRepo ports.UserRepository,
	p *parcel.Parcel,
	cmd AssignCourierCommand,
) (*user.User, error) {
	id := p.AssignedCourierID()
	if id == nil || id.IsEqual(cmd.CourierID()) {
		return nil, nil
	}

	previous, err := userRepo.Get(ctx, *id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return previous, nil
}
