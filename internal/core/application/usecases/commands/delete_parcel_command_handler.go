package commands

import (
	"context"
	"errors"
	"time"

	"sendit/internal/core/domain/services"
	"sendit/internal/pkg/errs"
)

// DeleteParcelCommandHandler soft-deletes a parcel. A courier still holding
// the parcel while it was open is made available again in the same
// transaction.
type DeleteParcelCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
}

func NewDeleteParcelCommandHandler(uowFactory UoWFactory) DeleteParcelCommandHandler {
	return DeleteParcelCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
	}
}

func (h DeleteParcelCommandHandler) Handle(ctx context.Context, cmd DeleteParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionDeleteParcel, services.CollectionResource()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	parcelRepo := uow.ParcelRepository()

	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return notFoundAs(err, ErrParcelNotFound)
	}

	if err = h.policy.Authorize(cmd.Actor(), services.ActionDeleteParcel, services.ParcelResource(p)); err != nil {
		return err
	}

	wasOpen := p.Status().IsOpen()
	if err = p.SoftDelete(time.Now()); err != nil {
		return err
	}

	if courierID := p.AssignedCourierID(); courierID != nil && wasOpen {
		courier, err := userRepo.Get(ctx, *courierID)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
		case err != nil:
			return storageErr(err)
		case courier.IsCourier():
			if err = courier.MarkAvailable(); err != nil {
				return err
			}
			if err = userRepo.Update(ctx, courier); err != nil {
				return storageErr(err)
			}
		}
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return staleAs(err, ErrStaleParcel)
	}

	return storageErr(uow.Commit(ctx))
}
