package commands

import (
	"context"
	"errors"

	"sendit/internal/pkg/errs"
)

// ReleaseIdleCouriersCommandHandler reconciles courier availability after
// deliveries and cancellations. A courier whose row changed meanwhile is
// skipped and picked up by the next run.
type ReleaseIdleCouriersCommandHandler struct {
	uowFactory UoWFactory
}

func NewReleaseIdleCouriersCommandHandler(uowFactory UoWFactory) ReleaseIdleCouriersCommandHandler {
	return ReleaseIdleCouriersCommandHandler{uowFactory: uowFactory}
}

// Handle returns how many couriers were made available.
func (h ReleaseIdleCouriersCommandHandler) Handle(ctx context.Context, cmd ReleaseIdleCouriersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	parcelRepo := uow.ParcelRepository()

	couriers, err := userRepo.ListUnavailableCouriers(ctx)
	if err != nil {
		return 0, storageErr(err)
	}

	released := 0
	for _, courier := range couriers {
		open, err := parcelRepo.CountOpenByCourier(ctx, courier.ID())
		if err != nil {
			return 0, storageErr(err)
		}
		if open > 0 {
			continue
		}

		if err = courier.MarkAvailable(); err != nil {
			return 0, err
		}

		err = userRepo.Update(ctx, courier)
		if errors.Is(err, errs.ErrStaleObject) {
			continue
		}
		if err != nil {
			return 0, storageErr(err)
		}
		released++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, storageErr(err)
	}

	return released, nil
}
