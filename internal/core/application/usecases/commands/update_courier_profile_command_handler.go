package commands

import (
	"context"

	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
)

// UpdateCourierProfileCommandHandler lets a courier edit their own contact
// details and report a position. Availability is never touched here; it
// belongs to assignment and the idle release.
type UpdateCourierProfileCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
}

func NewUpdateCourierProfileCommandHandler(uowFactory UserUoWFactory) UpdateCourierProfileCommandHandler {
	return UpdateCourierProfileCommandHandler{uowFactory: uowFactory, policy: services.NewAccessPolicy()}
}

func (h UpdateCourierProfileCommandHandler) Handle(ctx context.Context, cmd UpdateCourierProfileCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	resource := services.CourierProfileResource(cmd.CourierID())
	if err := h.policy.Authorize(cmd.Actor(), services.ActionManageCourierProfile, resource); err != nil {
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

	courier, err := userRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, notFoundAs(err, ErrCourierNotFound)
	}
	if !courier.IsCourier() {
		return nil, ErrCourierNotFound
	}

	name, nameSet := cmd.Name()
	phone, phoneSet := cmd.Phone()
	if nameSet || phoneSet {
		if !nameSet {
			name = courier.Name()
		}
		if !phoneSet {
			phone = courier.Phone()
		}
		if err = courier.ChangeContactDetails(name, phone); err != nil {
			return nil, err
		}
	}

	if location, ok := cmd.Location(); ok {
		if err = courier.UpdateLocation(location); err != nil {
			return nil, err
		}
	}

	if err = userRepo.Update(ctx, courier); err != nil {
		return nil, staleAs(err, ErrStaleUser)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	return courier, nil
}
