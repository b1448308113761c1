package commands

import (
	"context"
	"time"

	"sendit/internal/core/domain/services"
)

// DeleteUserCommandHandler soft-deletes an account. Deleted couriers stop
// being available; parcels keep their references for history.
type DeleteUserCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
}

func NewDeleteUserCommandHandler(uowFactory UserUoWFactory) DeleteUserCommandHandler {
	return DeleteUserCommandHandler{uowFactory: uowFactory, policy: services.NewAccessPolicy()}
}

func (h DeleteUserCommandHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionManageUsers, services.CollectionResource()); err != nil {
		return err
	}

	if cmd.Actor().Is(cmd.UserID()) {
		return ErrCannotDeleteSelf
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageErr(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()

	u, err := userRepo.Get(ctx, cmd.UserID())
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}

	if err = u.SoftDelete(time.Now()); err != nil {
		return err
	}

	if err = userRepo.Update(ctx, u); err != nil {
		return storageErr(err)
	}

	return storageErr(uow.Commit(ctx))
}
