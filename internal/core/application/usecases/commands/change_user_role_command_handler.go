package commands

import (
	"context"

	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
)

// ChangeUserRoleCommandHandler rejects any change to or from COURIER with
// user.ErrCourierRoleIsImmutable.
type ChangeUserRoleCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
}

func NewChangeUserRoleCommandHandler(uowFactory UserUoWFactory) ChangeUserRoleCommandHandler {
	return ChangeUserRoleCommandHandler{uowFactory: uowFactory, policy: services.NewAccessPolicy()}
}

func (h ChangeUserRoleCommandHandler) Handle(ctx context.Context, cmd ChangeUserRoleCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionManageUsers, services.CollectionResource()); err != nil {
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

	u, err := userRepo.Get(ctx, cmd.UserID())
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	if err = u.ChangeRole(cmd.Role()); err != nil {
		return nil, err
	}

	if err = userRepo.Update(ctx, u); err != nil {
		return nil, storageErr(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	return u, nil
}
