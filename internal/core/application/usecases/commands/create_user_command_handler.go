package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// CreateUserCommandHandler stores a new account with a bcrypt password hash.
// Couriers start available. Emails are unique, compared case-insensitively.
type CreateUserCommandHandler struct {
	uowFactory UserUoWFactory
	dispatcher NotificationDispatcher
	hashCost   int
	policy     services.AccessPolicy
}

// NewCreateUserCommandHandler uses bcrypt.DefaultCost when hashCost is
// outside the range bcrypt accepts.
func NewCreateUserCommandHandler(
	uowFactory UserUoWFactory,
	dispatcher NotificationDispatcher,
	hashCost int,
) CreateUserCommandHandler {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}

	return CreateUserCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		hashCost:   hashCost,
		policy:     services.NewAccessPolicy(),
	}
}

func (h CreateUserCommandHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.ActionManageUsers, services.CollectionResource()); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password()), h.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.NewUser(cmd.UserID(), cmd.Name(), cmd.Email(), cmd.Phone(), string(hash), cmd.Role(), time.Now())
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

	_, err = userRepo.GetByEmail(ctx, u.Email())
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, storageErr(err)
	}

	if err = userRepo.Add(ctx, u); err != nil {
		// Lost a race with a concurrent insert of the same email.
		if errors.Is(err, errs.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	h.dispatcher.Dispatch(ctx, notificationFor(ports.NotificationWelcome, u, map[string]string{
		"user_id": u.ID().String(),
		"role":    u.Role().String(),
	}))

	return u, nil
}
