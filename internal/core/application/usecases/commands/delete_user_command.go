package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrDeleteUserCommandIsNotConstructed = errors.New(
	"DeleteUserCommand must be created via NewDeleteUserCommand constructor",
)

type DeleteUserCommand struct {
	actor  user.Actor
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteUserCommand(actor user.Actor, userID kernel.UUID) (DeleteUserCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate()); err != nil {
		return DeleteUserCommand{}, err
	}

	return DeleteUserCommand{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteUserCommand) Validate() error {
	return c.guard.Validate(ErrDeleteUserCommandIsNotConstructed)
}

func (c DeleteUserCommand) Actor() user.Actor { return c.actor }

func (c DeleteUserCommand) UserID() kernel.UUID { return c.userID }
