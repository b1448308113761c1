package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrDeleteParcelCommandIsNotConstructed = errors.New(
	"DeleteParcelCommand must be created via NewDeleteParcelCommand constructor",
)

type DeleteParcelCommand struct {
	actor    user.Actor
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteParcelCommand(actor user.Actor, parcelID kernel.UUID) (DeleteParcelCommand, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate()); err != nil {
		return DeleteParcelCommand{}, err
	}

	return DeleteParcelCommand{actor: actor, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteParcelCommand) Validate() error {
	return c.guard.Validate(ErrDeleteParcelCommandIsNotConstructed)
}

func (c DeleteParcelCommand) Actor() user.Actor {
	return c.actor
}

func (c DeleteParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}
