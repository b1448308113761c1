package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrTransitionParcelStatusCommandIsNotConstructed = errors.New(
	"TransitionParcelStatusCommand must be created via NewTransitionParcelStatusCommand constructor",
)

// TransitionParcelStatusCommand moves a parcel to the target status on
// behalf of an admin or the assigned courier.
type TransitionParcelStatusCommand struct {
	actor    user.Actor
	parcelID kernel.UUID
	target   parcel.Status

	guard guard.ConstructorGuard
}

// NewTransitionParcelStatusCommand parses target (PENDING, IN_TRANSIT,
// DELIVERED, CANCELLED). Whether the move is legal is decided by the handler.
func NewTransitionParcelStatusCommand(
	actor user.Actor,
	parcelID kernel.UUID,
	target string,
) (TransitionParcelStatusCommand, error) {
	status, statusErr := parcel.ParseStatus(target)
	if err := errors.Join(actor.Validate(), parcelID.Validate(), statusErr); err != nil {
		return TransitionParcelStatusCommand{}, err
	}

	return TransitionParcelStatusCommand{
		actor:    actor,
		parcelID: parcelID,
		target:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionParcelStatusCommandIsNotConstructed)
}

func (c TransitionParcelStatusCommand) Actor() user.Actor {
	return c.actor
}

func (c TransitionParcelStatusCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c TransitionParcelStatusCommand) Target() parcel.Status {
	return c.target
}
