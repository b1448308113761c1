package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand links a parcel to an available courier.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(admin, parcelID, courierID)
//	if err != nil {
//	    return err
//	}
//	p, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, user.ErrCourierUnavailable) {
//	    log.Printf("courier %s is busy", courierID)
//	}
type AssignCourierCommand struct {
	actor     user.Actor
	parcelID  kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(actor user.Actor, parcelID, courierID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		actor:     actor,
		parcelID:  parcelID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCourierCommandIsNotConstructed if validation fails.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) Actor() user.Actor {
	return c.actor
}

func (c AssignCourierCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
