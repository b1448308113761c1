package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

var (
	ErrUpdateCourierProfileCommandIsNotConstructed = errors.New(
		"UpdateCourierProfileCommand must be created via NewUpdateCourierProfileCommand constructor",
	)
	ErrEmptyCourierProfilePatch = errs.NewValueIsRequiredError("at least one profile field to update")
)

// CourierProfilePatch lists the fields a courier may edit on their own
// profile. Nil fields are left as they are.
type CourierProfilePatch struct {
	Name     *string
	Phone    *string
	Location *kernel.GeoPoint
}

// UpdateCourierProfileCommand changes a courier's contact details or
// reported position.
type UpdateCourierProfileCommand struct {
	actor     user.Actor
	courierID kernel.UUID

	name     *string
	phone    *string
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateCourierProfileCommand(
	actor user.Actor,
	courierID kernel.UUID,
	patch CourierProfilePatch,
) (UpdateCourierProfileCommand, error) {
	var locationErr error
	if patch.Location != nil {
		locationErr = patch.Location.Validate()
	}
	if err := errors.Join(actor.Validate(), courierID.Validate(), locationErr); err != nil {
		return UpdateCourierProfileCommand{}, err
	}
	if patch.Name == nil && patch.Phone == nil && patch.Location == nil {
		return UpdateCourierProfileCommand{}, ErrEmptyCourierProfilePatch
	}

	cmd := UpdateCourierProfileCommand{
		actor:     actor,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}
	if patch.Name != nil {
		name := *patch.Name
		cmd.name = &name
	}
	if patch.Phone != nil {
		phone := *patch.Phone
		cmd.phone = &phone
	}
	if patch.Location != nil {
		location := *patch.Location
		cmd.location = &location
	}
	return cmd, nil
}

func (c UpdateCourierProfileCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierProfileCommandIsNotConstructed)
}

func (c UpdateCourierProfileCommand) Actor() user.Actor { return c.actor }

func (c UpdateCourierProfileCommand) CourierID() kernel.UUID { return c.courierID }

func (c UpdateCourierProfileCommand) Name() (string, bool) { return deref(c.name) }

func (c UpdateCourierProfileCommand) Phone() (string, bool) { return deref(c.phone) }

func (c UpdateCourierProfileCommand) Location() (kernel.GeoPoint, bool) {
	if c.location == nil {
		return kernel.GeoPoint{}, false
	}
	return *c.location, true
}
