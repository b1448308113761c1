package commands

import (
	"errors"
	"strings"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

var (
	ErrUpdateParcelCommandIsNotConstructed = errors.New(
		"UpdateParcelCommand must be created via NewUpdateParcelCommand constructor",
	)
	ErrEmptyParcelPatch = errs.NewValueIsRequiredError("at least one field to update")
)

// ParcelPatch lists the admin-editable fields. Nil fields are left as they are.
type ParcelPatch struct {
	ReceiverName  *string
	ReceiverPhone *string
	PickupAddress *string
	Destination   *string
	Weight        *string
}

// UpdateParcelCommand is an admin edit of a parcel's details. Status and
// courier have their own commands.
type UpdateParcelCommand struct {
	actor    user.Actor
	parcelID kernel.UUID

	receiverName  *string
	receiverPhone *string
	pickupAddress *string
	destination   *string
	weight        *parcel.WeightCategory

	guard guard.ConstructorGuard
}

func NewUpdateParcelCommand(actor user.Actor, parcelID kernel.UUID, patch ParcelPatch) (UpdateParcelCommand, error) {
	cmd := UpdateParcelCommand{
		actor:    actor,
		parcelID: parcelID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		parcelID.Validate(),
		cmd.setReceiver(patch.ReceiverName, patch.ReceiverPhone),
		cmd.setPickupAddress(patch.PickupAddress),
		cmd.setDestination(patch.Destination),
		cmd.setWeight(patch.Weight),
	); err != nil {
		return UpdateParcelCommand{}, err
	}

	if cmd.IsEmpty() {
		return UpdateParcelCommand{}, ErrEmptyParcelPatch
	}

	return cmd, nil
}

func (c UpdateParcelCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelCommandIsNotConstructed)
}

func (c UpdateParcelCommand) Actor() user.Actor {
	return c.actor
}

func (c UpdateParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c UpdateParcelCommand) ReceiverName() (string, bool) {
	return deref(c.receiverName)
}

func (c UpdateParcelCommand) ReceiverPhone() (string, bool) {
	return deref(c.receiverPhone)
}

func (c UpdateParcelCommand) PickupAddress() (string, bool) {
	return deref(c.pickupAddress)
}

func (c UpdateParcelCommand) Destination() (string, bool) {
	return deref(c.destination)
}

func (c UpdateParcelCommand) Weight() (parcel.WeightCategory, bool) {
	if c.weight == nil {
		return parcel.WeightUnknown, false
	}
	return *c.weight, true
}

func (c UpdateParcelCommand) IsEmpty() bool {
	return c.receiverName == nil && c.receiverPhone == nil &&
		c.pickupAddress == nil && c.destination == nil && c.weight == nil
}

func (c *UpdateParcelCommand) setReceiver(name, phone *string) error {
	var nameErr, phoneErr error
	if name != nil {
		if v := strings.TrimSpace(*name); v == "" {
			nameErr = parcel.ErrReceiverNameIsRequired
		} else {
			c.receiverName = &v
		}
	}
	if phone != nil {
		if v := strings.TrimSpace(*phone); v == "" {
			phoneErr = parcel.ErrReceiverPhoneIsRequired
		} else {
			c.receiverPhone = &v
		}
	}
	return errors.Join(nameErr, phoneErr)
}

func (c *UpdateParcelCommand) setPickupAddress(text *string) error {
	if text == nil {
		return nil
	}
	if err := parcel.ValidateAddressText(*text); err != nil {
		return err
	}
	v := strings.TrimSpace(*text)
	c.pickupAddress = &v
	return nil
}

func (c *UpdateParcelCommand) setDestination(text *string) error {
	if text == nil {
		return nil
	}
	if err := parcel.ValidateAddressText(*text); err != nil {
		return err
	}
	v := strings.TrimSpace(*text)
	c.destination = &v
	return nil
}

func (c *UpdateParcelCommand) setWeight(weight *string) error {
	if weight == nil {
		return nil
	}
	w, err := parcel.ParseWeightCategory(*weight)
	if err != nil {
		return err
	}
	c.weight = &w
	return nil
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
