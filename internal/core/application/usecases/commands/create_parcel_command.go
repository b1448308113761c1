package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// ReceiverInput describes who gets the parcel. ID is set only for receivers
// with an account.
type ReceiverInput struct {
	ID    *kernel.UUID
	Name  string
	Phone string
}

// CreateParcelCommand represents an admin registering a new shipment.
// Every field is validated here, before geocoding or storage is touched.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(actor, kernel.NewUUID(), senderID,
//	    ReceiverInput{Name: "Amina", Phone: "+254722000000"},
//	    "Kenyatta Avenue, Nairobi", "Moi Avenue, Mombasa", "LIGHT", nil)
//	if err != nil {
//	    return fmt.Errorf("invalid parcel data: %w", err)
//	}
//	p, err := handler.Handle(ctx, cmd)
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	actor         user.Actor
	parcelID      kernel.UUID
	senderID      kernel.UUID
	receiver      parcel.Receiver
	pickupAddress string
	destination   string
	weight        parcel.WeightCategory
	courierID     *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand validates and builds the command. courierID is
// optional; when given, the courier is assigned in the same transaction.
func NewCreateParcelCommand(
	actor user.Actor,
	parcelID kernel.UUID,
	senderID kernel.UUID,
	receiver ReceiverInput,
	pickupAddress string,
	destination string,
	weight string,
	courierID *kernel.UUID,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setParcelID(parcelID),
		cmd.setSenderID(senderID),
		cmd.setReceiver(receiver),
		cmd.setPickupAddress(pickupAddress),
		cmd.setDestination(destination),
		cmd.setWeight(weight),
		cmd.setCourierID(courierID),
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return cmd, nil
}

func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) Actor() user.Actor {
	return c.actor
}

func (c CreateParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c CreateParcelCommand) SenderID() kernel.UUID {
	return c.senderID
}

func (c CreateParcelCommand) Receiver() parcel.Receiver {
	return c.receiver
}

func (c CreateParcelCommand) PickupAddress() string {
	return c.pickupAddress
}

func (c CreateParcelCommand) Destination() string {
	return c.destination
}

func (c CreateParcelCommand) Weight() parcel.WeightCategory {
	return c.weight
}

// CourierID returns the courier to assign at creation, or nil.
func (c CreateParcelCommand) CourierID() *kernel.UUID {
	if c.courierID == nil {
		return nil
	}
	id := *c.courierID
	return &id
}

func (c *CreateParcelCommand) setActor(actor user.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateParcelCommand) setParcelID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.parcelID = id
	return nil
}

func (c *CreateParcelCommand) setSenderID(id kernel.UUID) error {
	if id.Validate() != nil {
		return parcel.ErrSenderIsRequired
	}
	c.senderID = id
	return nil
}

func (c *CreateParcelCommand) setReceiver(in ReceiverInput) error {
	receiver, err := parcel.NewReceiver(in.ID, in.Name, in.Phone)
	if err != nil {
		return err
	}
	c.receiver = receiver
	return nil
}

func (c *CreateParcelCommand) setPickupAddress(text string) error {
	if err := parcel.ValidateAddressText(text); err != nil {
		return err
	}
	c.pickupAddress = text
	return nil
}

func (c *CreateParcelCommand) setDestination(text string) error {
	if err := parcel.ValidateAddressText(text); err != nil {
		return err
	}
	c.destination = text
	return nil
}

func (c *CreateParcelCommand) setWeight(weight string) error {
	w, err := parcel.ParseWeightCategory(weight)
	if err != nil {
		return err
	}
	c.weight = w
	return nil
}

func (c *CreateParcelCommand) setCourierID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	copied := *id
	c.courierID = &copied
	return nil
}
