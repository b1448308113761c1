package parcel

import (
	"errors"
	"strings"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

const maxAddressLength = 500

var (
	ErrReceiverNameIsRequired  = errs.NewValueIsRequiredError("receiver name")
	ErrReceiverPhoneIsRequired = errs.NewValueIsRequiredError("receiver phone")
	ErrAddressIsRequired       = errs.NewValueIsRequiredError("address")

	ErrReceiverIsNotConstructed = errors.New("Receiver must be created via NewReceiver constructor")
	ErrAddressIsNotConstructed  = errors.New("Address must be created via NewAddress constructor")
)

// Receiver describes who gets the parcel. ID is set only when the receiver
// has an account; name and phone are always required for the hand-over.
type Receiver struct {
	id    *kernel.UUID
	name  string
	phone string
	guard guard.ConstructorGuard
}

func NewReceiver(id *kernel.UUID, name, phone string) (Receiver, error) {
	r := Receiver{
		name:  strings.TrimSpace(name),
		phone: strings.TrimSpace(phone),
		guard: guard.NewConstructorGuard(),
	}

	var idErr error
	if id != nil {
		if idErr = id.Validate(); idErr == nil {
			copied := *id
			r.id = &copied
		}
	}

	var nameErr, phoneErr error
	if r.name == "" {
		nameErr = ErrReceiverNameIsRequired
	}
	if r.phone == "" {
		phoneErr = ErrReceiverPhoneIsRequired
	}

	if err := errors.Join(idErr, nameErr, phoneErr); err != nil {
		return Receiver{}, err
	}
	return r, nil
}

func (r Receiver) Validate() error {
	return r.guard.Validate(ErrReceiverIsNotConstructed)
}

// ID returns the registered receiver's user id, or nil.
func (r Receiver) ID() *kernel.UUID {
	if r.id == nil {
		return nil
	}
	id := *r.id
	return &id
}

func (r Receiver) IsRegistered() bool {
	return r.id != nil
}

func (r Receiver) Name() string {
	return r.name
}

func (r Receiver) Phone() string {
	return r.phone
}

// Address is free text paired with the coordinates it resolved to.
type Address struct {
	text  string
	point kernel.GeoPoint
	guard guard.ConstructorGuard
}

func NewAddress(text string, point kernel.GeoPoint) (Address, error) {
	text = strings.TrimSpace(text)

	if err := errors.Join(ValidateAddressText(text), point.Validate()); err != nil {
		return Address{}, err
	}
	return Address{text: text, point: point, guard: guard.NewConstructorGuard()}, nil
}

// ValidateAddressText checks free text before it is sent to a geocoder.
func ValidateAddressText(text string) error {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return ErrAddressIsRequired
	case len(text) > maxAddressLength:
		return errs.NewValueIsOutOfRangeError("address length", len(text), 1, maxAddressLength)
	}
	return nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Text() string {
	return a.text
}

func (a Address) Point() kernel.GeoPoint {
	return a.point
}

// SameText reports whether text matches this address after trimming, i.e.
// whether re-geocoding can be skipped.
func (a Address) SameText(text string) bool {
	return a.text == strings.TrimSpace(text)
}
