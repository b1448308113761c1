package parcel

import (
	"errors"
	"fmt"
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

var (
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

	// ErrNotAssignedCourier is returned when a courier touches a parcel that
	// is not assigned to them, whatever the requested target.
	ErrNotAssignedCourier = errs.NewAccessDeniedError(
		"transition parcel status", "courier is not assigned to this parcel")

	// ErrTransitionRequiresAdmin is returned when a courier takes an edge
	// reserved for admins (reactivating a cancelled parcel).
	ErrTransitionRequiresAdmin = errs.NewAccessDeniedError(
		"transition parcel status", "transition is reserved for admins")

	ErrParcelIsDeleted        = errs.NewConflictError("parcel is deleted")
	ErrParcelAlreadyDelivered = errs.NewConflictError("delivered parcel cannot be reassigned")
	ErrSenderIsRequired       = errs.NewValueIsRequiredError("sender id")
)

// Parcel is the aggregate root of a shipment.
//
// Invariants:
//   - status changes only through TransitionStatus
//   - pickup and destination always carry resolved coordinates
//   - assignedCourierID, when set, was validated by the assignment flow
//   - deleted parcels reject every mutation
type Parcel struct {
	id                kernel.UUID
	senderID          kernel.UUID
	receiver          Receiver
	pickup            Address
	destination       Address
	weight            WeightCategory
	assignedCourierID *kernel.UUID
	status            Status
	createdAt         time.Time
	updatedAt         time.Time
	lifecycle         kernel.Lifecycle
	version           int
	guard             guard.ConstructorGuard
}

// NewParcel creates a PENDING, unassigned parcel.
//
//	p, err := parcel.NewParcel(kernel.NewUUID(), senderID, receiver, pickup, destination, parcel.WeightLight, time.Now())
func NewParcel(
	id kernel.UUID,
	senderID kernel.UUID,
	receiver Receiver,
	pickup Address,
	destination Address,
	weight WeightCategory,
	now time.Time,
) (*Parcel, error) {
	now = now.UTC()
	p := &Parcel{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		lifecycle: kernel.Active(),
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setSenderID(senderID),
		p.setReceiver(receiver),
		p.setPickup(pickup),
		p.setDestination(destination),
		p.setWeight(weight),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Snapshot is the persisted state of a Parcel.
type Snapshot struct {
	ID                kernel.UUID
	SenderID          kernel.UUID
	Receiver          Receiver
	Pickup            Address
	Destination       Address
	Weight            WeightCategory
	AssignedCourierID *kernel.UUID
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Lifecycle         kernel.Lifecycle
	Version           int
}

// RestoreParcel rebuilds a Parcel from storage without replaying transitions.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		createdAt: s.CreatedAt.UTC(),
		updatedAt: s.UpdatedAt.UTC(),
		lifecycle: s.Lifecycle,
		guard:     guard.NewConstructorGuard(),
	}

	var statusErr error
	if statusErr = s.Status.Validate(); statusErr == nil {
		p.status = s.Status
	}

	var versionErr error
	if s.Version < 1 {
		versionErr = errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is less than 1", s.Version))
	}
	p.version = s.Version

	if err := errors.Join(
		p.setID(s.ID),
		p.setSenderID(s.SenderID),
		p.setReceiver(s.Receiver),
		p.setPickup(s.Pickup),
		p.setDestination(s.Destination),
		p.setWeight(s.Weight),
		p.setAssignedCourierID(s.AssignedCourierID),
		statusErr,
		versionErr,
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Parcel) ID() kernel.UUID {
	return p.id
}

func (p *Parcel) SenderID() kernel.UUID {
	return p.senderID
}

func (p *Parcel) Receiver() Receiver {
	return p.receiver
}

func (p *Parcel) Pickup() Address {
	return p.pickup
}

func (p *Parcel) Destination() Address {
	return p.destination
}

func (p *Parcel) Weight() WeightCategory {
	return p.weight
}

// AssignedCourierID returns the assigned courier, or nil.
func (p *Parcel) AssignedCourierID() *kernel.UUID {
	if p.assignedCourierID == nil {
		return nil
	}
	id := *p.assignedCourierID
	return &id
}

// IsAssignedTo reports whether courierID is the assigned courier.
func (p *Parcel) IsAssignedTo(courierID kernel.UUID) bool {
	return p.assignedCourierID != nil && p.assignedCourierID.IsEqual(courierID)
}

func (p *Parcel) Status() Status {
	return p.status
}

func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Parcel) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Parcel) Lifecycle() kernel.Lifecycle {
	return p.lifecycle
}

func (p *Parcel) IsActive() bool {
	return p.lifecycle.IsActive()
}

func (p *Parcel) Version() int {
	return p.version
}

// AdvanceVersion is called by repositories once a conditional write on the
// current version succeeded.
func (p *Parcel) AdvanceVersion() {
	p.version++
}

func (p *Parcel) Snapshot() Snapshot {
	return Snapshot{
		ID:                p.id,
		SenderID:          p.senderID,
		Receiver:          p.receiver,
		Pickup:            p.pickup,
		Destination:       p.destination,
		Weight:            p.weight,
		AssignedCourierID: p.AssignedCourierID(),
		Status:            p.status,
		CreatedAt:         p.createdAt,
		UpdatedAt:         p.updatedAt,
		Lifecycle:         p.lifecycle,
		Version:           p.version,
	}
}

// TransitionStatus moves the parcel along the state machine on behalf of
// actor. Checks run in this order:
//  1. a courier that is not the assigned courier gets ErrNotAssignedCourier
//  2. the table check gives IllegalStatusTransitionError
//  3. an admin-only edge taken by a non-admin gets ErrTransitionRequiresAdmin
//
// Customers never move parcels and get an AccessDeniedError.
func (p *Parcel) TransitionStatus(actor user.Actor, to Status, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !p.IsActive() {
		return ErrParcelIsDeleted
	}

	switch actor.Role() {
	case user.RoleAdmin:
	case user.RoleCourier:
		if !p.IsAssignedTo(actor.ID()) {
			return ErrNotAssignedCourier
		}
	default:
		return errs.NewAccessDeniedError("transition parcel status", "only admins and the assigned courier may")
	}

	next, err := p.status.TransitionTo(to)
	if err != nil {
		return err
	}
	if p.status.RequiresAdmin(to) && !actor.IsAdmin() {
		return ErrTransitionRequiresAdmin
	}

	p.status = next
	p.touch(now)
	return nil
}

// AssignCourier links the parcel to courierID and returns the previously
// assigned courier, if any, so the caller can release them. Status is left
// unchanged. The caller is responsible for checking that courierID is an
// available COURIER.
func (p *Parcel) AssignCourier(courierID kernel.UUID, now time.Time) (*kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrParcelIsDeleted
	}
	if p.status.IsTerminal() {
		return nil, ErrParcelAlreadyDelivered
	}

	previous := p.AssignedCourierID()
	p.assignedCourierID = &courierID
	p.touch(now)
	return previous, nil
}

// UpdateReceiver replaces the receiver's contact details. The registered
// receiver id is kept.
func (p *Parcel) UpdateReceiver(name, phone string, now time.Time) error {
	if !p.IsActive() {
		return ErrParcelIsDeleted
	}

	receiver, err := NewReceiver(p.receiver.ID(), name, phone)
	if err != nil {
		return err
	}

	p.receiver = receiver
	p.touch(now)
	return nil
}

// ChangePickup replaces the pickup address with a freshly resolved one.
func (p *Parcel) ChangePickup(address Address, now time.Time) error {
	if !p.IsActive() {
		return ErrParcelIsDeleted
	}
	if err := p.setPickup(address); err != nil {
		return err
	}

	p.touch(now)
	return nil
}

// ChangeDestination replaces the destination with a freshly resolved one.
func (p *Parcel) ChangeDestination(address Address, now time.Time) error {
	if !p.IsActive() {
		return ErrParcelIsDeleted
	}
	if err := p.setDestination(address); err != nil {
		return err
	}

	p.touch(now)
	return nil
}

func (p *Parcel) ChangeWeight(weight WeightCategory, now time.Time) error {
	if !p.IsActive() {
		return ErrParcelIsDeleted
	}
	if err := p.setWeight(weight); err != nil {
		return err
	}

	p.touch(now)
	return nil
}

// SoftDelete hides the parcel from every read and update path.
func (p *Parcel) SoftDelete(now time.Time) error {
	lifecycle, err := p.lifecycle.Delete(now)
	if err != nil {
		return ErrParcelIsDeleted
	}

	p.lifecycle = lifecycle
	p.touch(now)
	return nil
}

func (p *Parcel) touch(now time.Time) {
	p.updatedAt = now.UTC()
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setSenderID(id kernel.UUID) error {
	if id.Validate() != nil {
		return ErrSenderIsRequired
	}
	p.senderID = id
	return nil
}

func (p *Parcel) setReceiver(receiver Receiver) error {
	if err := receiver.Validate(); err != nil {
		return err
	}
	p.receiver = receiver
	return nil
}

func (p *Parcel) setPickup(address Address) error {
	if err := address.Validate(); err != nil {
		return fmt.Errorf("pickup: %w", err)
	}
	p.pickup = address
	return nil
}

func (p *Parcel) setDestination(address Address) error {
	if err := address.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	p.destination = address
	return nil
}

func (p *Parcel) setWeight(weight WeightCategory) error {
	if err := weight.Validate(); err != nil {
		return err
	}
	p.weight = weight
	return nil
}

func (p *Parcel) setAssignedCourierID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	copied := *id
	p.assignedCourierID = &copied
	return nil
}
