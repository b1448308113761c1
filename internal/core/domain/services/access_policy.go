package services

import (
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
)

// Action is an operation an actor asks to perform.
type Action int

const (
	ActionUnknown Action = iota
	ActionCreateParcel
	ActionReadParcel
	ActionListParcels
	ActionUpdateParcel
	ActionTransitionParcelStatus
	ActionAssignCourier
	ActionDeleteParcel
	ActionListCouriers
	ActionManageUsers
	ActionManageCourierProfile
)

var actionNames = map[Action]string{
	ActionCreateParcel:           "create parcel",
	ActionReadParcel:             "read parcel",
	ActionListParcels:            "list parcels",
	ActionUpdateParcel:           "update parcel",
	ActionTransitionParcelStatus: "transition parcel status",
	ActionAssignCourier:          "assign courier",
	ActionDeleteParcel:           "delete parcel",
	ActionListCouriers:           "list couriers",
	ActionManageUsers:            "manage users",
	ActionManageCourierProfile:   "manage courier profile",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown action"
}

// ErrResourceIsDeleted is returned for any action on a soft-deleted resource.
// It reads as not found so deleted records stay invisible.
var ErrResourceIsDeleted = errs.NewObjectNotFoundError("resource", nil)

// Resource carries the ownership facts a decision needs.
type Resource struct {
	SenderID          kernel.UUID
	ReceiverID        *kernel.UUID
	AssignedCourierID *kernel.UUID
	OwnerID           *kernel.UUID
	Active            bool
}

// ParcelResource describes p for the policy.
func ParcelResource(p *parcel.Parcel) Resource {
	return Resource{
		SenderID:          p.SenderID(),
		ReceiverID:        p.Receiver().ID(),
		AssignedCourierID: p.AssignedCourierID(),
		Active:            p.IsActive(),
	}
}

// UserResource describes an account managed by an admin.
func UserResource(u *user.User) Resource {
	return Resource{Active: u.IsActive()}
}

// CourierProfileResource describes the profile of the courier with id.
func CourierProfileResource(id kernel.UUID) Resource {
	return Resource{OwnerID: &id, Active: true}
}

// CollectionResource stands for actions that do not target one record yet,
// such as creating a parcel or listing couriers.
func CollectionResource() Resource {
	return Resource{Active: true}
}

func (r Resource) isSender(id kernel.UUID) bool {
	return r.SenderID.IsEqual(id)
}

func (r Resource) isReceiver(id kernel.UUID) bool {
	return r.ReceiverID != nil && r.ReceiverID.IsEqual(id)
}

func (r Resource) isAssignedCourier(id kernel.UUID) bool {
	return r.AssignedCourierID != nil && r.AssignedCourierID.IsEqual(id)
}

func (r Resource) isOwner(id kernel.UUID) bool {
	return r.OwnerID != nil && r.OwnerID.IsEqual(id)
}

// AccessPolicy decides which actor may perform which action. It holds no
// state and performs no I/O.
//
// Rules:
//   - nobody acts on a deleted resource
//   - ADMIN may do anything
//   - CUSTOMER may read parcels they send or receive
//   - COURIER may read and move the status of parcels assigned to them
//   - COURIER may read and edit their own profile
//   - every role may list parcels; the listing is scoped by role
type AccessPolicy struct{}

func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// CanPerform reports whether actor may perform action on resource.
func (AccessPolicy) CanPerform(actor user.Actor, action Action, resource Resource) bool {
	if actor.Validate() != nil || !resource.Active {
		return false
	}
	if actor.IsAdmin() {
		return action != ActionUnknown
	}

	switch action {
	case ActionListParcels:
		return true
	case ActionReadParcel:
		switch actor.Role() {
		case user.RoleCustomer:
			return resource.isSender(actor.ID()) || resource.isReceiver(actor.ID())
		case user.RoleCourier:
			return resource.isAssignedCourier(actor.ID())
		}
	case ActionTransitionParcelStatus:
		return actor.IsCourier() && resource.isAssignedCourier(actor.ID())
	case ActionManageCourierProfile:
		return actor.IsCourier() && resource.isOwner(actor.ID())
	}
	return false
}

// Authorize is CanPerform with the reason for a denial. A courier moving a
// parcel assigned to someone else gets parcel.ErrNotAssignedCourier.
func (p AccessPolicy) Authorize(actor user.Actor, action Action, resource Resource) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !resource.Active {
		return ErrResourceIsDeleted
	}
	if p.CanPerform(actor, action, resource) {
		return nil
	}

	if action == ActionTransitionParcelStatus && actor.IsCourier() {
		return parcel.ErrNotAssignedCourier
	}

	reason := "requires ADMIN"
	switch action {
	case ActionReadParcel:
		reason = "actor is not a party to this parcel"
	case ActionManageCourierProfile:
		reason = "couriers may only manage their own profile"
	}
	return errs.NewAccessDeniedError(action.String(), reason)
}
