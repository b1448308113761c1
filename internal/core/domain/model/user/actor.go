package user

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned for a zero-value Actor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of a use case. It is built by the
// inbound adapter from verified credentials and never looked up ambiently.
type Actor struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}

	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsCourier() bool {
	return a.role == RoleCourier
}

func (a Actor) IsCustomer() bool {
	return a.role == RoleCustomer
}

// Is reports whether the actor is the user identified by id.
func (a Actor) Is(id kernel.UUID) bool {
	return a.id.IsEqual(id)
}
