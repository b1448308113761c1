package queries

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrGetCourierProfileQueryIsNotConstructed = errors.New(
	"GetCourierProfileQuery must be created via NewGetCourierProfileQuery constructor",
)

// GetCourierProfileQuery reads one courier's profile. Couriers may only read
// their own; admins may read any.
type GetCourierProfileQuery struct {
	actor     user.Actor
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierProfileQuery(actor user.Actor, courierID kernel.UUID) (GetCourierProfileQuery, error) {
	if err := errors.Join(actor.Validate(), courierID.Validate()); err != nil {
		return GetCourierProfileQuery{}, err
	}

	return GetCourierProfileQuery{actor: actor, courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierProfileQueryIsNotConstructed)
}

func (q GetCourierProfileQuery) Actor() user.Actor {
	return q.actor
}

func (q GetCourierProfileQuery) CourierID() kernel.UUID {
	return q.courierID
}
