package queries

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrGetParcelQueryIsNotConstructed = errors.New(
	"GetParcelQuery must be created via NewGetParcelQuery constructor",
)

// GetParcelQuery reads one parcel on behalf of actor.
//
// Example:
//
//	query, err := queries.NewGetParcelQuery(actor, parcelID)
//	if err != nil {
//	    return err
//	}
//	p, err := handler.Handle(ctx, query)
type GetParcelQuery struct {
	actor    user.Actor
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetParcelQuery(actor user.Actor, parcelID kernel.UUID) (GetParcelQuery, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate()); err != nil {
		return GetParcelQuery{}, err
	}

	return GetParcelQuery{actor: actor, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

func (q GetParcelQuery) Actor() user.Actor {
	return q.actor
}

func (q GetParcelQuery) ParcelID() kernel.UUID {
	return q.parcelID
}
