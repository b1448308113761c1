package queries

import (
	"errors"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListParcelsQueryIsNotConstructed = errors.New(
	"ListParcelsQuery must be created via NewListParcelsQuery constructor",
)

// ListParcelsQuery pages through the parcels visible to actor. A zero limit
// means DefaultPageSize.
type ListParcelsQuery struct {
	actor  user.Actor
	status *parcel.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListParcelsQuery builds the query. status is the wire form and may be
// empty.
func NewListParcelsQuery(actor user.Actor, status string, limit, offset int) (ListParcelsQuery, error) {
	q := ListParcelsQuery{actor: actor, limit: limit, offset: offset}

	var statusErr error
	if status != "" {
		s, err := parcel.ParseStatus(status)
		if err != nil {
			statusErr = err
		} else {
			q.status = &s
		}
	}

	var limitErr, offsetErr error
	if limit < 0 || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize)
	}
	if limit == 0 {
		q.limit = DefaultPageSize
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	if err := errors.Join(actor.Validate(), statusErr, limitErr, offsetErr); err != nil {
		return ListParcelsQuery{}, err
	}

	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q ListParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsQueryIsNotConstructed)
}

func (q ListParcelsQuery) Actor() user.Actor {
	return q.actor
}

// Status returns the status filter, or nil.
func (q ListParcelsQuery) Status() *parcel.Status {
	if q.status == nil {
		return nil
	}
	s := *q.status
	return &s
}

func (q ListParcelsQuery) Limit() int {
	return q.limit
}

func (q ListParcelsQuery) Offset() int {
	return q.offset
}
