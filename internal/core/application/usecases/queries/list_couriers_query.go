package queries

import (
	"errors"
	"strings"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

var ErrListCouriersQueryIsNotConstructed = errors.New(
	"ListCouriersQuery must be created via NewListCouriersQuery constructor",
)

// ListCouriersQuery retrieves active couriers for dispatching.
//
// Example:
//
//	available := true
//	query, err := queries.NewListCouriersQuery(actor, &available, "ann", 20)
//	couriers, err := handler.Handle(ctx, query)
type ListCouriersQuery struct {
	actor     user.Actor
	available *bool
	search    string
	limit     int
	near      *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewListCouriersQuery builds the query. available may be nil to list every
// courier. search matches name or email case-insensitively; blank matches
// everything. A zero limit means DefaultPageSize.
func NewListCouriersQuery(actor user.Actor, available *bool, search string, limit int) (ListCouriersQuery, error) {
	var limitErr error
	if limit < 0 || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize)
	}
	if err := errors.Join(actor.Validate(), limitErr); err != nil {
		return ListCouriersQuery{}, err
	}
	if limit == 0 {
		limit = DefaultPageSize
	}

	q := ListCouriersQuery{
		actor:  actor,
		search: strings.TrimSpace(search),
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}
	if available != nil {
		v := *available
		q.available = &v
	}
	return q, nil
}

func (q ListCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListCouriersQueryIsNotConstructed)
}

func (q ListCouriersQuery) Actor() user.Actor {
	return q.actor
}

func (q ListCouriersQuery) Available() *bool {
	if q.available == nil {
		return nil
	}
	v := *q.available
	return &v
}

func (q ListCouriersQuery) Search() string {
	return q.search
}

func (q ListCouriersQuery) Limit() int {
	return q.limit
}

// WithNear orders the result by distance from point, nearest first.
// Couriers that never reported a position come last, by name.
func (q ListCouriersQuery) WithNear(point kernel.GeoPoint) (ListCouriersQuery, error) {
	if err := point.Validate(); err != nil {
		return ListCouriersQuery{}, err
	}
	q.near = &point
	return q, nil
}

func (q ListCouriersQuery) Near() *kernel.GeoPoint {
	if q.near == nil {
		return nil
	}
	p := *q.near
	return &p
}

// CourierResponse is the courier read model. Location is nil until the
// courier has reported a position. DistanceKm is set only for a listing
// ordered by distance, and only for couriers with a location.
type CourierResponse struct {
	ID          kernel.UUID
	Name        string
	Email       string
	Phone       string
	IsAvailable bool
	Location    *kernel.GeoPoint
	DistanceKm  *float64
}
