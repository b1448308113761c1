package parcel

import (
	"fmt"
	"strings"

	"sendit/internal/pkg/errs"
)

// Status is the delivery state of a parcel.
//
//	PENDING ──> IN_TRANSIT ──> DELIVERED
//	   │             │
//	   └──> CANCELLED <┘
//	           │
//	           └──> PENDING (admin only)
type Status int

const (
	// Unknown (0) catches uninitialised values.
	Unknown Status = iota
	Pending
	InTransit
	Delivered
	Cancelled
)

// ErrIllegalStatusTransition is the sentinel behind IllegalStatusTransitionError.
var ErrIllegalStatusTransition = fmt.Errorf("%w: illegal status transition", errs.ErrConflict)

// IllegalStatusTransitionError carries the rejected from/to pair and the
// targets that would have been accepted from the same status.
type IllegalStatusTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func NewIllegalStatusTransitionError(from, to Status) *IllegalStatusTransitionError {
	return &IllegalStatusTransitionError{From: from, To: to, Allowed: from.AllowedTargets()}
}

func (e *IllegalStatusTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s: %s -> %s (%s is final)", ErrIllegalStatusTransition, e.From, e.To, e.From)
	}

	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = s.String()
	}
	return fmt.Sprintf("%s: %s -> %s (allowed: %s)",
		ErrIllegalStatusTransition, e.From, e.To, strings.Join(allowed, ", "))
}

func (e *IllegalStatusTransitionError) Unwrap() error {
	return ErrIllegalStatusTransition
}

type edge struct {
	adminOnly bool
}

// transitions is the complete table; anything absent is illegal.
//
//nolint:gochecknoglobals // read-only lookup table
var transitions = map[Status]map[Status]edge{
	Pending: {
		InTransit: {},
		Cancelled: {},
	},
	InTransit: {
		Delivered: {},
		Cancelled: {},
	},
	Cancelled: {
		Pending: {adminOnly: true},
	},
	Delivered: {},
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// AllStatuses lists every valid status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, InTransit, Delivered, Cancelled}
}

// ParseStatus accepts the wire form, case-insensitively.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range AllStatuses() {
		if status.String() == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(transitions[s]) == 0
}

// IsOpen reports whether a parcel in s still occupies its courier.
func (s Status) IsOpen() bool {
	return s == Pending || s == InTransit
}

// CanTransitionTo reports whether the table has an edge s -> to.
func (s Status) CanTransitionTo(to Status) bool {
	_, ok := transitions[s][to]
	return ok
}

// RequiresAdmin reports whether the edge s -> to is reserved for admins.
// It is false for edges that do not exist.
func (s Status) RequiresAdmin(to Status) bool {
	return transitions[s][to].adminOnly
}

// AllowedTargets lists the statuses reachable from s in one step.
func (s Status) AllowedTargets() []Status {
	targets := make([]Status, 0, len(transitions[s]))
	for _, candidate := range AllStatuses() {
		if s.CanTransitionTo(candidate) {
			targets = append(targets, candidate)
		}
	}
	return targets
}

// TransitionTo returns the new status or an IllegalStatusTransitionError.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransitionTo(to) {
		return s, NewIllegalStatusTransitionError(s, to)
	}
	return to, nil
}
