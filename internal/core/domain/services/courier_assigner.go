package services

import (
	"time"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
)

var (
	// ErrCourierNotFound is returned when the target user is missing, deleted
	// or not a COURIER.
	ErrCourierNotFound = errs.NewObjectNotFoundError("courier", nil)

	// ErrPreviousCourierMismatch is returned when the caller passes a released
	// courier that is not the one currently assigned to the parcel.
	ErrPreviousCourierMismatch = errs.NewValueIsInvalidError("previous courier")
)

// CourierAssigner links a parcel to a courier and keeps courier availability
// consistent across both aggregates.
//
// Business rules:
//   - the courier must be an active COURIER (ErrCourierNotFound)
//   - the courier must be available (user.ErrCourierUnavailable)
//   - delivered and deleted parcels cannot be assigned
//   - a previously assigned courier is released before the new one is claimed
//   - parcel status is left unchanged
//
// Example usage:
//
//	assigner := services.NewCourierAssigner()
//	released, err := assigner.Assign(p, courier, previous, time.Now())
//	if errors.Is(err, user.ErrCourierUnavailable) {
//	    // someone else took the courier
//	}
//	// persist p, courier and released (when not nil) in one transaction
type CourierAssigner struct{}

func NewCourierAssigner() CourierAssigner {
	return CourierAssigner{}
}

// Assign applies the assignment in memory. previous is the currently assigned
// courier as loaded by the caller, or nil when there is none or it can no
// longer be loaded. It returns the courier whose availability was restored,
// if any. Nothing is mutated when an error is returned.
func (a CourierAssigner) Assign(
	p *parcel.Parcel,
	courier *user.User,
	previous *user.User,
	now time.Time,
) (*user.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if courier == nil || courier.Validate() != nil || !courier.IsCourier() || !courier.IsActive() {
		return nil, ErrCourierNotFound
	}
	if !courier.IsAvailable() {
		return nil, user.ErrCourierUnavailable
	}

	release := previous
	if release != nil {
		if !p.IsAssignedTo(release.ID()) {
			return nil, ErrPreviousCourierMismatch
		}
		if release.IsEqual(courier) || !release.IsCourier() || !release.IsActive() {
			release = nil
		}
	}

	if _, err := p.AssignCourier(courier.ID(), now); err != nil {
		return nil, err
	}

	// Cannot fail: role, lifecycle and availability were checked above.
	_ = courier.MarkUnavailable()

	if release == nil {
		return nil, nil
	}
	_ = release.MarkAvailable()
	return release, nil
}
