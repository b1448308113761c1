package kernel

import (
	"errors"
	"time"
)

// ErrAlreadyDeleted is returned when soft-deleting a record twice.
var ErrAlreadyDeleted = errors.New("record is already deleted")

// LifecycleState tags the two visibility states of a persisted record.
type LifecycleState int

const (
	LifecycleActive LifecycleState = iota
	LifecycleDeleted
)

func (s LifecycleState) String() string {
	if s == LifecycleDeleted {
		return "deleted"
	}
	return "active"
}

// Lifecycle is either Active or Deleted{at}. The zero value is Active, so a
// freshly built aggregate is visible without extra wiring.
type Lifecycle struct {
	state     LifecycleState
	deletedAt time.Time
}

// Active returns the visible state.
func Active() Lifecycle {
	return Lifecycle{state: LifecycleActive}
}

// DeletedAt returns the soft-deleted state stamped with at (normalised to UTC).
func DeletedAt(at time.Time) Lifecycle {
	return Lifecycle{state: LifecycleDeleted, deletedAt: at.UTC()}
}

// LifecycleFromNullable maps a nullable deletion timestamp from storage.
func LifecycleFromNullable(deletedAt *time.Time) Lifecycle {
	if deletedAt == nil {
		return Active()
	}
	return DeletedAt(*deletedAt)
}

func (l Lifecycle) State() LifecycleState {
	return l.state
}

// IsActive is the single visibility predicate used by reads and updates.
func (l Lifecycle) IsActive() bool {
	return l.state == LifecycleActive
}

// Deleted returns the deletion time and true when the record is soft-deleted.
func (l Lifecycle) Deleted() (time.Time, bool) {
	if l.state != LifecycleDeleted {
		return time.Time{}, false
	}
	return l.deletedAt, true
}

// Delete moves an active record to Deleted{at}.
func (l Lifecycle) Delete(at time.Time) (Lifecycle, error) {
	if l.state == LifecycleDeleted {
		return l, ErrAlreadyDeleted
	}
	return DeletedAt(at), nil
}

// Nullable is the inverse of LifecycleFromNullable.
func (l Lifecycle) Nullable() *time.Time {
	at, ok := l.Deleted()
	if !ok {
		return nil
	}
	return &at
}
