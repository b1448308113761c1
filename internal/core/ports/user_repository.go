// Package ports defines the contracts between the core and its collaborators:
// storage, geocoding and notification. Adapters implement them; use cases
// depend only on these interfaces.
package ports

import (
	"context"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
// Every read excludes soft-deleted accounts.
type UserRepository interface {
	// Add persists a new user. A duplicate email yields an errs.ConflictError.
	Add(ctx context.Context, aggregate *user.User) error

	// Update writes the aggregate if its stored version still equals
	// aggregate.Version(), then advances the version. A lost race, or a row
	// deleted meanwhile, yields errs.ErrStaleObject.
	Update(ctx context.Context, aggregate *user.User) error

	// Get retrieves an active user by id, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByEmail looks up an active user by normalized email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// ListUnavailableCouriers returns active couriers currently marked
	// unavailable, ordered by id so batch writers lock rows in the same
	// order as the assignment path.
	ListUnavailableCouriers(ctx context.Context) ([]*user.User, error)
}
