package userrepo

import (
	"context"

	"sendit/internal/adapters/out/postgres/pgerr"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM. Soft-deleted
// rows are filtered by gorm.DeletedAt on every read.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsDuplicate(err) {
			return errs.NewConflictErrorWithCause("email is already registered", err)
		}
		return err
	}

	return nil
}

// Update issues UPDATE ... WHERE id = ? AND version = ? AND deleted_at IS NULL.
// No matching row means another writer got there first.
func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(updateColumns(dto, aggregate.Version()+1))
	if result.Error != nil {
		if pgerr.IsDuplicate(result.Error) {
			return errs.NewConflictErrorWithCause("email is already registered", result.Error)
		}
		if pgerr.IsDeadlock(result.Error) {
			return errs.NewConflictErrorWithCause("user row was locked by a concurrent change", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleObjectError("user", aggregate.ID().String())
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if pgerr.IsNotFound(err) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	normalized := user.NormalizeEmail(email)

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", normalized).Error; err != nil {
		if pgerr.IsNotFound(err) {
			return nil, errs.NewObjectNotFoundError("email", normalized)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormUserRepository) ListUnavailableCouriers(ctx context.Context) ([]*user.User, error) {
	var dtos []UserDTO
	if err := r.db.WithContext(ctx).
		Where("role = ? AND is_available = ?", user.RoleCourier.String(), false).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, u)
	}

	return couriers, nil
}
