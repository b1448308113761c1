package parcelrepo

import (
	"context"

	"sendit/internal/adapters/out/postgres/pgerr"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db *gorm.DB
}

func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsDuplicate(err) {
			return errs.NewConflictErrorWithCause("parcel already exists", err)
		}
		return err
	}

	return nil
}

func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(updateColumns(dto, aggregate.Version()+1))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleObjectError("parcel", aggregate.ID().String())
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if pgerr.IsNotFound(err) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List returns active parcels matching filter, newest first.
//
//	parcels, err := repo.List(ctx, ports.ParcelFilter{PartyID: &customerID, Limit: 50})
func (r *GormParcelRepository) List(ctx context.Context, filter ports.ParcelFilter) ([]*parcel.Parcel, error) {
	q := r.db.WithContext(ctx).Model(&ParcelDTO{})

	if filter.PartyID != nil {
		id := filter.PartyID.Bytes()
		q = q.Where("(sender_id = ? OR receiver_id = ?)", id, id)
	}
	if filter.CourierID != nil {
		q = q.Where("assigned_courier_id = ?", filter.CourierID.Bytes())
	}
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var dtos []ParcelDTO
	if err := q.Order("created_at DESC, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}

	return parcels, nil
}

func (r *GormParcelRepository) CountOpenByCourier(ctx context.Context, courierID kernel.UUID) (int64, error) {
	if err := courierID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("assigned_courier_id = ? AND status IN ?", courierID.Bytes(), openStatuses()).
		Count(&count).Error
	return count, err
}

func openStatuses() []string {
	out := make([]string, 0, 2)
	for _, s := range parcel.AllStatuses() {
		if s.IsOpen() {
			out = append(out, s.String())
		}
	}
	return out
}
