package queries

import (
	"context"

	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"
	"sendit/internal/pkg/errs"

	"gorm.io/gorm"
)

var ErrCourierNotFound = errs.NewObjectNotFoundError("courier", nil)

type GetCourierProfileQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
}

func NewGetCourierProfileQueryHandler(db *gorm.DB) GetCourierProfileQueryHandler {
	return GetCourierProfileQueryHandler{db: db, policy: services.NewAccessPolicy()}
}

func (h GetCourierProfileQueryHandler) Handle(ctx context.Context, query GetCourierProfileQuery) (CourierResponse, error) {
	if err := query.Validate(); err != nil {
		return CourierResponse{}, err
	}

	resource := services.CourierProfileResource(query.CourierID())
	if err := h.policy.Authorize(query.Actor(), services.ActionManageCourierProfile, resource); err != nil {
		return CourierResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+courierColumns+`
		FROM users
		WHERE id = ? AND role = ? AND deleted_at IS NULL
	`, query.CourierID().Bytes(), user.RoleCourier.String()).Rows()
	if err != nil {
		return CourierResponse{}, storageErr(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return CourierResponse{}, storageErr(err)
		}
		return CourierResponse{}, ErrCourierNotFound
	}

	return scanCourier(rows)
}
