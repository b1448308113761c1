package queries

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const courierColumns = `
	id,
	name,
	email,
	phone,
	is_available,
	location_lat,
	location_lng`

// ListCouriersQueryHandler reads couriers straight from the users table.
// Only admins may list couriers. Results are sorted by name unless the query
// asks for the couriers nearest to a point.
type ListCouriersQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
}

func NewListCouriersQueryHandler(db *gorm.DB) ListCouriersQueryHandler {
	return ListCouriersQueryHandler{db: db, policy: services.NewAccessPolicy()}
}

func (h ListCouriersQueryHandler) Handle(ctx context.Context, query ListCouriersQuery) ([]CourierResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Authorize(query.Actor(), services.ActionListCouriers, services.CollectionResource()); err != nil {
		return nil, err
	}

	var (
		clauses = []string{"role = ?", "deleted_at IS NULL"}
		args    = []any{user.RoleCourier.String()}
		near    = query.Near()
	)
	if available := query.Available(); available != nil {
		clauses = append(clauses, "is_available = ?")
		args = append(args, *available)
	}
	if search := query.Search(); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		clauses = append(clauses, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	// Distance ordering happens after the scan, so the page is cut here.
	limit := ""
	if near == nil {
		limit = "LIMIT ?"
		args = append(args, query.Limit())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+courierColumns+`
		FROM users
		WHERE `+strings.Join(clauses, " AND ")+`
		ORDER BY name, id
		`+limit, args...).Rows()
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	couriers := make([]CourierResponse, 0)
	for rows.Next() {
		courier, scanErr := scanCourier(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		couriers = append(couriers, courier)
	}

	if err = rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	if near != nil {
		if couriers, err = nearestFirst(couriers, *near, query.Limit()); err != nil {
			return nil, err
		}
	}

	return couriers, nil
}

// nearestFirst keeps the name order among couriers at the same distance and
// among couriers without a position.
func nearestFirst(couriers []CourierResponse, from kernel.GeoPoint, limit int) ([]CourierResponse, error) {
	for i := range couriers {
		if couriers[i].Location == nil {
			continue
		}
		km, err := from.DistanceKm(*couriers[i].Location)
		if err != nil {
			return nil, err
		}
		couriers[i].DistanceKm = &km
	}

	sort.SliceStable(couriers, func(i, j int) bool {
		a, b := couriers[i].DistanceKm, couriers[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	if len(couriers) > limit {
		couriers = couriers[:limit]
	}
	return couriers, nil
}

func scanCourier(rows *sql.Rows) (CourierResponse, error) {
	var (
		courier  CourierResponse
		id       uuid.UUID
		lat, lng sql.NullFloat64
	)

	if err := rows.Scan(
		&id,
		&courier.Name,
		&courier.Email,
		&courier.Phone,
		&courier.IsAvailable,
		&lat,
		&lng,
	); err != nil {
		return CourierResponse{}, storageErr(err)
	}

	var err error
	if courier.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return CourierResponse{}, err
	}
	if lat.Valid && lng.Valid {
		point, pointErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
		if pointErr != nil {
			return CourierResponse{}, pointErr
		}
		courier.Location = &point
	}
	return courier, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
