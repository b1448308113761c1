package http

import (
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toParcel(p *parcel.Parcel) servers.Parcel {
	receiver := p.Receiver()
	return servers.Parcel{
		Id:       p.ID().Bytes(),
		SenderId: p.SenderID().Bytes(),
		Receiver: servers.Receiver{
			Id:    toOptionalID(receiver.ID()),
			Name:  receiver.Name(),
			Phone: receiver.Phone(),
		},
		Pickup:            toAddress(p.Pickup()),
		Destination:       toAddress(p.Destination()),
		WeightCategory:    servers.WeightCategory(p.Weight().String()),
		Status:            servers.ParcelStatus(p.Status().String()),
		AssignedCourierId: toOptionalID(p.AssignedCourierID()),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
		Version:           p.Version(),
	}
}

func toAddress(a parcel.Address) servers.Address {
	return servers.Address{Text: a.Text(), Location: toGeoPoint(a.Point())}
}

func toGeoPoint(p kernel.GeoPoint) servers.GeoPoint {
	return servers.GeoPoint{Lat: p.Lat(), Lng: p.Lng()}
}

func toCourier(c queries.CourierResponse) servers.Courier {
	courier := servers.Courier{
		Id:          c.ID.Bytes(),
		Name:        c.Name,
		Email:       openapi_types.Email(c.Email),
		Phone:       c.Phone,
		IsAvailable: c.IsAvailable,
		DistanceKm:  c.DistanceKm,
	}
	if c.Location != nil {
		point := toGeoPoint(*c.Location)
		courier.Location = &point
	}
	return courier
}

// profileOf renders a freshly written courier the same way the read side does.
func profileOf(u *user.User) servers.Courier {
	return toCourier(queries.CourierResponse{
		ID:          u.ID(),
		Name:        u.Name(),
		Email:       u.Email(),
		Phone:       u.Phone(),
		IsAvailable: u.IsAvailable(),
		Location:    u.CurrentLocation(),
	})
}

func toUser(u *user.User) servers.User {
	response := servers.User{
		Id:        u.ID().Bytes(),
		Name:      u.Name(),
		Email:     openapi_types.Email(u.Email()),
		Phone:     u.Phone(),
		Role:      servers.UserRole(u.Role().String()),
		CreatedAt: u.CreatedAt(),
	}
	if u.IsCourier() {
		available := u.IsAvailable()
		response.IsAvailable = &available
	}
	return response
}

func toOptionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	v := id.Bytes()
	return &v
}

func optionalID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	v, err := kernel.UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
