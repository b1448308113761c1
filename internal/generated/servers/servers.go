// Package servers holds the HTTP models and echo bindings for
// api/openapi.yaml. It follows the oapi-codegen echo-server layout and is
// kept in step with the contract by hand; router tests fail when the two
// drift apart.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for ParcelStatus.
const (
	CANCELLED ParcelStatus = "CANCELLED"
	DELIVERED ParcelStatus = "DELIVERED"
	INTRANSIT ParcelStatus = "IN_TRANSIT"
	PENDING   ParcelStatus = "PENDING"
)

// Defines values for UserRole.
const (
	ADMIN    UserRole = "ADMIN"
	COURIER  UserRole = "COURIER"
	CUSTOMER UserRole = "CUSTOMER"
)

// Defines values for WeightCategory.
const (
	HEAVY  WeightCategory = "HEAVY"
	LIGHT  WeightCategory = "LIGHT"
	MEDIUM WeightCategory = "MEDIUM"
)

// Address defines model for Address.
type Address struct {
	Location GeoPoint `json:"location"`
	Text     string   `json:"text"`
}

// Assignment defines model for Assignment.
type Assignment struct {
	CourierId openapi_types.UUID `json:"courierId"`
}

// Courier defines model for Courier.
type Courier struct {
	DistanceKm  *float64            `json:"distanceKm,omitempty"`
	Email       openapi_types.Email `json:"email"`
	Id          openapi_types.UUID  `json:"id"`
	IsAvailable bool                `json:"isAvailable"`
	Location    *GeoPoint           `json:"location,omitempty"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
}

// CourierProfilePatch defines model for CourierProfilePatch.
type CourierProfilePatch struct {
	Location *GeoPoint `json:"location,omitempty"`
	Name     *string   `json:"name,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPoint defines model for GeoPoint.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewParcel defines model for NewParcel.
type NewParcel struct {
	CourierId      *openapi_types.UUID `json:"courierId,omitempty"`
	Destination    string              `json:"destination"`
	PickupAddress  string              `json:"pickupAddress"`
	Receiver       Receiver            `json:"receiver"`
	SenderId       openapi_types.UUID  `json:"senderId"`
	WeightCategory WeightCategory      `json:"weightCategory"`
}

// NewUser defines model for NewUser.
type NewUser struct {
	Email    openapi_types.Email `json:"email"`
	Name     string              `json:"name"`
	Password string              `json:"password"`
	Phone    string              `json:"phone"`
	Role     UserRole            `json:"role"`
}

// Parcel defines model for Parcel.
type Parcel struct {
	AssignedCourierId *openapi_types.UUID `json:"assignedCourierId,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	Destination       Address             `json:"destination"`
	Id                openapi_types.UUID  `json:"id"`
	Pickup            Address             `json:"pickup"`
	Receiver          Receiver            `json:"receiver"`
	SenderId          openapi_types.UUID  `json:"senderId"`
	Status            ParcelStatus        `json:"status"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	Version           int                 `json:"version"`
	WeightCategory    WeightCategory      `json:"weightCategory"`
}

// ParcelPatch defines model for ParcelPatch.
type ParcelPatch struct {
	Destination    *string         `json:"destination,omitempty"`
	PickupAddress  *string         `json:"pickupAddress,omitempty"`
	ReceiverName   *string         `json:"receiverName,omitempty"`
	ReceiverPhone  *string         `json:"receiverPhone,omitempty"`
	WeightCategory *WeightCategory `json:"weightCategory,omitempty"`
}

// ParcelStatus defines model for ParcelStatus.
type ParcelStatus string

// Receiver defines model for Receiver.
type Receiver struct {
	Id    *openapi_types.UUID `json:"id,omitempty"`
	Name  string              `json:"name"`
	Phone string              `json:"phone"`
}

// RoleChange defines model for RoleChange.
type RoleChange struct {
	Role UserRole `json:"role"`
}

// StatusTransition defines model for StatusTransition.
type StatusTransition struct {
	Status ParcelStatus `json:"status"`
}

// User defines model for User.
type User struct {
	CreatedAt   time.Time           `json:"createdAt"`
	Email       openapi_types.Email `json:"email"`
	Id          openapi_types.UUID  `json:"id"`
	IsAvailable *bool               `json:"isAvailable,omitempty"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Role        UserRole            `json:"role"`
}

// UserRole defines model for UserRole.
type UserRole string

// WeightCategory defines model for WeightCategory.
type WeightCategory string

// Limit defines model for Limit.
type Limit = int

// ParcelId defines model for ParcelId.
type ParcelId = openapi_types.UUID

// UserId defines model for UserId.
type UserId = openapi_types.UUID

// ListCouriersParams defines parameters for ListCouriers.
type ListCouriersParams struct {
	Available *bool    `form:"available,omitempty" json:"available,omitempty"`
	Search    *string  `form:"search,omitempty" json:"search,omitempty"`
	Limit     *Limit   `form:"limit,omitempty" json:"limit,omitempty"`
	NearLat   *float64 `form:"nearLat,omitempty" json:"nearLat,omitempty"`
	NearLng   *float64 `form:"nearLng,omitempty" json:"nearLng,omitempty"`
}

// ListParcelsParams defines parameters for ListParcels.
type ListParcelsParams struct {
	Status *ParcelStatus `form:"status,omitempty" json:"status,omitempty"`
	Limit  *Limit        `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int          `form:"offset,omitempty" json:"offset,omitempty"`
}

// CreateParcelJSONRequestBody defines body for CreateParcel for application/json ContentType.
type CreateParcelJSONRequestBody = NewParcel

// UpdateParcelJSONRequestBody defines body for UpdateParcel for application/json ContentType.
type UpdateParcelJSONRequestBody = ParcelPatch

// AssignCourierJSONRequestBody defines body for AssignCourier for application/json ContentType.
type AssignCourierJSONRequestBody = Assignment

// TransitionParcelStatusJSONRequestBody defines body for TransitionParcelStatus for application/json ContentType.
type TransitionParcelStatusJSONRequestBody = StatusTransition

// UpdateCourierProfileJSONRequestBody defines body for UpdateCourierProfile for application/json ContentType.
type UpdateCourierProfileJSONRequestBody = CourierProfilePatch

// CreateUserJSONRequestBody defines body for CreateUser for application/json ContentType.
type CreateUserJSONRequestBody = NewUser

// ChangeUserRoleJSONRequestBody defines body for ChangeUserRole for application/json ContentType.
type ChangeUserRoleJSONRequestBody = RoleChange

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /couriers)
	ListCouriers(ctx echo.Context, params ListCouriersParams) error

	// (GET /couriers/me)
	GetCourierProfile(ctx echo.Context) error

	// (PATCH /couriers/me)
	UpdateCourierProfile(ctx echo.Context) error

	// (GET /parcels)
	ListParcels(ctx echo.Context, params ListParcelsParams) error

	// (POST /parcels)
	CreateParcel(ctx echo.Context) error

	// (DELETE /parcels/{parcelId})
	DeleteParcel(ctx echo.Context, parcelId ParcelId) error

	// (GET /parcels/{parcelId})
	GetParcel(ctx echo.Context, parcelId ParcelId) error

	// (PATCH /parcels/{parcelId})
	UpdateParcel(ctx echo.Context, parcelId ParcelId) error

	// (POST /parcels/{parcelId}/assignment)
	AssignCourier(ctx echo.Context, parcelId ParcelId) error

	// (POST /parcels/{parcelId}/status)
	TransitionParcelStatus(ctx echo.Context, parcelId ParcelId) error

	// (POST /users)
	CreateUser(ctx echo.Context) error

	// (DELETE /users/{userId})
	DeleteUser(ctx echo.Context, userId UserId) error

	// (PATCH /users/{userId}/role)
	ChangeUserRole(ctx echo.Context, userId UserId) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListCouriers converts echo context to params.
func (w *ServerInterfaceWrapper) ListCouriers(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Parameter object where we will unmarshal all parameters from the context
	var params ListCouriersParams
	// ------------- Optional query parameter "available" -------------

	err = runtime.BindQueryParameter("form", true, false, "available", ctx.QueryParams(), &params.Available)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter available: %s", err))
	}

	// ------------- Optional query parameter "search" -------------

	err = runtime.BindQueryParameter("form", true, false, "search", ctx.QueryParams(), &params.Search)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter search: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// ------------- Optional query parameter "nearLat" -------------

	err = runtime.BindQueryParameter("form", true, false, "nearLat", ctx.QueryParams(), &params.NearLat)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter nearLat: %s", err))
	}

	// ------------- Optional query parameter "nearLng" -------------

	err = runtime.BindQueryParameter("form", true, false, "nearLng", ctx.QueryParams(), &params.NearLng)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter nearLng: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ListCouriers(ctx, params)
	return err
}

// GetCourierProfile converts echo context to params.
func (w *ServerInterfaceWrapper) GetCourierProfile(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetCourierProfile(ctx)
	return err
}

// UpdateCourierProfile converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateCourierProfile(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.UpdateCourierProfile(ctx)
	return err
}

// ListParcels converts echo context to params.
func (w *ServerInterfaceWrapper) ListParcels(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Parameter object where we will unmarshal all parameters from the context
	var params ListParcelsParams
	// ------------- Optional query parameter "status" -------------

	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// ------------- Optional query parameter "offset" -------------

	err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ListParcels(ctx, params)
	return err
}

// CreateParcel converts echo context to params.
func (w *ServerInterfaceWrapper) CreateParcel(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateParcel(ctx)
	return err
}

// DeleteParcel converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteParcel(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "parcelId" -------------
	var parcelId ParcelId

	err = runtime.BindStyledParameterWithOptions("simple", "parcelId", ctx.Param("parcelId"), &parcelId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter parcelId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.DeleteParcel(ctx, parcelId)
	return err
}

// GetParcel converts echo context to params.
func (w *ServerInterfaceWrapper) GetParcel(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "parcelId" -------------
	var parcelId ParcelId

	err = runtime.BindStyledParameterWithOptions("simple", "parcelId", ctx.Param("parcelId"), &parcelId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter parcelId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetParcel(ctx, parcelId)
	return err
}

// UpdateParcel converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateParcel(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "parcelId" -------------
	var parcelId ParcelId

	err = runtime.BindStyledParameterWithOptions("simple", "parcelId", ctx.Param("parcelId"), &parcelId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter parcelId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.UpdateParcel(ctx, parcelId)
	return err
}

// AssignCourier converts echo context to params.
func (w *ServerInterfaceWrapper) AssignCourier(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "parcelId" -------------
	var parcelId ParcelId

	err = runtime.BindStyledParameterWithOptions("simple", "parcelId", ctx.Param("parcelId"), &parcelId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter parcelId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.AssignCourier(ctx, parcelId)
	return err
}

// TransitionParcelStatus converts echo context to params.
func (w *ServerInterfaceWrapper) TransitionParcelStatus(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "parcelId" -------------
	var parcelId ParcelId

	err = runtime.BindStyledParameterWithOptions("simple", "parcelId", ctx.Param("parcelId"), &parcelId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter parcelId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.TransitionParcelStatus(ctx, parcelId)
	return err
}

// CreateUser converts echo context to params.
func (w *ServerInterfaceWrapper) CreateUser(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateUser(ctx)
	return err
}

// DeleteUser converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteUser(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "userId" -------------
	var userId UserId

	err = runtime.BindStyledParameterWithOptions("simple", "userId", ctx.Param("userId"), &userId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter userId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.DeleteUser(ctx, userId)
	return err
}

// ChangeUserRole converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeUserRole(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "userId" -------------
	var userId UserId

	err = runtime.BindStyledParameterWithOptions("simple", "userId", ctx.Param("userId"), &userId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter userId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ChangeUserRole(ctx, userId)
	return err
}

// This is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// Registers handlers, and prepends BaseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {

	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/couriers", wrapper.ListCouriers)
	router.GET(baseURL+"/couriers/me", wrapper.GetCourierProfile)
	router.PATCH(baseURL+"/couriers/me", wrapper.UpdateCourierProfile)
	router.GET(baseURL+"/parcels", wrapper.ListParcels)
	router.POST(baseURL+"/parcels", wrapper.CreateParcel)
	router.DELETE(baseURL+"/parcels/:parcelId", wrapper.DeleteParcel)
	router.GET(baseURL+"/parcels/:parcelId", wrapper.GetParcel)
	router.PATCH(baseURL+"/parcels/:parcelId", wrapper.UpdateParcel)
	router.POST(baseURL+"/parcels/:parcelId/assignment", wrapper.AssignCourier)
	router.POST(baseURL+"/parcels/:parcelId/status", wrapper.TransitionParcelStatus)
	router.POST(baseURL+"/users", wrapper.CreateUser)
	router.DELETE(baseURL+"/users/:userId", wrapper.DeleteUser)
	router.PATCH(baseURL+"/users/:userId/role", wrapper.ChangeUserRole)

}
