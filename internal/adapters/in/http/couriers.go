package http

import (
	"net/http"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/generated/servers"
	"sendit/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errNearNeedsBothCoordinates = errs.NewValueIsRequiredError("nearLat and nearLng together")

// ListCouriers handles GET /api/v1/couriers.
func (s *Server) ListCouriers(ctx echo.Context, params servers.ListCouriersParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewListCouriersQuery(actor, params.Available, deref(params.Search), deref(params.Limit))
	if err != nil {
		return err
	}

	switch {
	case params.NearLat != nil && params.NearLng != nil:
		near, pointErr := kernel.NewGeoPoint(*params.NearLat, *params.NearLng)
		if pointErr != nil {
			return pointErr
		}
		if query, err = query.WithNear(near); err != nil {
			return err
		}
	case params.NearLat != nil || params.NearLng != nil:
		return errNearNeedsBothCoordinates
	}

	couriers, err := s.h.ListCouriers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]servers.Courier, len(couriers))
	for i, c := range couriers {
		response[i] = toCourier(c)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetCourierProfile handles GET /api/v1/couriers/me.
func (s *Server) GetCourierProfile(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewGetCourierProfileQuery(actor, actor.ID())
	if err != nil {
		return err
	}

	profile, err := s.h.GetCourierProfile.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toCourier(profile))
}

// UpdateCourierProfile handles PATCH /api/v1/couriers/me.
func (s *Server) UpdateCourierProfile(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body servers.UpdateCourierProfileJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	patch := commands.CourierProfilePatch{Name: body.Name, Phone: body.Phone}
	if body.Location != nil {
		location, pointErr := kernel.NewGeoPoint(body.Location.Lat, body.Location.Lng)
		if pointErr != nil {
			return pointErr
		}
		patch.Location = &location
	}

	cmd, err := commands.NewUpdateCourierProfileCommand(actor, actor.ID(), patch)
	if err != nil {
		return err
	}

	courier, err := s.h.UpdateCourierProfile.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, profileOf(courier))
}
