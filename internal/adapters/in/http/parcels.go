package http

import (
	"net/http"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// CreateParcel handles POST /api/v1/parcels.
func (s *Server) CreateParcel(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body servers.CreateParcelJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	senderID, err := kernel.UUIDFromGoogle(body.SenderId)
	if err != nil {
		return err
	}
	receiverID, err := optionalID(body.Receiver.Id)
	if err != nil {
		return err
	}
	courierID, err := optionalID(body.CourierId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateParcelCommand(
		actor,
		kernel.NewUUID(),
		senderID,
		commands.ReceiverInput{ID: receiverID, Name: body.Receiver.Name, Phone: body.Receiver.Phone},
		body.PickupAddress,
		body.Destination,
		string(body.WeightCategory),
		courierID,
	)
	if err != nil {
		return err
	}

	p, err := s.h.CreateParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, toParcel(p))
}

// ListParcels handles GET /api/v1/parcels.
func (s *Server) ListParcels(ctx echo.Context, params servers.ListParcelsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var status string
	if params.Status != nil {
		status = string(*params.Status)
	}

	query, err := queries.NewListParcelsQuery(actor, status, deref(params.Limit), deref(params.Offset))
	if err != nil {
		return err
	}

	parcels, err := s.h.ListParcels.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]servers.Parcel, len(parcels))
	for i, p := range parcels {
		response[i] = toParcel(p)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetParcel handles GET /api/v1/parcels/{parcelId}.
func (s *Server) GetParcel(ctx echo.Context, parcelId servers.ParcelId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(parcelId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetParcelQuery(actor, id)
	if err != nil {
		return err
	}

	p, err := s.h.GetParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toParcel(p))
}

// UpdateParcel handles PATCH /api/v1/parcels/{parcelId}.
func (s *Server) UpdateParcel(ctx echo.Context, parcelId servers.ParcelId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(parcelId)
	if err != nil {
		return err
	}

	var body servers.UpdateParcelJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	patch := commands.ParcelPatch{
		ReceiverName:  body.ReceiverName,
		ReceiverPhone: body.ReceiverPhone,
		PickupAddress: body.PickupAddress,
		Destination:   body.Destination,
	}
	if body.WeightCategory != nil {
		weight := string(*body.WeightCategory)
		patch.Weight = &weight
	}

	cmd, err := commands.NewUpdateParcelCommand(actor, id, patch)
	if err != nil {
		return err
	}

	p, err := s.h.UpdateParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toParcel(p))
}

// DeleteParcel handles DELETE /api/v1/parcels/{parcelId}.
func (s *Server) DeleteParcel(ctx echo.Context, parcelId servers.ParcelId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(parcelId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteParcelCommand(actor, id)
	if err != nil {
		return err
	}

	if err = s.h.DeleteParcel.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// TransitionParcelStatus handles POST /api/v1/parcels/{parcelId}/status.
func (s *Server) TransitionParcelStatus(ctx echo.Context, parcelId servers.ParcelId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(parcelId)
	if err != nil {
		return err
	}

	var body servers.TransitionParcelStatusJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	cmd, err := commands.NewTransitionParcelStatusCommand(actor, id, string(body.Status))
	if err != nil {
		return err
	}

	p, err := s.h.TransitionParcelStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toParcel(p))
}

// AssignCourier handles POST /api/v1/parcels/{parcelId}/assignment.
func (s *Server) AssignCourier(ctx echo.Context, parcelId servers.ParcelId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(parcelId)
	if err != nil {
		return err
	}

	var body servers.AssignCourierJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}
	courierID, err := kernel.UUIDFromGoogle(body.CourierId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignCourierCommand(actor, id, courierID)
	if err != nil {
		return err
	}

	p, err := s.h.AssignCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toParcel(p))
}
