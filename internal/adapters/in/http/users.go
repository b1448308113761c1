package http

import (
	"net/http"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// CreateUser handles POST /api/v1/users. The password is hashed by the use
// case and never echoed back.
func (s *Server) CreateUser(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body servers.CreateUserJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	cmd, err := commands.NewCreateUserCommand(actor, kernel.NewUUID(),
		body.Name, string(body.Email), body.Phone, body.Password, string(body.Role))
	if err != nil {
		return err
	}

	u, err := s.h.CreateUser.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toUser(u))
}

// ChangeUserRole handles PATCH /api/v1/users/{userId}/role.
func (s *Server) ChangeUserRole(ctx echo.Context, userId servers.UserId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(userId)
	if err != nil {
		return err
	}

	var body servers.ChangeUserRoleJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return errInvalidBody
	}

	cmd, err := commands.NewChangeUserRoleCommand(actor, id, string(body.Role))
	if err != nil {
		return err
	}

	u, err := s.h.ChangeUserRole.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toUser(u))
}

// DeleteUser handles DELETE /api/v1/users/{userId}.
func (s *Server) DeleteUser(ctx echo.Context, userId servers.UserId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.UUIDFromGoogle(userId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteUserCommand(actor, id)
	if err != nil {
		return err
	}

	if err = s.h.DeleteUser.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
