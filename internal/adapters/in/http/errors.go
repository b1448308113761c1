package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/generated/servers"
	"sendit/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "invalid request body")

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindAuthorization:
		return http.StatusForbidden
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is what a client may see. Dependency and internal failures
// never expose their cause.
func publicMessage(err error, status int) string {
	if errors.Is(err, commands.ErrAddressUnresolvable) {
		return "address could not be resolved"
	}

	var dependency *errs.DependencyError
	switch {
	case status == http.StatusBadGateway && errors.As(err, &dependency):
		return dependency.Dependency + " is unavailable"
	case status >= http.StatusInternalServerError:
		return http.StatusText(status)
	}
	return err.Error()
}

// ErrorHandler renders every error as servers.Error.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			message string
			he      *echo.HTTPError
		)
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = he.Internal
			}
		} else {
			status = StatusFor(err)
			message = publicMessage(err, status)
		}

		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				"method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
		} else {
			logger.DebugContext(ctx, "request rejected",
				"method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, servers.Error{Code: status, Message: message})
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to write error response", "error", err)
		}
	}
}
