package http

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

var defineFormatsOnce sync.Once

// RequestValidator checks requests under basePath against swagger before
// they reach a handler. The document's servers are dropped so matching
// works on any host; basePath is stripped instead. Authentication is
// handled by Authenticate, so security schemes are not re-checked here.
func RequestValidator(swagger *openapi3.T, basePath string) (echo.MiddlewareFunc, error) {
	defineFormatsOnce.Do(func() {
		openapi3.DefineStringFormatValidator("uuid",
			openapi3.NewRegexpFormatValidator(openapi3.FormatOfStringForUUIDOfRFC4122))
	})

	swagger.Servers = nil
	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			lookup := req.Clone(req.Context())
			lookup.URL.Path = strings.TrimPrefix(req.URL.Path, basePath)
			lookup.URL.RawPath = ""

			route, pathParams, err := router.FindRoute(lookup)
			switch {
			case errors.Is(err, routers.ErrMethodNotAllowed):
				return echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
			case err != nil:
				return echo.NewHTTPError(http.StatusNotFound, "route not found")
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err)).SetInternal(err)
			}

			return next(c)
		}
	}, nil
}

func validationMessage(err error) string {
	var requestErr *openapi3filter.RequestError
	if errors.As(err, &requestErr) {
		msg := requestErr.Reason
		if requestErr.Parameter != nil {
			msg = "parameter " + requestErr.Parameter.Name + ": " + msg
		} else if requestErr.RequestBody != nil {
			msg = "request body: " + msg
		}
		if requestErr.Err != nil {
			var schemaErr *openapi3.SchemaError
			if errors.As(requestErr.Err, &schemaErr) {
				msg = strings.TrimSpace(msg + " " + schemaErr.Reason)
			}
		}
		if strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return "request does not match the API contract"
}
