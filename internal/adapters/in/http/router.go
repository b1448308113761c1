package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sendit/internal/adapters/out/metrics"
	"sendit/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

type RouterConfig struct {
	Server    *Server
	JWTSecret []byte
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewRouter builds the echo instance: health, metrics and swagger at the
// root, the API under BasePath behind bearer authentication and request
// validation.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	if cfg.Server == nil {
		return nil, errors.New("http: server is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("http: jwt secret is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = registerDoc(swagger); err != nil {
		return nil, err
	}

	// The validator mutates its copy, so it gets one of its own.
	validationDoc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := RequestValidator(validationDoc, BasePath)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Requests are logged through slog; echo's own logger only reports
	// server faults.
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	e.Use(middleware.Recover())
	if cfg.Metrics != nil {
		e.Use(observe(cfg.Metrics))
	}
	e.Use(requestLogger(cfg.Logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BasePath, Authenticate(cfg.JWTSecret), validate)
	servers.RegisterHandlers(api, cfg.Server)

	return e, nil
}

func observe(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil {
				switch {
				case errors.As(err, &he):
					status = he.Code
				default:
					status = StatusFor(err)
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
