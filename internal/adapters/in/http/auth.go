package http

import (
	"net/http"
	"strings"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "sendit.actor"

// Claims is the bearer token payload. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingActor = echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

// Authenticate verifies an HS256 bearer token and stores the resulting
// user.Actor on the echo context. Tokens must carry sub, role and exp.
// Issuing tokens is left to the identity provider.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request())
			if !ok {
				return unauthorized(c, "missing bearer token")
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				return unauthorized(c, "invalid bearer token")
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				return unauthorized(c, "invalid bearer token claims")
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func actorFromClaims(claims Claims) (user.Actor, error) {
	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return user.Actor{}, err
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return user.Actor{}, err
	}
	return user.NewActor(id, role)
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="sendit"`)
	return echo.NewHTTPError(http.StatusUnauthorized, message)
}

func actorFrom(c echo.Context) (user.Actor, error) {
	actor, ok := c.Get(actorContextKey).(user.Actor)
	if !ok || actor.Validate() != nil {
		return user.Actor{}, errMissingActor
	}
	return actor, nil
}
