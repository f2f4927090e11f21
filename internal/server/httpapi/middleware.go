package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamsphere/api/internal/common"
	"github.com/teamsphere/api/internal/logging"
	"github.com/teamsphere/api/internal/server/auth"
)

const bearerPrefix = "Bearer "

// principalContextKey is where the authenticated identity lives in the echo
// context for the duration of one request.
const principalContextKey = "principal"

// Authenticator is the per-request token gate. Requests without a bearer
// token pass through unauthenticated; requests with one either get a
// principal attached or are rejected before reaching any handler.
type Authenticator struct {
	codec  *auth.Codec
	logger logging.Logger
}

func NewAuthenticator(codec *auth.Codec, logger logging.Logger) *Authenticator {
	return &Authenticator{codec: codec, logger: logger}
}

// Middleware verifies the Authorization header on every request. Verification
// is stateless and never cached across requests. Raw token values are never
// logged; only the error kind is.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				// no credentials offered; route-level guards decide
				return next(c)
			}

			identity, err := a.codec.Verify(strings.TrimPrefix(header, bearerPrefix), time.Now())
			switch {
			case err == nil:
				c.Set(principalContextKey, identity)
				return next(c)
			case errors.Is(err, common.ErrTokenExpired):
				a.logger.Warn(c.Request().Context(), "rejected request", "reason", "token expired")
				return echo.NewHTTPError(http.StatusUnauthorized, "JWT token is expired")
			case errors.Is(err, common.ErrTokenMalformed),
				errors.Is(err, common.ErrWrongAudience),
				errors.Is(err, common.ErrMissingClaims):
				a.logger.Warn(c.Request().Context(), "rejected request", "reason", err.Error())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token")
			default:
				a.logger.Error(c.Request().Context(), "token verification failed", "error", err.Error())
				return echo.NewHTTPError(http.StatusInternalServerError, "Unexpected error during JWT validation")
			}
		}
	}
}

// Principal returns the verified identity attached by the Authenticator,
// if any.
func Principal(c echo.Context) (*auth.Identity, bool) {
	identity, ok := c.Get(principalContextKey).(*auth.Identity)
	return identity, ok
}

// RequireAuth guards a route: requests that did not present a valid token
// are rejected here, after the pass-through in the Authenticator.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := Principal(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or not provided.")
			}
			return next(c)
		}
	}
}
