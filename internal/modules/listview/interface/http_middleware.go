package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"acornAdmin/internal/shared/auth"
)

const claimsKey = "claims"

// Authenticator is the token check used by RequireToken.
type Authenticator interface {
	auth.TokenValidator
	Enabled() bool
}

// RequireToken validates the caller's bearer token when the validator is enabled and stores it on
// the request context so backend calls forward it. With no key material the console runs open.
func RequireToken(validator Authenticator, roles ...string) echo.MiddlewareFunc {
	mapper := NewErrorMapper()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if validator == nil || !validator.Enabled() {
				return next(c)
			}
			token := auth.ExtractToken(c.Request(), tokenCookie)
			claims, err := validator.Validate(token)
			if err == nil && !claims.HasAnyRole(roles...) {
				err = auth.ErrForbidden
			}
			if err != nil {
				info := mapper.Map(err)
				slog.Warn("request auth failed", slog.String("ip", c.RealIP()), slog.String("path", c.Path()), slog.Any("error", err))
				return echo.NewHTTPError(info.Status, info.Message)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithToken(req.Context(), token)))
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the validated claims of the request, if any.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
