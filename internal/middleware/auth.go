package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/token"
)

// UserIDKey is the echo context key under which RequireAuth stores the
// verified credential identifier.
const UserIDKey = "user_id"

// RequireAuth returns an echo middleware that validates a Bearer access
// token and injects the verified subject into the request context. Each
// service verifies the token itself; the X-User-Id header set by the gateway
// is a convenience for logging, never a trust anchor. Requests without a
// valid token are rejected with 401 and no body detail.
func RequireAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sub, err := tokens.Verify(raw)
			if err != nil {
				// Expired and invalid tokens are reported identically.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(UserIDKey, sub)
			return next(c)
		}
	}
}
