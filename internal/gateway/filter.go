// Package gateway implements the edge of the platform: a JWT
// authentication filter and a reverse proxy that fronts the auth and
// roster services. The filter authenticates; it never authorizes.
package gateway

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/token"
)

// IdentityHeader carries the verified credential identifier to downstream
// services. The services re-verify the bearer token themselves; this header
// exists for logging and for clients of the services' internal networks.
const IdentityHeader = "X-User-Id"

// publicPrefixes lists path prefixes that bypass authentication at the
// edge. Registration and login must be reachable without a token;
// everything else requires one.
var publicPrefixes = []string{
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/refresh",
	"/api/auth/logout",
	"/healthz",
}

// isPublic matches whole path segments: /api/auth/login and
// /api/auth/login/ are public, /api/auth/loginX is not.
func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// AuthFilter verifies the bearer token on every non-public request before it
// is proxied. On success the verified subject replaces any inbound
// X-User-Id header so downstream services never see a spoofed identity. On
// failure the request is rejected with 401 and not forwarded.
func AuthFilter(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// The identity header is owned by the gateway. Drop whatever
			// the client sent before any routing decision.
			req.Header.Del(IdentityHeader)

			if isPublic(req.URL.Path) {
				return next(c)
			}

			auth := req.Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.NoContent(http.StatusUnauthorized)
			}
			sub, err := tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}

			req.Header.Set(IdentityHeader, sub)
			return next(c)
		}
	}
}
