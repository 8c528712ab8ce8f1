package router // package router defines how HTTP routes are registered for each service

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/rosterd/rosterd/internal/handler"    // import the handlers that implement business logic
	"github.com/rosterd/rosterd/internal/middleware" // import middleware for JWT authentication
	"github.com/rosterd/rosterd/internal/token"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler. This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /api/auth,
// while the protected profile endpoint verifies its own bearer token even
// though the gateway has already checked it. The services never trust an
// identity header on its own.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *token.Service) {
	// Group for operations that do not require an existing session
	// (register, login, refresh, logout). Each of these handlers is
	// responsible for generating or exchanging tokens.
	g := e.Group("/api/auth")
	// Register a POST endpoint to handle user registration at /api/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /api/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /api/auth/refresh.
	// This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT authentication. The handler accepts a JSON
	// body containing a `refresh_token` and invalidates that token. A valid
	// token yields 204; otherwise 400/401/500 depending on the error.
	g.POST("/logout", a.Logout)

	// Profile and logout-all require a valid access token; the identity
	// comes from the re-verified bearer, never from a header.
	auth := middleware.RequireAuth(tokens)
	g.GET("/profile", a.Profile, auth)
	g.POST("/logout-all", a.LogoutAll, auth)
}
