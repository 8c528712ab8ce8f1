package handler // handler defines http handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/middleware"
)

// getUserID extracts the verified credential id stored in the context by
// the auth middleware. It errors when the request was not authenticated.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get(middleware.UserIDKey).(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("no verified user in context")
}
