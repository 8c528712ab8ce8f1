package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/handler"
	"github.com/rosterd/rosterd/internal/middleware"
	"github.com/rosterd/rosterd/internal/token"
)

// RegisterRoster wires the worker, shift and assignment endpoints.
//
// Browse endpoints are public and may be served from the Redis response
// cache when a client is configured. Every mutating endpoint re-verifies
// the bearer token with RequireAuth; the gateway's identity header is
// never taken at face value.
func RegisterRoster(e *echo.Echo, w *handler.WorkerHandler, s *handler.ShiftHandler, a *handler.AssignmentHandler, tokens *token.Service, rdb *redis.Client) {
	auth := middleware.RequireAuth(tokens)

	// Cache middleware for public GETs, only when Redis is reachable.
	var cached []echo.MiddlewareFunc
	if rdb != nil {
		cached = append(cached, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	// Workers. Browsing is public, creating and "my workers" require auth.
	workers := e.Group("/api/workers")
	workers.POST("", w.Create, auth)
	workers.GET("/me", w.Mine, auth)
	workers.GET("", w.List, cached...)
	workers.GET("/role/:role", w.ListByRole, cached...)
	workers.GET("/:id", w.Get, cached...)

	// Shifts. Static segments are registered before the :id parameter so
	// /unassigned and /date/... are not swallowed by it.
	shifts := e.Group("/api/shifts")
	shifts.POST("", s.Create, auth)
	shifts.PUT("/:id/assign/:workerId", a.AssignByPath, auth)
	shifts.PUT("/:id/unassign", a.UnassignShift, auth)
	shifts.DELETE("/:id", a.RemoveShift, auth)
	shifts.GET("", s.List, cached...)
	shifts.GET("/unassigned", s.ListUnassigned, cached...)
	shifts.GET("/date/:date", s.ListByDate, cached...)
	shifts.GET("/role/:role", s.ListByRole, cached...)
	shifts.GET("/:id", s.Get, cached...)

	// Assignments.
	asg := e.Group("/api/shift-assignments")
	asg.POST("/assign", a.Assign, auth)
	asg.DELETE("/unassign/:shiftId/:workerId", a.Unassign, auth)
	asg.GET("", a.List, cached...)
	asg.GET("/shift/:shiftId", a.ListByShift, cached...)
	asg.GET("/worker/:workerId", a.ListByWorker, cached...)
}
