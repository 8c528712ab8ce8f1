package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/repository"
)

// WorkerHandler serves the /api/workers endpoints.
type WorkerHandler struct {
	Workers WorkerStore
}

func NewWorkerHandler(w WorkerStore) *WorkerHandler {
	if w == nil {
		panic("nil store passed to NewWorkerHandler")
	}
	return &WorkerHandler{Workers: w}
}

type createWorkerReq struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// Create registers a worker owned by the calling credential.
// POST /api/workers (protected)
func (h *WorkerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createWorkerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	w, err := h.Workers.Create(c.Request().Context(), req.Name, req.Role, &uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create worker failed"})
	}
	return c.JSON(http.StatusCreated, w)
}

// Get fetches one worker.
// GET /api/workers/:id
func (h *WorkerHandler) Get(c echo.Context) error {
	w, err := h.Workers.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrWorkerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "worker not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, w)
}

// List returns all workers.
// GET /api/workers
func (h *WorkerHandler) List(c echo.Context) error {
	ws, err := h.Workers.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ws)
}

// ListByRole returns workers holding a role.
// GET /api/workers/role/:role
func (h *WorkerHandler) ListByRole(c echo.Context) error {
	ws, err := h.Workers.ListByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ws)
}

// Mine returns the workers owned by the calling credential.
// GET /api/workers/me (protected)
func (h *WorkerHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ws, err := h.Workers.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ws)
}
