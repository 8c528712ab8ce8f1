package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/queue"
	"github.com/rosterd/rosterd/internal/repository"
)

// AssignmentHandler serves the shift-assignment endpoints. Publish, when
// set, emits a ShiftAssignedEvent after a successful assignment; emission
// failures are never surfaced to the caller.
type AssignmentHandler struct {
	Assignments AssignmentStore
	Publish     func(ctx context.Context, ev queue.ShiftAssignedEvent) error
}

func NewAssignmentHandler(a AssignmentStore) *AssignmentHandler {
	if a == nil {
		panic("nil store passed to NewAssignmentHandler")
	}
	return &AssignmentHandler{Assignments: a}
}

type assignReq struct {
	ShiftID  string `json:"shift_id" validate:"required"`
	WorkerID string `json:"worker_id" validate:"required"`
}

func (h *AssignmentHandler) assign(c echo.Context, shiftID, workerID string) error {
	a, err := h.Assignments.Assign(c.Request().Context(), shiftID, workerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		case errors.Is(err, repository.ErrWorkerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "worker not found"})
		case errors.Is(err, repository.ErrAssignmentExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "worker already assigned to this shift"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}

	if h.Publish != nil {
		// Best effort. The assignment is already committed.
		_ = h.Publish(c.Request().Context(), queue.ShiftAssignedEvent{
			AssignmentID: a.ID,
			ShiftID:      a.ShiftID,
			WorkerID:     a.WorkerID,
			AssignedAt:   a.AssignedAt,
		})
	}
	return c.JSON(http.StatusCreated, a)
}

// Assign links a worker to a shift.
// POST /api/shift-assignments/assign (protected)
func (h *AssignmentHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return h.assign(c, req.ShiftID, req.WorkerID)
}

// AssignByPath is the path-parameter form of Assign kept for callers of
// the older shift-centric routes.
// PUT /api/shifts/:id/assign/:workerId (protected)
func (h *AssignmentHandler) AssignByPath(c echo.Context) error {
	return h.assign(c, c.Param("id"), c.Param("workerId"))
}

// Unassign removes one worker from one shift. Removing a link that does
// not exist is not an error.
// DELETE /api/shift-assignments/unassign/:shiftId/:workerId (protected)
func (h *AssignmentHandler) Unassign(c echo.Context) error {
	if _, err := h.Assignments.Unassign(c.Request().Context(), c.Param("shiftId"), c.Param("workerId")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unassign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UnassignShift clears every assignment on a shift.
// PUT /api/shifts/:id/unassign (protected)
func (h *AssignmentHandler) UnassignShift(c echo.Context) error {
	if _, err := h.Assignments.UnassignShift(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unassign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveShift deletes a shift together with all of its assignments.
// DELETE /api/shifts/:id (protected)
func (h *AssignmentHandler) RemoveShift(c echo.Context) error {
	if err := h.Assignments.RemoveShift(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns every assignment.
// GET /api/shift-assignments
func (h *AssignmentHandler) List(c echo.Context) error {
	as, err := h.Assignments.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, as)
}

// ListByShift returns the assignments on one shift.
// GET /api/shift-assignments/shift/:shiftId
func (h *AssignmentHandler) ListByShift(c echo.Context) error {
	as, err := h.Assignments.ListByShift(c.Request().Context(), c.Param("shiftId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, as)
}

// ListByWorker returns a worker's schedule with shift details joined in.
// GET /api/shift-assignments/worker/:workerId
func (h *AssignmentHandler) ListByWorker(c echo.Context) error {
	as, err := h.Assignments.ListByWorker(c.Request().Context(), c.Param("workerId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, as)
}
