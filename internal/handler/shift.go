package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rosterd/rosterd/internal/repository"
)

// ShiftHandler serves the /api/shifts endpoints.
type ShiftHandler struct {
	Shifts ShiftStore
}

func NewShiftHandler(s ShiftStore) *ShiftHandler {
	if s == nil {
		panic("nil store passed to NewShiftHandler")
	}
	return &ShiftHandler{Shifts: s}
}

type createShiftReq struct {
	Date         string `json:"date" validate:"required"`
	RequiredRole string `json:"required_role" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
}

// Create opens a new shift.
// POST /api/shifts (protected)
func (h *ShiftHandler) Create(c echo.Context) error {
	var req createShiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	s, err := h.Shifts.Create(c.Request().Context(), date, req.RequiredRole, req.StartTime, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create shift failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// Get fetches one shift.
// GET /api/shifts/:id
func (h *ShiftHandler) Get(c echo.Context) error {
	s, err := h.Shifts.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// List returns every shift.
// GET /api/shifts
func (h *ShiftHandler) List(c echo.Context) error {
	ss, err := h.Shifts.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ss)
}

// ListByDate returns the shifts on one calendar day.
// GET /api/shifts/date/:date
func (h *ShiftHandler) ListByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ss, err := h.Shifts.ListByDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ss)
}

// ListByRole returns shifts requiring a role.
// GET /api/shifts/role/:role
func (h *ShiftHandler) ListByRole(c echo.Context) error {
	ss, err := h.Shifts.ListByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ss)
}

// ListUnassigned returns shifts with no assignment row.
// GET /api/shifts/unassigned
func (h *ShiftHandler) ListUnassigned(c echo.Context) error {
	ss, err := h.Shifts.ListUnassigned(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ss)
}
