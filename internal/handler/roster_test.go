package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/middleware"
	"github.com/rosterd/rosterd/internal/model"
	"github.com/rosterd/rosterd/internal/queue"
	"github.com/rosterd/rosterd/internal/token"
	"github.com/rosterd/rosterd/internal/validation"
)

type rosterServer struct {
	e       *echo.Echo
	tokens  *token.Service
	workers *memWorkerStore
	roster  *memRoster
	asg     *AssignmentHandler
}

// bearer mints a valid access token for an arbitrary subject.
func (s *rosterServer) bearer(t *testing.T) string {
	t.Helper()
	at, err := s.tokens.Issue("7b1c5a90-0000-4000-8000-000000000001")
	require.NoError(t, err)
	return at.Token
}

func newRosterServer(t *testing.T) *rosterServer {
	t.Helper()
	tokens := token.NewService("test-secret", 15)
	workers := newMemWorkerStore()
	roster := newMemRoster(workers)

	w := NewWorkerHandler(workers)
	s := NewShiftHandler(roster)
	a := NewAssignmentHandler(&memAssignments{r: roster})

	e := echo.New()
	e.Validator = validation.New()
	auth := middleware.RequireAuth(tokens)

	wg := e.Group("/api/workers")
	wg.POST("", w.Create, auth)
	wg.GET("/me", w.Mine, auth)
	wg.GET("", w.List)
	wg.GET("/role/:role", w.ListByRole)
	wg.GET("/:id", w.Get)

	sg := e.Group("/api/shifts")
	sg.POST("", s.Create, auth)
	sg.PUT("/:id/assign/:workerId", a.AssignByPath, auth)
	sg.PUT("/:id/unassign", a.UnassignShift, auth)
	sg.DELETE("/:id", a.RemoveShift, auth)
	sg.GET("", s.List)
	sg.GET("/unassigned", s.ListUnassigned)
	sg.GET("/date/:date", s.ListByDate)
	sg.GET("/role/:role", s.ListByRole)
	sg.GET("/:id", s.Get)

	ag := e.Group("/api/shift-assignments")
	ag.POST("/assign", a.Assign, auth)
	ag.DELETE("/unassign/:shiftId/:workerId", a.Unassign, auth)
	ag.GET("", a.List)
	ag.GET("/shift/:shiftId", a.ListByShift)
	ag.GET("/worker/:workerId", a.ListByWorker)

	return &rosterServer{e: e, tokens: tokens, workers: workers, roster: roster, asg: a}
}

func (s *rosterServer) createWorker(t *testing.T, bearer, name, role string) model.Worker {
	t.Helper()
	rec := doJSON(s.e, http.MethodPost, "/api/workers", `{"name":"`+name+`","role":"`+role+`"}`, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var w model.Worker
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	return w
}

func (s *rosterServer) createShift(t *testing.T, bearer, date, role, start, end string) model.Shift {
	t.Helper()
	body := `{"date":"` + date + `","required_role":"` + role + `","start_time":"` + start + `","end_time":"` + end + `"}`
	rec := doJSON(s.e, http.MethodPost, "/api/shifts", body, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sh model.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sh))
	return sh
}

func TestMutatingRosterRoutesRequireAuth(t *testing.T) {
	s := newRosterServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/api/workers", `{"name":"n","role":"floor"}`},
		{http.MethodPost, "/api/shifts", `{"date":"2026-09-01","required_role":"floor","start_time":"09:00","end_time":"17:00"}`},
		{http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"x","worker_id":"y"}`},
		{http.MethodDelete, "/api/shift-assignments/unassign/x/y", ""},
		{http.MethodDelete, "/api/shifts/x", ""},
		{http.MethodPut, "/api/shifts/x/assign/y", ""},
		{http.MethodPut, "/api/shifts/x/unassign", ""},
		{http.MethodGet, "/api/workers/me", ""},
	} {
		rec := doJSON(s.e, tc.method, tc.path, tc.body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestWorkerCreateAndBrowse(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	assert.NotEmpty(t, w.ID)
	require.NotNil(t, w.UserID)

	s.createWorker(t, b, "Eli", "floor-manager")

	rec := doJSON(s.e, http.MethodGet, "/api/workers", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.Worker
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rec = doJSON(s.e, http.MethodGet, "/api/workers/role/floor", "", "")
	var floor []model.Worker
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &floor))
	require.Len(t, floor, 1)
	assert.Equal(t, "Dana", floor[0].Name)

	rec = doJSON(s.e, http.MethodGet, "/api/workers/"+w.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s.e, http.MethodGet, "/api/workers/no-such-id", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The caller's own workers carry its credential id.
	rec = doJSON(s.e, http.MethodGet, "/api/workers/me", "", b)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []model.Worker
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)
}

func TestShiftCreateValidation(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	bad := []string{
		`{"date":"09-01-2026","required_role":"floor","start_time":"09:00","end_time":"17:00"}`,
		`{"date":"2026-09-01","required_role":"floor","start_time":"9am","end_time":"17:00"}`,
		`{"date":"2026-09-01","required_role":"floor","start_time":"17:00","end_time":"09:00"}`,
		`{"date":"2026-09-01","start_time":"09:00","end_time":"17:00"}`,
	}
	for _, body := range bad {
		rec := doJSON(s.e, http.MethodPost, "/api/shifts", body, b)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	assert.Equal(t, "09:00", sh.StartTime)
	assert.Equal(t, "17:00", sh.EndTime)
}

func TestShiftBrowseFilters(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	s.createShift(t, b, "2026-09-01", "manager", "08:00", "16:00")
	s.createShift(t, b, "2026-09-02", "floor", "09:00", "17:00")

	rec := doJSON(s.e, http.MethodGet, "/api/shifts", "", "")
	var all []model.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	rec = doJSON(s.e, http.MethodGet, "/api/shifts/date/2026-09-01", "", "")
	var day []model.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Len(t, day, 2)

	rec = doJSON(s.e, http.MethodGet, "/api/shifts/date/tomorrow", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s.e, http.MethodGet, "/api/shifts/role/floor", "", "")
	var floor []model.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &floor))
	assert.Len(t, floor, 2)
}

func TestAssignEnforcesReferencesAndUniqueness(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")

	assignBody := `{"shift_id":"` + sh.ID + `","worker_id":"` + w.ID + `"}`
	rec := doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", assignBody, b)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Same pair again is a conflict, and no second row appears.
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", assignBody, b)
	assert.Equal(t, http.StatusConflict, rec.Code)
	list, err := s.roster.ListAllAssignments(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Missing references are 404s.
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"nope","worker_id":"`+w.ID+`"}`, b)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"nope"}`, b)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyAssignRouteSharesTheSameGuard(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")

	rec := doJSON(s.e, http.MethodPut, "/api/shifts/"+sh.ID+"/assign/"+w.ID, "", b)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The body-based route sees the legacy assignment.
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w.ID+`"}`, b)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnassignIsIdempotent(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w.ID+`"}`, b)

	path := "/api/shift-assignments/unassign/" + sh.ID + "/" + w.ID
	rec := doJSON(s.e, http.MethodDelete, path, "", b)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Removing the same link again still succeeds.
	rec = doJSON(s.e, http.MethodDelete, path, "", b)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnassignedListingTracksAssignments(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	s1 := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	s2 := s.createShift(t, b, "2026-09-02", "floor", "09:00", "17:00")

	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+s1.ID+`","worker_id":"`+w.ID+`"}`, b)

	rec := doJSON(s.e, http.MethodGet, "/api/shifts/unassigned", "", "")
	var open []model.Shift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &open))
	require.Len(t, open, 1)
	assert.Equal(t, s2.ID, open[0].ID)

	// Clearing the assignment puts the shift back in the pool.
	doJSON(s.e, http.MethodPut, "/api/shifts/"+s1.ID+"/unassign", "", b)
	rec = doJSON(s.e, http.MethodGet, "/api/shifts/unassigned", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &open))
	assert.Len(t, open, 2)
}

func TestRemoveShiftCascades(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w.ID+`"}`, b)

	rec := doJSON(s.e, http.MethodDelete, "/api/shifts/"+sh.ID, "", b)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Shift and its assignments are both gone.
	rec = doJSON(s.e, http.MethodGet, "/api/shifts/"+sh.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	list, err := s.roster.ListAllAssignments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	rec = doJSON(s.e, http.MethodDelete, "/api/shifts/"+sh.ID, "", b)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveShiftFailureLeavesEverythingInPlace(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")
	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w.ID+`"}`, b)

	s.roster.failRemove = errors.New("storage unavailable")
	rec := doJSON(s.e, http.MethodDelete, "/api/shifts/"+sh.ID, "", b)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Neither the shift nor the assignment was half-deleted.
	s.roster.failRemove = nil
	rec = doJSON(s.e, http.MethodGet, "/api/shifts/"+sh.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	list, err := s.roster.ListAllAssignments(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssignmentListings(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	w1 := s.createWorker(t, b, "Dana", "floor")
	w2 := s.createWorker(t, b, "Eli", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")

	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w1.ID+`"}`, b)
	doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w2.ID+`"}`, b)

	rec := doJSON(s.e, http.MethodGet, "/api/shift-assignments/shift/"+sh.ID, "", "")
	var byShift []model.ShiftAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byShift))
	assert.Len(t, byShift, 2)

	// By-worker listing carries the joined shift fields.
	rec = doJSON(s.e, http.MethodGet, "/api/shift-assignments/worker/"+w1.ID, "", "")
	var byWorker []model.AssignmentDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byWorker))
	require.Len(t, byWorker, 1)
	assert.Equal(t, "09:00", byWorker[0].StartTime)
	assert.Equal(t, "floor", byWorker[0].RequiredRole)
}

func TestAssignPublishesEvent(t *testing.T) {
	s := newRosterServer(t)
	b := s.bearer(t)

	var got []queue.ShiftAssignedEvent
	s.asg.Publish = func(_ context.Context, ev queue.ShiftAssignedEvent) error {
		got = append(got, ev)
		return nil
	}

	w := s.createWorker(t, b, "Dana", "floor")
	sh := s.createShift(t, b, "2026-09-01", "floor", "09:00", "17:00")

	body := `{"shift_id":"` + sh.ID + `","worker_id":"` + w.ID + `"}`
	rec := doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", body, b)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got, 1)
	assert.Equal(t, sh.ID, got[0].ShiftID)
	assert.Equal(t, w.ID, got[0].WorkerID)
	assert.False(t, got[0].AssignedAt.IsZero())

	// A failed assignment publishes nothing, a failing publisher does not
	// fail the request.
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", body, b)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, got, 1)

	s.asg.Publish = func(context.Context, queue.ShiftAssignedEvent) error { return errors.New("broker down") }
	w2 := s.createWorker(t, b, "Eli", "floor")
	rec = doJSON(s.e, http.MethodPost, "/api/shift-assignments/assign", `{"shift_id":"`+sh.ID+`","worker_id":"`+w2.ID+`"}`, b)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
