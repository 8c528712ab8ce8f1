package handler

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/model"
	"github.com/rosterd/rosterd/internal/repository"
	"github.com/rosterd/rosterd/internal/utils"
)

// In-memory store fakes. They enforce the same invariants as the SQL
// repositories (unique email, unique (shift, worker) pair, referential
// existence, cascade delete) so handler behavior can be exercised without
// a database.

var (
	_ UserStore         = (*memUserStore)(nil)
	_ RefreshTokenStore = (*memTokenStore)(nil)
	_ WorkerStore       = (*memWorkerStore)(nil)
	_ ShiftStore        = (*memRoster)(nil)
	_ AssignmentStore   = (*memAssignments)(nil)
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User // keyed by id
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, email, password string, cost int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return "", repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.users[id] = model.User{ID: id, Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	return id, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *memUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken // keyed by hash
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]model.RefreshToken{}}
}

func (s *memTokenStore) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
	return nil
}

func (s *memTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || time.Now().After(t.ExpiresAt) {
		return "", errors.New("invalid refresh token")
	}
	return t.UserID, nil
}

func (s *memTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok {
		now := time.Now().UTC()
		t.RevokedAt = &now
		s.tokens[tokenHash] = t
	}
	return nil
}

func (s *memTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for h, t := range s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			s.tokens[h] = t
		}
	}
	return nil
}

type memWorkerStore struct {
	mu      sync.Mutex
	workers map[string]*model.Worker
}

func newMemWorkerStore() *memWorkerStore {
	return &memWorkerStore{workers: map[string]*model.Worker{}}
}

func (s *memWorkerStore) Create(_ context.Context, name, role string, userID *string) (*model.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &model.Worker{ID: uuid.NewString(), Name: name, Role: role, UserID: userID}
	s.workers[w.ID] = w
	return w, nil
}

func (s *memWorkerStore) GetByID(_ context.Context, id string) (*model.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workers[id]
	if !ok {
		return nil, repository.ErrWorkerNotFound
	}
	return w, nil
}

func (s *memWorkerStore) filter(keep func(*model.Worker) bool) []*model.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Worker{}
	for _, w := range s.workers {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *memWorkerStore) ListAll(_ context.Context) ([]*model.Worker, error) {
	return s.filter(func(*model.Worker) bool { return true }), nil
}

func (s *memWorkerStore) ListByRole(_ context.Context, role string) ([]*model.Worker, error) {
	return s.filter(func(w *model.Worker) bool { return w.Role == role }), nil
}

func (s *memWorkerStore) ListByUser(_ context.Context, userID string) ([]*model.Worker, error) {
	return s.filter(func(w *model.Worker) bool { return w.UserID != nil && *w.UserID == userID }), nil
}

// memRoster backs both ShiftStore and AssignmentStore so the assignment
// invariants can see the shift and worker tables, as the SQL layer does.
type memRoster struct {
	mu          sync.Mutex
	workers     *memWorkerStore
	shifts      map[string]*model.Shift
	assignments map[string]*model.ShiftAssignment

	failRemove error // injected fault for RemoveShift
}

func newMemRoster(workers *memWorkerStore) *memRoster {
	return &memRoster{
		workers:     workers,
		shifts:      map[string]*model.Shift{},
		assignments: map[string]*model.ShiftAssignment{},
	}
}

func (s *memRoster) Create(_ context.Context, date time.Time, requiredRole, startTime, endTime string) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := &model.Shift{ID: uuid.NewString(), Date: date, RequiredRole: requiredRole, StartTime: startTime, EndTime: endTime}
	s.shifts[sh.ID] = sh
	return sh, nil
}

func (s *memRoster) GetByID(_ context.Context, id string) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[id]
	if !ok {
		return nil, repository.ErrShiftNotFound
	}
	return sh, nil
}

func (s *memRoster) list(keep func(*model.Shift) bool) []*model.Shift {
	out := []*model.Shift{}
	for _, sh := range s.shifts {
		if keep(sh) {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (s *memRoster) ListAll(_ context.Context) ([]*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(*model.Shift) bool { return true }), nil
}

func (s *memRoster) ListByDate(_ context.Context, date time.Time) ([]*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(sh *model.Shift) bool { return sh.Date.Equal(date) }), nil
}

func (s *memRoster) ListByRole(_ context.Context, role string) ([]*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(sh *model.Shift) bool { return sh.RequiredRole == role }), nil
}

func (s *memRoster) ListUnassigned(_ context.Context) ([]*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assigned := map[string]bool{}
	for _, a := range s.assignments {
		assigned[a.ShiftID] = true
	}
	return s.list(func(sh *model.Shift) bool { return !assigned[sh.ID] }), nil
}

func (s *memRoster) Assign(_ context.Context, shiftID, workerID string) (*model.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[shiftID]; !ok {
		return nil, repository.ErrShiftNotFound
	}
	if _, err := s.workers.GetByID(context.Background(), workerID); err != nil {
		return nil, repository.ErrWorkerNotFound
	}
	for _, a := range s.assignments {
		if a.ShiftID == shiftID && a.WorkerID == workerID {
			return nil, repository.ErrAssignmentExists
		}
	}
	a := &model.ShiftAssignment{ID: uuid.NewString(), ShiftID: shiftID, WorkerID: workerID, AssignedAt: time.Now().UTC()}
	s.assignments[a.ID] = a
	return a, nil
}

func (s *memRoster) Unassign(_ context.Context, shiftID, workerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, a := range s.assignments {
		if a.ShiftID == shiftID && a.WorkerID == workerID {
			delete(s.assignments, id)
			n++
		}
	}
	return n, nil
}

func (s *memRoster) UnassignShift(_ context.Context, shiftID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, a := range s.assignments {
		if a.ShiftID == shiftID {
			delete(s.assignments, id)
			n++
		}
	}
	return n, nil
}

func (s *memRoster) RemoveShift(_ context.Context, shiftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemove != nil {
		// All or nothing: on failure neither assignments nor the shift go away.
		return s.failRemove
	}
	if _, ok := s.shifts[shiftID]; !ok {
		return repository.ErrShiftNotFound
	}
	for id, a := range s.assignments {
		if a.ShiftID == shiftID {
			delete(s.assignments, id)
		}
	}
	delete(s.shifts, shiftID)
	return nil
}

// memAssignments adapts memRoster to the AssignmentStore interface. A
// separate type is needed because ShiftStore and AssignmentStore both
// declare ListAll with different result types.
type memAssignments struct{ r *memRoster }

func (m *memAssignments) Assign(ctx context.Context, shiftID, workerID string) (*model.ShiftAssignment, error) {
	return m.r.Assign(ctx, shiftID, workerID)
}

func (m *memAssignments) Unassign(ctx context.Context, shiftID, workerID string) (int64, error) {
	return m.r.Unassign(ctx, shiftID, workerID)
}

func (m *memAssignments) UnassignShift(ctx context.Context, shiftID string) (int64, error) {
	return m.r.UnassignShift(ctx, shiftID)
}

func (m *memAssignments) RemoveShift(ctx context.Context, shiftID string) error {
	return m.r.RemoveShift(ctx, shiftID)
}

func (m *memAssignments) ListAll(ctx context.Context) ([]*model.ShiftAssignment, error) {
	return m.r.ListAllAssignments(ctx)
}

func (m *memAssignments) ListByShift(ctx context.Context, shiftID string) ([]*model.ShiftAssignment, error) {
	return m.r.ListByShift(ctx, shiftID)
}

func (m *memAssignments) ListByWorker(ctx context.Context, workerID string) ([]*model.AssignmentDetail, error) {
	return m.r.ListByWorker(ctx, workerID)
}

func (s *memRoster) assignmentList(keep func(*model.ShiftAssignment) bool) []*model.ShiftAssignment {
	out := []*model.ShiftAssignment{}
	for _, a := range s.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memRoster) ListAllAssignments(_ context.Context) ([]*model.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignmentList(func(*model.ShiftAssignment) bool { return true }), nil
}

func (s *memRoster) ListByShift(_ context.Context, shiftID string) ([]*model.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignmentList(func(a *model.ShiftAssignment) bool { return a.ShiftID == shiftID }), nil
}

func (s *memRoster) ListByWorker(_ context.Context, workerID string) ([]*model.AssignmentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.AssignmentDetail{}
	for _, a := range s.assignments {
		if a.WorkerID != workerID {
			continue
		}
		sh, ok := s.shifts[a.ShiftID]
		if !ok {
			continue
		}
		out = append(out, &model.AssignmentDetail{
			ID: a.ID, ShiftID: a.ShiftID, WorkerID: a.WorkerID, AssignedAt: a.AssignedAt,
			Date: sh.Date, RequiredRole: sh.RequiredRole, StartTime: sh.StartTime, EndTime: sh.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
