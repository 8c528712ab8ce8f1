package handler

import (
	"context"
	"time"

	"github.com/rosterd/rosterd/internal/model"
)

// The handler layer depends on narrow store interfaces rather than the
// concrete SQL repositories so the invariants can be tested against
// in-memory fakes. The repository package satisfies all of them.

// UserStore persists credentials.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// RefreshTokenStore persists hashed refresh tokens.
type RefreshTokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// WorkerStore persists workers.
type WorkerStore interface {
	Create(ctx context.Context, name, role string, userID *string) (*model.Worker, error)
	GetByID(ctx context.Context, id string) (*model.Worker, error)
	ListAll(ctx context.Context) ([]*model.Worker, error)
	ListByRole(ctx context.Context, role string) ([]*model.Worker, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Worker, error)
}

// ShiftStore persists shifts.
type ShiftStore interface {
	Create(ctx context.Context, date time.Time, requiredRole, startTime, endTime string) (*model.Shift, error)
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	ListAll(ctx context.Context) ([]*model.Shift, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.Shift, error)
	ListByRole(ctx context.Context, role string) ([]*model.Shift, error)
	ListUnassigned(ctx context.Context) ([]*model.Shift, error)
}

// AssignmentStore persists shift assignments and owns their invariants.
type AssignmentStore interface {
	Assign(ctx context.Context, shiftID, workerID string) (*model.ShiftAssignment, error)
	Unassign(ctx context.Context, shiftID, workerID string) (int64, error)
	UnassignShift(ctx context.Context, shiftID string) (int64, error)
	RemoveShift(ctx context.Context, shiftID string) error
	ListAll(ctx context.Context) ([]*model.ShiftAssignment, error)
	ListByShift(ctx context.Context, shiftID string) ([]*model.ShiftAssignment, error)
	ListByWorker(ctx context.Context, workerID string) ([]*model.AssignmentDetail, error)
}
