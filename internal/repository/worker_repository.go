package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/model"
)

// WorkerRepo provides CRUD operations for workers.
type WorkerRepo struct{ db *sql.DB }

func NewWorkerRepo(db *sql.DB) *WorkerRepo { return &WorkerRepo{db: db} }

// Create inserts a worker and returns the stored record. userID links the
// worker to the credential that created it and may be nil. Names are not
// unique.
func (r *WorkerRepo) Create(ctx context.Context, name, role string, userID *string) (*model.Worker, error) {
	w := &model.Worker{
		ID:     uuid.NewString(),
		Name:   name,
		Role:   role,
		UserID: userID,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workers (id, name, role, user_id) VALUES (?,?,?,?)`,
		w.ID, w.Name, w.Role, w.UserID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetByID fetches a worker, returning ErrWorkerNotFound when absent.
func (r *WorkerRepo) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var w model.Worker
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, user_id FROM workers WHERE id = ?`,
		id).Scan(&w.ID, &w.Name, &w.Role, &w.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListAll returns every worker ordered by name.
func (r *WorkerRepo) ListAll(ctx context.Context) ([]*model.Worker, error) {
	return r.list(ctx, `SELECT id, name, role, user_id FROM workers ORDER BY name, id`)
}

// ListByRole returns workers holding the given role.
func (r *WorkerRepo) ListByRole(ctx context.Context, role string) ([]*model.Worker, error) {
	return r.list(ctx,
		`SELECT id, name, role, user_id FROM workers WHERE role = ? ORDER BY name, id`, role)
}

// ListByUser returns the workers owned by a credential. Used by the
// /api/workers/me endpoint with the verified subject.
func (r *WorkerRepo) ListByUser(ctx context.Context, userID string) ([]*model.Worker, error) {
	return r.list(ctx,
		`SELECT id, name, role, user_id FROM workers WHERE user_id = ? ORDER BY name, id`, userID)
}

func (r *WorkerRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Worker, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Worker{}
	for rows.Next() {
		w := new(model.Worker)
		if err := rows.Scan(&w.ID, &w.Name, &w.Role, &w.UserID); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
