package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/model"
)

// AssignmentRepo owns the shift_assignments table and the invariants around
// it: a (shift, worker) pair exists at most once, both references must
// resolve, and removing a shift takes its assignments with it atomically.
type AssignmentRepo struct{ db *sql.DB }

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// Assign pairs a worker with a shift inside a single transaction. It fails
// with ErrShiftNotFound / ErrWorkerNotFound when a reference is missing and
// with ErrAssignmentExists when the pair is already assigned. The duplicate
// pre-check closes the common path; the UNIQUE(shift_id, worker_id)
// constraint closes the race between concurrent assigns.
func (r *AssignmentRepo) Assign(ctx context.Context, shiftID, workerID string) (a *model.ShiftAssignment, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// err is a named return so a failed commit reaches the caller.
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
		if err != nil {
			a = nil
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM shifts WHERE id = ?`, shiftID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShiftNotFound
		}
		return nil, err
	}
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM workers WHERE id = ?`, workerID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrWorkerNotFound
		}
		return nil, err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM shift_assignments WHERE shift_id = ? AND worker_id = ?`,
		shiftID, workerID).Scan(&exists)
	if err == nil {
		err = ErrAssignmentExists
		return nil, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	a = &model.ShiftAssignment{
		ID:         uuid.NewString(),
		ShiftID:    shiftID,
		WorkerID:   workerID,
		AssignedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO shift_assignments (id, shift_id, worker_id, assigned_at) VALUES (?,?,?,?)`,
		a.ID, a.ShiftID, a.WorkerID, a.AssignedAt)
	if err != nil {
		if isDuplicateKey(err) {
			err = ErrAssignmentExists
		}
		return nil, err
	}
	return a, nil
}

// Unassign removes every assignment for the pair. Deleting zero rows is not
// an error; the operation is idempotent. The number of removed rows is
// returned for logging.
func (r *AssignmentRepo) Unassign(ctx context.Context, shiftID, workerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shift_assignments WHERE shift_id = ? AND worker_id = ?`,
		shiftID, workerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnassignShift removes every assignment referencing the shift, leaving the
// shift itself in place. Used by the legacy unassign route.
func (r *AssignmentRepo) UnassignShift(ctx context.Context, shiftID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shift_assignments WHERE shift_id = ?`, shiftID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RemoveShift deletes a shift and all assignments referencing it as one
// transaction. Either both deletes apply or neither does; a reader can
// never observe assignments without their shift or the shift without its
// assignments half-removed. Returns ErrShiftNotFound when the shift does
// not exist.
func (r *AssignmentRepo) RemoveShift(ctx context.Context, shiftID string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Named return: the deferred commit's error must propagate.
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM shift_assignments WHERE shift_id = ?`, shiftID); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, shiftID); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrShiftNotFound
		return err
	}
	return nil
}

// ListAll returns every assignment ordered by creation time.
func (r *AssignmentRepo) ListAll(ctx context.Context) ([]*model.ShiftAssignment, error) {
	return r.list(ctx,
		`SELECT id, shift_id, worker_id, assigned_at FROM shift_assignments ORDER BY assigned_at, id`)
}

// ListByShift returns the assignments for one shift.
func (r *AssignmentRepo) ListByShift(ctx context.Context, shiftID string) ([]*model.ShiftAssignment, error) {
	return r.list(ctx,
		`SELECT id, shift_id, worker_id, assigned_at FROM shift_assignments
		 WHERE shift_id = ? ORDER BY assigned_at, id`, shiftID)
}

// ListByWorker returns a worker's assignments joined with shift scheduling
// fields so clients can render an agenda without further lookups.
func (r *AssignmentRepo) ListByWorker(ctx context.Context, workerID string) ([]*model.AssignmentDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.shift_id, a.worker_id, a.assigned_at,
		        s.date, s.required_role,
		        TIME_FORMAT(s.start_time,'%H:%i'), TIME_FORMAT(s.end_time,'%H:%i')
		 FROM shift_assignments a
		 JOIN shifts s ON s.id = a.shift_id
		 WHERE a.worker_id = ?
		 ORDER BY s.date, s.start_time, a.id`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.AssignmentDetail{}
	for rows.Next() {
		d := new(model.AssignmentDetail)
		if err := rows.Scan(&d.ID, &d.ShiftID, &d.WorkerID, &d.AssignedAt,
			&d.Date, &d.RequiredRole, &d.StartTime, &d.EndTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AssignmentRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.ShiftAssignment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.ShiftAssignment{}
	for rows.Next() {
		a := new(model.ShiftAssignment)
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.WorkerID, &a.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
