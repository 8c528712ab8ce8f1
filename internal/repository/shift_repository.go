package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/model"
)

// ShiftRepo provides CRUD operations for shifts. Assignment state is owned
// by the shift_assignments table; the unassigned listing therefore derives
// from an anti-join, never from a column on the shift row.
type ShiftRepo struct{ db *sql.DB }

func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{db: db} }

// Create inserts an unassigned shift and returns the stored record.
// Overlapping shifts for the same role are allowed; no overlap check is
// performed here.
func (r *ShiftRepo) Create(ctx context.Context, date time.Time, requiredRole, startTime, endTime string) (*model.Shift, error) {
	s := &model.Shift{
		ID:           uuid.NewString(),
		Date:         date,
		RequiredRole: requiredRole,
		StartTime:    startTime,
		EndTime:      endTime,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (id, date, required_role, start_time, end_time) VALUES (?,?,?,?,?)`,
		s.ID, s.Date.Format("2006-01-02"), s.RequiredRole, s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID fetches a shift, returning ErrShiftNotFound when absent.
func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var s model.Shift
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, required_role, TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i')
		 FROM shifts WHERE id = ?`,
		id).Scan(&s.ID, &s.Date, &s.RequiredRole, &s.StartTime, &s.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns every shift ordered by date and start time.
func (r *ShiftRepo) ListAll(ctx context.Context) ([]*model.Shift, error) {
	return r.list(ctx,
		`SELECT id, date, required_role, TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i')
		 FROM shifts ORDER BY date, start_time, id`)
}

// ListByDate returns the shifts on a calendar day.
func (r *ShiftRepo) ListByDate(ctx context.Context, date time.Time) ([]*model.Shift, error) {
	return r.list(ctx,
		`SELECT id, date, required_role, TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i')
		 FROM shifts WHERE date = ? ORDER BY start_time, id`,
		date.Format("2006-01-02"))
}

// ListByRole returns the shifts requiring the given role.
func (r *ShiftRepo) ListByRole(ctx context.Context, role string) ([]*model.Shift, error) {
	return r.list(ctx,
		`SELECT id, date, required_role, TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i')
		 FROM shifts WHERE required_role = ? ORDER BY date, start_time, id`, role)
}

// ListUnassigned returns shifts with no assignment row. The anti-join is
// the single source of truth for "unassigned".
func (r *ShiftRepo) ListUnassigned(ctx context.Context) ([]*model.Shift, error) {
	return r.list(ctx,
		`SELECT s.id, s.date, s.required_role, TIME_FORMAT(s.start_time,'%H:%i'), TIME_FORMAT(s.end_time,'%H:%i')
		 FROM shifts s
		 WHERE NOT EXISTS (SELECT 1 FROM shift_assignments a WHERE a.shift_id = s.id)
		 ORDER BY s.date, s.start_time, s.id`)
}

func (r *ShiftRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Shift, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Shift{}
	for rows.Next() {
		s := new(model.Shift)
		if err := rows.Scan(&s.ID, &s.Date, &s.RequiredRole, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
