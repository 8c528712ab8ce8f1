package model

import "time"

// Shift is a dated, timed slot requiring a worker of a given role. Whether
// a shift is assigned is answered exclusively by the shift_assignments
// table; shifts carry no inline worker reference.
//
// Fields:
//  ID           – UUID primary key.
//  Date         – calendar day of the shift (date only, UTC).
//  RequiredRole – role a worker must have to fill the shift.
//  StartTime    – start of the slot, "HH:MM" wall time.
//  EndTime      – end of the slot, "HH:MM" wall time.
type Shift struct {
	ID           string    `json:"id"`            // shifts.id
	Date         time.Time `json:"date"`          // shifts.date (DATE column)
	RequiredRole string    `json:"required_role"` // shifts.required_role
	StartTime    string    `json:"start_time"`    // shifts.start_time
	EndTime      string    `json:"end_time"`      // shifts.end_time
}

// ShiftAssignment pairs one worker with one shift. The (ShiftID, WorkerID)
// pair is unique; assigning the same worker to the same shift twice is a
// conflict.
//
// Fields:
//  ID         – UUID primary key.
//  ShiftID    – the assigned shift.
//  WorkerID   – the assigned worker.
//  AssignedAt – instant the assignment was created (UTC).
type ShiftAssignment struct {
	ID         string    `json:"id"`          // shift_assignments.id
	ShiftID    string    `json:"shift_id"`    // shift_assignments.shift_id
	WorkerID   string    `json:"worker_id"`   // shift_assignments.worker_id
	AssignedAt time.Time `json:"assigned_at"` // shift_assignments.assigned_at
}

// AssignmentDetail is a ShiftAssignment joined with its shift's scheduling
// fields. It is returned by the by-worker listing so clients can render a
// worker's agenda without extra lookups.
type AssignmentDetail struct {
	ID           string    `json:"id"`
	ShiftID      string    `json:"shift_id"`
	WorkerID     string    `json:"worker_id"`
	AssignedAt   time.Time `json:"assigned_at"`
	Date         time.Time `json:"date"`
	RequiredRole string    `json:"required_role"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
}
