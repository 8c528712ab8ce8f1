// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// ShiftAssignedEvent is published when a worker is successfully assigned
// to a shift. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ShiftAssignedEvent struct {
	AssignmentID string    `json:"assignment_id"`
	ShiftID      string    `json:"shift_id"`
	WorkerID     string    `json:"worker_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}
