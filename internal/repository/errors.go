// Package repository implements the persistence layer over database/sql.
// Sentinel errors let handlers distinguish failure scenarios without
// inspecting driver errors: not-found sentinels map to 404, conflict
// sentinels to 409.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when registering a credential whose email is
// already taken. The users.email UNIQUE constraint backs the check, so
// concurrent registrations cannot both succeed.
var ErrEmailExists = errors.New("email already exists")

// ErrWorkerNotFound is returned when a referenced worker does not exist.
var ErrWorkerNotFound = errors.New("worker not found")

// ErrShiftNotFound is returned when a referenced shift does not exist.
var ErrShiftNotFound = errors.New("shift not found")

// ErrAssignmentExists is returned when a (shift, worker) pair is already
// assigned. The UNIQUE(shift_id, worker_id) constraint backs the pre-check
// so the check/insert race cannot create duplicates.
var ErrAssignmentExists = errors.New("assignment already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), i.e. a UNIQUE constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
