package model

// Worker is a schedulable staff member. Role is free-form in the schema but
// conventionally one of: floor, floor-manager, administration, manager.
// UserID links the worker to the credential that registered it; the column
// is nullable because workers can be created by administrators on behalf of
// staff who have not signed up yet.
//
// Fields:
//  ID     – UUID primary key.
//  Name   – display name; not unique.
//  Role   – role the worker can fill.
//  UserID – owning credential (nullable).
type Worker struct {
	ID     string  `json:"id"`      // workers.id
	Name   string  `json:"name"`    // workers.name
	Role   string  `json:"role"`    // workers.role
	UserID *string `json:"user_id"` // workers.user_id (nullable)
}
