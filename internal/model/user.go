package model

import "time"

// User represents a registered credential as stored in the `users` table.
// The password is only ever stored as a bcrypt hash; handlers define
// separate response types so the hash never leaves the service.
//
// Fields:
//  ID           – UUID primary key of the credential.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user; only the SHA-256 hash of the token value is
// stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
