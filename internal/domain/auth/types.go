// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"time"

	"github.com/balaji2k423/class-room/internal/domain/model"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is a supported value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	SubjectID   string // provider-stable subject identifier (e.g., Google "sub")
	Email       string
	DisplayName string
}

// Claims is the payload carried inside a signed session token.
type Claims struct {
	AccountID string
	Role      Role
	ExpiresAt time.Time
}

// Principal is the per-request authorization context resolved by the
// auth middleware: the stored account plus a live-computed admin flag.
//
// IsAdmin is recomputed from the account's current email on every request
// and may diverge from Account.Role, which is frozen at first login.
// The stored role drives the post-login redirect; IsAdmin drives
// request-time authorization. Both paths are kept deliberately distinct.
type Principal struct {
	Account *model.Account
	IsAdmin bool
}
