package model

import "time"

// Account represents a directory account created lazily on first login.
//
// Email is the natural key: exactly one account exists per email.
// Role is derived once at creation and never recomputed afterward.
type Account struct {
	ID        string    `json:"id"         db:"id"`
	GoogleID  string    `json:"-"          db:"google_id"`
	Email     string    `json:"email"      db:"email"`
	Name      string    `json:"name"       db:"name"`
	Role      string    `json:"role"       db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateAccountParams groups parameters for creating an account on first login.
type CreateAccountParams struct {
	GoogleID string
	Email    string
	Name     string
	Role     string
}
