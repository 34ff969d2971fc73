// Package models defines server-side data records persisted by repositories.
package models

import "time"

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "user"

// User is an account record. Email is unique as stored (case-sensitive).
type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Role               string
	IsEmailVerified    bool
	IsTwoFactorEnabled bool
	TwoFactorSecret    string
	LastLoginAt        *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
