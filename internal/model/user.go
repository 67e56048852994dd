package model

import (
	"time"

	"github.com/google/uuid"
)

// User status values
const (
	UserStatusActive  = "active"
	UserStatusLocked  = "locked"
	UserStatusPending = "pending"
)

// Default role names
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleUser    = "user"
)

// Role is a named permission level attached to users.
type Role struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// User is an authenticated account.
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Username         string     `json:"username" db:"username"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	RoleID           *uuid.UUID `json:"role_id,omitempty" db:"role_id"`
	RoleName         *string    `json:"role,omitempty" db:"role_name"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	Organization     string     `json:"organization" db:"organization"`
	Position         string     `json:"position" db:"position"`
	Status           string     `json:"status" db:"status"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"-" db:"last_login_attempt"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// FullName returns the display name, falling back to the username.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Dashboard is a user-saved view layout.
type Dashboard struct {
	Base
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Layout      JSONMap   `json:"layout" db:"layout"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
}
