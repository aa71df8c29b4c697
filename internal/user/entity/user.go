package entity

import (
	"fmt"
	"time"

	"github.com/medekit/clinic-core/internal/credential"
)

// Role is the closed set of account roles. Handlers parse inbound strings
// through ParseRole so an invalid role never reaches the access gate.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleClerk  Role = "clerk"
)

// ParseRole validates a role string at the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RoleClerk:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents an account row in the `users` table.
type User struct {
	ID             int64             `db:"id" json:"id"`
	Email          string            `db:"email" json:"email"`
	FullName       string            `db:"full_name" json:"full_name"`
	Role           Role              `db:"role" json:"role"`
	Active         bool              `db:"active" json:"active"`
	PasswordHash   string            `db:"password_hash" json:"-"`
	PasswordScheme credential.Scheme `db:"password_scheme" json:"-"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// Profile is the public projection returned by login and /users/me.
type Profile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
