package models

import (
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
)

// ParseRole normalizes a caller-supplied role string to a RoleType.
// Returns false when the value names no known role.
func ParseRole(s string) (RoleType, bool) {
	switch RoleType(s) {
	case RoleStudent:
		return RoleStudent, true
	case RoleInstructor:
		return RoleInstructor, true
	}
	return "", false
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FullName  string    `json:"fullName" db:"full_name"`
	Role      RoleType  `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
