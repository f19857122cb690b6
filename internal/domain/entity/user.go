// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"strings"
)

// Role represents the account type of a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleDispatcher Role = "dispatcher"
)

// ParseRole converts a raw role name into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleUser:
		return RoleUser, nil
	case RoleDispatcher:
		return RoleDispatcher, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// IsDispatcher reports whether the role requires a Dispatcher record.
func (r Role) IsDispatcher() bool {
	return r == RoleDispatcher
}

// User represents an account. PasswordHash is never a plain-text password.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         Role
}

// Dispatcher is the role-specific extension of a dispatcher-role User.
type Dispatcher struct {
	ID     int
	UserID int
	AreaID int
}

// Session binds an opaque token to a user. IsValid is the only authority
// on whether the token may authorize requests.
type Session struct {
	Token   string
	UserID  int
	IsValid bool
}
