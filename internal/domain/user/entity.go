package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleNormal  Role = "normal"
	RoleStudent Role = "student"
	RoleClient  Role = "client"
	RoleAdmin   Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the four role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNormal, RoleStudent, RoleClient, RoleAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User is the identity provider's view of an account. This service never
// writes it.
type User struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Role       Role
	IsVerified bool
	CreatedAt  time.Time
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// HasRole reports whether u holds any of roles.
func (u User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Repository resolves the current user for a validated token subject.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}
