package domain

import (
	"errors"
	"time"
)

const (
	RoleUser     = "user"
	RoleReporter = "reporter"
	RoleAdmin    = "admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleReporter, RoleAdmin:
		return true
	}
	return false
}

// User models an account that can sign in. Role is fixed at creation.
type User struct {
	ID           int64     `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	Name         string    `json:"name" bson:"name"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the decoded bearer credential attached to an authenticated request.
type Identity struct {
	ID    int64
	Email string
	Role  string
	Name  string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
