package domain

import (
	"fmt"
	"time"
)

// UserType is the closed set of account types a user can register as.
type UserType string

const (
	UserTypeUser  UserType = "USER"
	UserTypeAdmin UserType = "ADMIN"
)

// ParseUserType validates a raw string against the known user types.
func ParseUserType(raw string) (UserType, error) {
	switch UserType(raw) {
	case UserTypeUser:
		return UserTypeUser, nil
	case UserTypeAdmin:
		return UserTypeAdmin, nil
	default:
		return "", fmt.Errorf("unknown user type %q", raw)
	}
}

// User is the domain model for registered accounts. MobileNo is the unique
// human-facing identifier and is immutable after creation. PasswordHash is
// opaque and must never appear in logs or responses.
type User struct {
	ID           string
	Name         string
	MobileNo     string
	PasswordHash string
	UserType     UserType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
