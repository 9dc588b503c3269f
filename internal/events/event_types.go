package events

import (
	"time"

	"github.com/hilltop/user-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
)

// Event represents a domain event emitted by services. Payloads carry no
// password or hash material.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	MobileNo string          `json:"mobile_no"`
	UserType domain.UserType `json:"user_type"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	MobileNo       string          `json:"mobile_no"`
	UserType       domain.UserType `json:"user_type"`
	TokenExpiresAt time.Time       `json:"token_expires_at"`
}
