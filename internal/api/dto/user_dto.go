package dto

import "time"

// CredentialRequest is the shared credential triple checked on login. The
// registration payload embeds it rather than redeclaring the fields.
type CredentialRequest struct {
	MobileNo string `json:"mobileNo"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name string `json:"name"`
	CredentialRequest
}

// TokenValidateRequest payload for token validation.
type TokenValidateRequest struct {
	Token string `json:"token"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse echoes the authenticated identity alongside the token.
type LoginResponse struct {
	UserID   string       `json:"userId"`
	UserType string       `json:"userType"`
	Auth     AuthResponse `json:"auth"`
}
