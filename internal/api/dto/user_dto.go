package dto

import "time"

// RegisterRequest payload for new members.
type RegisterRequest struct {
	Username          string `json:"username" validate:"required,max=100"`
	Phone             string `json:"phone" validate:"required,max=32"`
	Email             string `json:"email" validate:"omitempty,max=254"`
	Role              string `json:"role" validate:"omitempty,oneof=user admin"`
	ResidencyID       string `json:"residencyId" validate:"required,max=64"`
	WorkingProfession string `json:"workingProfession" validate:"omitempty,max=100"`
}

// LoginRequest payload for login. Identifier is a phone number or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=100"`
}

// UserResponse describes a member.
type UserResponse struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	Phone             string  `json:"phone"`
	Email             *string `json:"email,omitempty"`
	Role              string  `json:"role"`
	ResidencyID       string  `json:"residencyId"`
	WorkingProfession *string `json:"workingProfession,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	View      string       `json:"view"`
	User      UserResponse `json:"user"`
}

// SessionResponse describes the caller, signed in or not.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	View          string        `json:"view"`
	User          *UserResponse `json:"user,omitempty"`
}
