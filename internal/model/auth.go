package model

import "time"

type RegisterRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           Role   `json:"role" binding:"required,role"`
	Specialization string `json:"specialization" binding:"max=100"`
}

// LoginRequest carries an optional role; when set it must match the
// stored one.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"omitempty,role"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *Account  `json:"user"`
}
