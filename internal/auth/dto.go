// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type RegisterRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=50,alphanumunderscore"`
	Email           string `json:"email"           validate:"required,email,max=150"`
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FullName        string `json:"fullName"        validate:"omitempty,max=100"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,max=150"`
	Password        string `json:"password"        validate:"required,max=128"`
}

type UserResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	Role         string     `json:"role"`
	LastAccessAt *time.Time `json:"lastAccessAt,omitempty"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresIn int          `json:"expiresIn"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		LastAccessAt: u.LastAccessAt,
	}
}
