// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateMeRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=150"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UserResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FullName      string     `json:"fullName"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastAccessAt  *time.Time `json:"lastAccessAt,omitempty"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
}

// maxPage bounds Page so Offset cannot overflow.
const maxPage = 100_000

func (p *ListUsersParams) Normalize() {
	p.Page = min(max(p.Page, 1), maxPage)
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		Active:        u.Active,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		LastAccessAt:  u.LastAccessAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
