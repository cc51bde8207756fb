// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a stored account. Email is kept lower-cased; Username keeps the
// case it was registered with.
type User struct {
	ID            string     `db:"id"`
	Username      string     `db:"username"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password_hash"`
	FullName      string     `db:"full_name"`
	Role          string     `db:"role"`
	Active        bool       `db:"active"`
	EmailVerified bool       `db:"email_verified"`
	CreatedAt     time.Time  `db:"created_at"`
	LastAccessAt  *time.Time `db:"last_access_at"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
