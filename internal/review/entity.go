// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Review is one account's rating of one movie. UserID and MovieID never
// change after creation. Username and MovieTitle are filled by reads only.
type Review struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	MovieID    int64     `db:"movie_id"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	Username   string    `db:"username"`
	MovieTitle string    `db:"movie_title"`
}

func (r *Review) IsAuthoredBy(userID string) bool {
	return userID != "" && r.UserID == userID
}
