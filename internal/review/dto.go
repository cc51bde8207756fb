// AngelaMos | 2026
// dto.go

package review

import (
	"time"
)

type CreateReviewRequest struct {
	MovieID int64  `json:"movieId" validate:"required,gte=1"`
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"  validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

type ReviewResponse struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	MovieID    int64     `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AverageResponse struct {
	MovieID int64   `json:"movieId"`
	Average float64 `json:"average"`
}

type CountResponse struct {
	MovieID int64 `json:"movieId"`
	Count   int   `json:"count"`
}

type ListParams struct {
	Page     int
	PageSize int
}

// maxPage bounds Page so Offset cannot overflow.
const maxPage = 100_000

func (p *ListParams) Normalize() {
	p.Page = min(max(p.Page, 1), maxPage)
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Username:   r.Username,
		MovieID:    r.MovieID,
		MovieTitle: r.MovieTitle,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func ToReviewResponseList(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ToReviewResponse(&r))
	}
	return out
}
