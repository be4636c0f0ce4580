package models

import (
	"time"
)

// Review is a user's rating and write-up for a book.
// One review per (user, book) pair.
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	BookID    string    `json:"book_id" db:"book_id"`
	Rating    int       `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Text      string    `json:"text,omitempty" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateReviewRequest posts a review
type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"max=10000"`
}

// ReviewWithUser joins a review with minimal author info
type ReviewWithUser struct {
	Review
	Username string `json:"username"`
}

// ReviewListResponse is a page of reviews
type ReviewListResponse struct {
	Data    []ReviewWithUser `json:"data"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	HasMore bool             `json:"has_more"`
}
