package models

import (
	"time"
)

// Reading status values - ENFORCES schema CHECK constraint
const (
	StatusWantToRead       = "want_to_read"
	StatusCurrentlyReading = "currently_reading"
	StatusFinished         = "finished"
)

// ReadingProgress tracks a user's position in a book.
// One record per (user, book) pair.
type ReadingProgress struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	BookID      string     `json:"book_id" db:"book_id"`
	CurrentPage int        `json:"current_page" db:"current_page"`
	TotalPages  int        `json:"total_pages" db:"total_pages"`
	Status      string     `json:"status" db:"status" validate:"required,oneof=want_to_read currently_reading finished"`
	Rating      *int       `json:"rating,omitempty" db:"rating"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	FinishDate  *time.Time `json:"finish_date,omitempty" db:"finish_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// UpsertProgressRequest creates or updates reading progress
type UpsertProgressRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	CurrentPage *int   `json:"current_page"`
	Status      string `json:"status" validate:"omitempty,oneof=want_to_read currently_reading finished"`
	Rating      *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ProgressListResponse is a page of progress records with books resolved
type ProgressListResponse struct {
	Data    []ProgressWithBook `json:"data"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	HasMore bool               `json:"has_more"`
}

// ProgressWithBook joins a progress record with its book
type ProgressWithBook struct {
	ReadingProgress
	Book *Book `json:"book,omitempty"`
}

// IsValidReadingStatus validates status against schema constraints
func IsValidReadingStatus(status string) bool {
	switch status {
	case StatusWantToRead, StatusCurrentlyReading, StatusFinished:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a reading status transition is allowed.
// The happy path is want_to_read -> currently_reading -> finished;
// re-opening a finished book back to currently_reading is allowed (re-reads).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusWantToRead:
		return to == StatusCurrentlyReading || to == StatusFinished
	case StatusCurrentlyReading:
		return to == StatusFinished || to == StatusWantToRead
	case StatusFinished:
		return to == StatusCurrentlyReading
	default:
		return false
	}
}

// PercentComplete returns the completion percentage, clamped to [0,100]
func (p *ReadingProgress) PercentComplete() int {
	if p.TotalPages <= 0 {
		return 0
	}
	pct := p.CurrentPage * 100 / p.TotalPages
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
