package models

import (
	"time"
)

// Book represents a book in the shared catalog
type Book struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Author        string    `json:"author" db:"author"`
	ISBN          string    `json:"isbn,omitempty" db:"isbn"`
	Description   string    `json:"description,omitempty" db:"description"`
	CoverURL      string    `json:"cover_url,omitempty" db:"cover_url"`
	Genres        []string  `json:"genres" db:"genres"`
	TotalPages    int       `json:"total_pages" db:"total_pages"`
	PublishedYear int       `json:"published_year,omitempty" db:"published_year"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// BookSearchRequest represents search parameters
type BookSearchRequest struct {
	Query  string   `json:"query" form:"query"`
	Author string   `json:"author" form:"author"`
	Genres []string `json:"genres" form:"genres"`
	Limit  int      `json:"limit" form:"limit" validate:"min=1,max=100"`
	Offset int      `json:"offset" form:"offset" validate:"min=0"`
}

// BookListResponse represents paginated book results
type BookListResponse struct {
	Data    []Book `json:"data"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
}

// CreateBookRequest represents a request to add a book to the catalog
type CreateBookRequest struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description"`
	CoverURL      string   `json:"cover_url"`
	Genres        []string `json:"genres"`
	TotalPages    int      `json:"total_pages"`
	PublishedYear int      `json:"published_year"`
}

// UpdateBookRequest represents a partial book update
type UpdateBookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	ISBN          *string  `json:"isbn"`
	Description   *string  `json:"description"`
	CoverURL      *string  `json:"cover_url"`
	Genres        []string `json:"genres"`
	TotalPages    *int     `json:"total_pages"`
	PublishedYear *int     `json:"published_year"`
}

// ValidateBookSearch normalizes book search paging
func ValidateBookSearch(req *BookSearchRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return nil
}
