package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/models"
	"github.com/msrishav-28/penpal/pkg/utils"
)

// BookService manages the shared book catalog
type BookService interface {
	Create(ctx context.Context, req models.CreateBookRequest) (*models.Book, error)
	// FindOrCreate matches by ISBN first, then case-insensitive
	// title+author, creating the book only when nothing matches.
	// Used by the Goodreads importer to avoid catalog duplicates.
	FindOrCreate(ctx context.Context, req models.CreateBookRequest) (*models.Book, bool, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Search(ctx context.Context, req models.BookSearchRequest) (*models.BookListResponse, error)
	List(ctx context.Context, limit, offset int) (*models.BookListResponse, error)
	Update(ctx context.Context, id string, req models.UpdateBookRequest) (*models.Book, error)
}

type bookService struct {
	bookRepo repository.BookRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

func validateBookRequest(req *models.CreateBookRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if req.Title == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if req.Author == "" {
		return fmt.Errorf("%w: author is required", models.ErrInvalidInput)
	}
	if req.TotalPages < 0 {
		return fmt.Errorf("%w: total_pages cannot be negative", models.ErrInvalidInput)
	}
	if req.ISBN != "" {
		normalized := utils.NormalizeISBN(req.ISBN)
		if normalized == "" {
			return fmt.Errorf("%w: malformed isbn %q", models.ErrInvalidInput, req.ISBN)
		}
		req.ISBN = normalized
	}
	return nil
}

// Create adds a book to the catalog
func (s *bookService) Create(ctx context.Context, req models.CreateBookRequest) (*models.Book, error) {
	if err := validateBookRequest(&req); err != nil {
		return nil, err
	}

	book := &models.Book{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		Genres:        req.Genres,
		TotalPages:    req.TotalPages,
		PublishedYear: req.PublishedYear,
	}
	if book.Genres == nil {
		book.Genres = []string{}
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// FindOrCreate deduplicates against the existing catalog
func (s *bookService) FindOrCreate(ctx context.Context, req models.CreateBookRequest) (*models.Book, bool, error) {
	if err := validateBookRequest(&req); err != nil {
		return nil, false, err
	}

	if req.ISBN != "" {
		if book, err := s.bookRepo.FindByISBN(ctx, req.ISBN); err == nil {
			return book, false, nil
		}
	}
	if book, err := s.bookRepo.FindByTitleAuthor(ctx, req.Title, req.Author); err == nil {
		return book, false, nil
	}

	book, err := s.Create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return book, true, nil
}

// Get retrieves a book by ID
func (s *bookService) Get(ctx context.Context, id string) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// Search performs a filtered catalog search
func (s *bookService) Search(ctx context.Context, req models.BookSearchRequest) (*models.BookListResponse, error) {
	if err := models.ValidateBookSearch(&req); err != nil {
		return nil, err
	}

	books, total, err := s.bookRepo.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.BookListResponse{
		Data:    books,
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: req.Offset+req.Limit < total,
	}, nil
}

// List retrieves recently added books
func (s *bookService) List(ctx context.Context, limit, offset int) (*models.BookListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	books, total, err := s.bookRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.BookListResponse{
		Data:    books,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// Update applies a partial book update
func (s *bookService) Update(ctx context.Context, id string, req models.UpdateBookRequest) (*models.Book, error) {
	if req.ISBN != nil && *req.ISBN != "" {
		normalized := utils.NormalizeISBN(*req.ISBN)
		if normalized == "" {
			return nil, fmt.Errorf("%w: malformed isbn %q", models.ErrInvalidInput, *req.ISBN)
		}
		req.ISBN = &normalized
	}
	if err := s.bookRepo.Update(ctx, id, &req); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(ctx, id)
}
