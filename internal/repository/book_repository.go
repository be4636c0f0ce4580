package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// BookRepository handles book catalog persistence
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	FindByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error)
	Search(ctx context.Context, req models.BookSearchRequest) ([]models.Book, int, error)
	List(ctx context.Context, limit, offset int) ([]models.Book, int, error)
	Update(ctx context.Context, id string, req *models.UpdateBookRequest) error
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository creates a new PostgreSQL book repository
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

const bookColumns = `id, title, author, isbn, description, cover_url, genres,
	total_pages, published_year, created_at, updated_at`

func scanBook(row pgx.Row) (*models.Book, error) {
	b := &models.Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.CoverURL,
		&b.Genres, &b.TotalPages, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrBookNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "scan_book")
	}
	return b, nil
}

// Create inserts a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, isbn, description, cover_url, genres,
		                   total_pages, published_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.ISBN, book.Description,
		book.CoverURL, book.Genres, book.TotalPages, book.PublishedYear,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return mapDBError(err, "create_book")
	}
	return nil
}

// GetByID retrieves a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
}

// FindByISBN retrieves a book by normalized ISBN
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn))
}

// FindByTitleAuthor retrieves a book by case-insensitive title and author match
func (r *bookRepository) FindByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE lower(title) = lower($1) AND lower(author) = lower($2)
		 LIMIT 1`, title, author))
}

// Search performs a filtered catalog search
func (r *bookRepository) Search(ctx context.Context, req models.BookSearchRequest) ([]models.Book, int, error) {
	where := `WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%')
	          AND ($2 = '' OR author ILIKE '%' || $2 || '%')
	          AND (cardinality($3::text[]) = 0 OR genres && $3::text[])`

	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books `+where, req.Query, req.Author, genres,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_books")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books `+where+`
		 ORDER BY title ASC LIMIT $4 OFFSET $5`,
		req.Query, req.Author, genres, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, mapDBError(err, "search_books")
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, nil
}

// List retrieves books with pagination
func (r *bookRepository) List(ctx context.Context, limit, offset int) ([]models.Book, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_books")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_books")
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, nil
}

// Update applies a partial book update
func (r *bookRepository) Update(ctx context.Context, id string, req *models.UpdateBookRequest) error {
	query := `
		UPDATE books
		SET title = COALESCE($2, title),
		    author = COALESCE($3, author),
		    isbn = COALESCE($4, isbn),
		    description = COALESCE($5, description),
		    cover_url = COALESCE($6, cover_url),
		    genres = COALESCE($7, genres),
		    total_pages = COALESCE($8, total_pages),
		    published_year = COALESCE($9, published_year),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id
	`
	var genres []string
	if req.Genres != nil {
		genres = req.Genres
	}
	var updatedID string
	err := r.pool.QueryRow(ctx, query,
		id, req.Title, req.Author, req.ISBN, req.Description, req.CoverURL,
		genres, req.TotalPages, req.PublishedYear,
	).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return models.ErrBookNotFound
	}
	if err != nil {
		return mapDBError(err, "update_book")
	}
	return nil
}
