package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// ProgressRepository handles reading progress persistence
type ProgressRepository interface {
	Create(ctx context.Context, progress *models.ReadingProgress) error
	Get(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error)
	Update(ctx context.Context, progress *models.ReadingProgress) error
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]models.ProgressWithBook, int, error)
	CountFinished(ctx context.Context, userID string) (int, error)
}

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new PostgreSQL progress repository
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

const progressColumns = `id, user_id, book_id, current_page, total_pages, status,
	rating, start_date, finish_date, created_at, updated_at`

func scanProgress(row pgx.Row) (*models.ReadingProgress, error) {
	p := &models.ReadingProgress{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.BookID, &p.CurrentPage, &p.TotalPages, &p.Status,
		&p.Rating, &p.StartDate, &p.FinishDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "scan_progress")
	}
	return p, nil
}

// Create inserts a new progress record. The unique (user, book) constraint
// surfaces as ErrProgressExists.
func (r *progressRepository) Create(ctx context.Context, progress *models.ReadingProgress) error {
	query := `
		INSERT INTO reading_progress (id, user_id, book_id, current_page, total_pages,
		                              status, rating, start_date, finish_date,
		                              created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		progress.ID, progress.UserID, progress.BookID, progress.CurrentPage,
		progress.TotalPages, progress.Status, progress.Rating,
		progress.StartDate, progress.FinishDate,
	).Scan(&progress.CreatedAt, &progress.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrProgressExists
		}
		return mapDBError(err, "create_progress")
	}
	return nil
}

// Get retrieves the progress record for a (user, book) pair
func (r *progressRepository) Get(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error) {
	return scanProgress(r.pool.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM reading_progress
		 WHERE user_id = $1 AND book_id = $2`, userID, bookID))
}

// Update persists changes to an existing progress record
func (r *progressRepository) Update(ctx context.Context, progress *models.ReadingProgress) error {
	query := `
		UPDATE reading_progress
		SET current_page = $3, total_pages = $4, status = $5, rating = $6,
		    start_date = $7, finish_date = $8, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND book_id = $2
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		progress.UserID, progress.BookID, progress.CurrentPage,
		progress.TotalPages, progress.Status, progress.Rating,
		progress.StartDate, progress.FinishDate,
	).Scan(&progress.UpdatedAt)
	if err == pgx.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return mapDBError(err, "update_progress")
	}
	return nil
}

// ListByUser retrieves a user's library with books resolved,
// optionally filtered by status
func (r *progressRepository) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]models.ProgressWithBook, int, error) {
	where := `WHERE p.user_id = $1 AND ($2 = '' OR p.status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reading_progress p `+where, userID, status,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_progress")
	}

	query := `
		SELECT p.id, p.user_id, p.book_id, p.current_page, p.total_pages, p.status,
		       p.rating, p.start_date, p.finish_date, p.created_at, p.updated_at,
		       b.id, b.title, b.author, b.isbn, b.description, b.cover_url,
		       b.genres, b.total_pages, b.published_year, b.created_at, b.updated_at
		FROM reading_progress p
		JOIN books b ON b.id = p.book_id
		` + where + `
		ORDER BY p.updated_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_progress")
	}
	defer rows.Close()

	var out []models.ProgressWithBook
	for rows.Next() {
		var pw models.ProgressWithBook
		b := &models.Book{}
		err := rows.Scan(
			&pw.ID, &pw.UserID, &pw.BookID, &pw.CurrentPage, &pw.TotalPages,
			&pw.Status, &pw.Rating, &pw.StartDate, &pw.FinishDate,
			&pw.CreatedAt, &pw.UpdatedAt,
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.CoverURL,
			&b.Genres, &b.TotalPages, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_progress_with_book")
		}
		pw.Book = b
		out = append(out, pw)
	}
	return out, total, nil
}

// CountFinished counts the books a user has finished
func (r *progressRepository) CountFinished(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reading_progress WHERE user_id = $1 AND status = $2`,
		userID, models.StatusFinished,
	).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_finished")
	}
	return count, nil
}
