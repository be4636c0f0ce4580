package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// ReviewRepository handles book review persistence
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Review, error)
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]models.ReviewWithUser, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ReviewWithUser, int, error)
	Delete(ctx context.Context, id, userID string) error
	AverageRating(ctx context.Context, bookID string) (float64, int, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

// Create inserts a review. The unique (user, book) constraint surfaces
// as ErrReviewExists.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, book_id, rating, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		review.ID, review.UserID, review.BookID, review.Rating, review.Text,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrReviewExists
		}
		return mapDBError(err, "create_review")
	}
	return nil
}

// GetByUserAndBook retrieves a user's review of a book
func (r *reviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Review, error) {
	rev := &models.Review{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, book_id, rating, text, created_at, updated_at
		 FROM reviews WHERE user_id = $1 AND book_id = $2`,
		userID, bookID,
	).Scan(&rev.ID, &rev.UserID, &rev.BookID, &rev.Rating, &rev.Text,
		&rev.CreatedAt, &rev.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_review")
	}
	return rev, nil
}

func (r *reviewRepository) listWithUser(ctx context.Context, where, countWhere string, arg string, limit, offset int) ([]models.ReviewWithUser, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews r `+countWhere, arg,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_reviews")
	}

	query := `
		SELECT r.id, r.user_id, r.book_id, r.rating, r.text, r.created_at, r.updated_at,
		       u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		` + where + `
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_reviews")
	}
	defer rows.Close()

	var out []models.ReviewWithUser
	for rows.Next() {
		var rw models.ReviewWithUser
		err := rows.Scan(&rw.ID, &rw.UserID, &rw.BookID, &rw.Rating, &rw.Text,
			&rw.CreatedAt, &rw.UpdatedAt, &rw.Username)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_review")
		}
		out = append(out, rw)
	}
	return out, total, nil
}

// ListByBook retrieves reviews of a book, newest first
func (r *reviewRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]models.ReviewWithUser, int, error) {
	return r.listWithUser(ctx,
		`WHERE r.book_id = $1`, `WHERE r.book_id = $1`, bookID, limit, offset)
}

// ListByUser retrieves reviews written by a user, newest first
func (r *reviewRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ReviewWithUser, int, error) {
	return r.listWithUser(ctx,
		`WHERE r.user_id = $1`, `WHERE r.user_id = $1`, userID, limit, offset)
}

// Delete removes a user's own review
func (r *reviewRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapDBError(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AverageRating returns the mean rating and review count for a book
func (r *reviewRepository) AverageRating(ctx context.Context, bookID string) (float64, int, error) {
	var avg float64
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE book_id = $1`,
		bookID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, mapDBError(err, "average_rating")
	}
	return avg, count, nil
}
