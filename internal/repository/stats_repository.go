package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// StatsRepository persists per-user reading counters.
// Writes are compare-and-swap on the revision column so concurrent
// session-end handlers cannot drop each other's increments.
type StatsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	// UpdateCAS writes the full stats row if and only if the stored
	// revision still equals stats.Revision; on success the revision is
	// bumped in place. Returns models.ErrStatsConflict otherwise.
	UpdateCAS(ctx context.Context, stats *models.UserStats) error
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new PostgreSQL stats repository
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

// Get retrieves a user's stats row
func (r *statsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT user_id, total_books_read, total_pages_read, reviews_written,
		       average_rating, reading_streak, longest_streak, total_reading_time,
		       books_this_year, genres_explored, last_read_date, revision, updated_at
		FROM user_stats
		WHERE user_id = $1
	`
	stats := &models.UserStats{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.TotalBooksRead,
		&stats.TotalPagesRead,
		&stats.ReviewsWritten,
		&stats.AverageRating,
		&stats.ReadingStreak,
		&stats.LongestStreak,
		&stats.TotalReadingTime,
		&stats.BooksThisYear,
		&stats.GenresExplored,
		&stats.LastReadDate,
		&stats.Revision,
		&stats.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_stats")
	}
	return stats, nil
}

// UpdateCAS writes the stats row guarded by the revision counter
func (r *statsRepository) UpdateCAS(ctx context.Context, stats *models.UserStats) error {
	query := `
		UPDATE user_stats
		SET total_books_read = $2, total_pages_read = $3, reviews_written = $4,
		    average_rating = $5, reading_streak = $6, longest_streak = $7,
		    total_reading_time = $8, books_this_year = $9, genres_explored = $10,
		    last_read_date = $11, revision = revision + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND revision = $12
		RETURNING revision
	`
	err := r.pool.QueryRow(ctx, query,
		stats.UserID,
		stats.TotalBooksRead,
		stats.TotalPagesRead,
		stats.ReviewsWritten,
		stats.AverageRating,
		stats.ReadingStreak,
		stats.LongestStreak,
		stats.TotalReadingTime,
		stats.BooksThisYear,
		stats.GenresExplored,
		stats.LastReadDate,
		stats.Revision,
	).Scan(&stats.Revision)
	if err == pgx.ErrNoRows {
		// Row exists with a different revision, or the user is gone.
		// Disambiguate so callers can retry only real conflicts.
		var exists bool
		if chkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_stats WHERE user_id = $1)`, stats.UserID,
		).Scan(&exists); chkErr == nil && !exists {
			return models.ErrUserNotFound
		}
		return models.ErrStatsConflict
	}
	if err != nil {
		return mapDBError(err, "update_user_stats")
	}
	return nil
}
