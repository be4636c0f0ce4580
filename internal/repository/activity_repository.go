package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// ActivityRepository persists the public activity feed
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	Feed(ctx context.Context, userIDs []string, limit, offset int) ([]models.ActivityResponse, int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ActivityResponse, int, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new PostgreSQL activity repository
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

// Create inserts a feed entry
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, type, user_id, book_id, subject, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		activity.ID, activity.Type, activity.UserID, activity.BookID,
		activity.Subject,
	).Scan(&activity.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_activity")
	}
	return nil
}

func (r *activityRepository) query(ctx context.Context, where string, arg interface{}, limit, offset int) ([]models.ActivityResponse, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities a `+where, arg,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_activities")
	}

	query := `
		SELECT a.id, a.type, a.subject, a.created_at,
		       u.id, u.username,
		       b.id, b.title
		FROM activities a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN books b ON b.id = a.book_id
		` + where + `
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_activities")
	}
	defer rows.Close()

	var out []models.ActivityResponse
	for rows.Next() {
		var a models.ActivityResponse
		user := &models.ActivityUser{}
		var bookID, bookTitle *string
		err := rows.Scan(&a.ID, &a.Type, &a.Subject, &a.CreatedAt,
			&user.ID, &user.Username, &bookID, &bookTitle)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_activity")
		}
		a.User = user
		if bookID != nil {
			a.Book = &models.ActivityBook{ID: *bookID}
			if bookTitle != nil {
				a.Book.Title = *bookTitle
			}
		}
		out = append(out, a)
	}
	return out, total, nil
}

// Feed retrieves activities from the given users, newest first.
// An empty user set yields an empty feed.
func (r *activityRepository) Feed(ctx context.Context, userIDs []string, limit, offset int) ([]models.ActivityResponse, int, error) {
	if len(userIDs) == 0 {
		return nil, 0, nil
	}
	return r.query(ctx, `WHERE a.user_id = ANY($1)`, userIDs, limit, offset)
}

// ListByUser retrieves one user's activity history, newest first
func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ActivityResponse, int, error) {
	return r.query(ctx, `WHERE a.user_id = $1`, userID, limit, offset)
}
