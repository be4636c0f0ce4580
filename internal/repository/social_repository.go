package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// SocialRepository handles the follow graph
type SocialRepository interface {
	Follow(ctx context.Context, follow *models.Follow) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Counts(ctx context.Context, userID string) (*models.FollowCounts, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type socialRepository struct {
	pool *pgxpool.Pool
}

// NewSocialRepository creates a new PostgreSQL social repository
func NewSocialRepository(pool *pgxpool.Pool) SocialRepository {
	return &socialRepository{pool: pool}
}

// Follow inserts a follow edge. The unique (follower, followee) constraint
// surfaces as ErrAlreadyFollowing.
func (r *socialRepository) Follow(ctx context.Context, follow *models.Follow) error {
	query := `
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		follow.ID, follow.FollowerID, follow.FolloweeID,
	).Scan(&follow.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrAlreadyFollowing
		}
		return mapDBError(err, "create_follow")
	}
	return nil
}

// Unfollow removes a follow edge
func (r *socialRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return mapDBError(err, "delete_follow")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IsFollowing reports whether a follow edge exists
func (r *socialRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_follow")
	}
	return exists, nil
}

// Counts returns follower and following totals for a user
func (r *socialRepository) Counts(ctx context.Context, userID string) (*models.FollowCounts, error) {
	counts := &models.FollowCounts{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)
	`, userID).Scan(&counts.Followers, &counts.Following)
	if err != nil {
		return nil, mapDBError(err, "follow_counts")
	}
	return counts, nil
}

func (r *socialRepository) listEdge(ctx context.Context, matchCol, selectCol, userID string, limit, offset int) ([]models.FollowerEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE `+matchCol+` = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_follows")
	}

	query := `
		SELECT u.id, u.username, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.` + selectCol + `
		WHERE f.` + matchCol + ` = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_follows")
	}
	defer rows.Close()

	var out []models.FollowerEntry
	for rows.Next() {
		var e models.FollowerEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.FollowedAt); err != nil {
			return nil, 0, mapDBError(err, "scan_follow")
		}
		out = append(out, e)
	}
	return out, total, nil
}

// ListFollowers lists users who follow the given user
func (r *socialRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error) {
	return r.listEdge(ctx, "followee_id", "follower_id", userID, limit, offset)
}

// ListFollowing lists users the given user follows
func (r *socialRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error) {
	return r.listEdge(ctx, "follower_id", "followee_id", userID, limit, offset)
}

// FollowingIDs returns the IDs of everyone the user follows,
// used to scope the activity feed
func (r *socialRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, mapDBError(err, "following_ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapDBError(err, "scan_following_id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
