package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// GamificationRepository persists XP state and earned badges
type GamificationRepository interface {
	Get(ctx context.Context, userID string) (*models.Gamification, error)
	Update(ctx context.Context, g *models.Gamification) error
	ListBadges(ctx context.Context, userID string) ([]models.Badge, error)
	HasBadge(ctx context.Context, userID, achievementID string) (bool, error)
	// InsertBadge returns models.ErrAchievementEarned when the badge is
	// already held (unique violation on (user_id, achievement_id)).
	InsertBadge(ctx context.Context, badge *models.Badge) error
	TopByXP(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type gamificationRepository struct {
	pool *pgxpool.Pool
}

// NewGamificationRepository creates a new PostgreSQL gamification repository
func NewGamificationRepository(pool *pgxpool.Pool) GamificationRepository {
	return &gamificationRepository{pool: pool}
}

// Get retrieves a user's XP state
func (r *gamificationRepository) Get(ctx context.Context, userID string) (*models.Gamification, error) {
	query := `
		SELECT user_id, xp, level, rank, updated_at
		FROM user_gamification
		WHERE user_id = $1
	`
	g := &models.Gamification{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&g.UserID, &g.XP, &g.Level, &g.Rank, &g.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_gamification")
	}
	return g, nil
}

// Update persists xp/level/rank together
func (r *gamificationRepository) Update(ctx context.Context, g *models.Gamification) error {
	query := `
		UPDATE user_gamification
		SET xp = $2, level = $3, rank = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, g.UserID, g.XP, g.Level, g.Rank).Scan(&g.UpdatedAt)
	if err == pgx.ErrNoRows {
		return models.ErrUserNotFound
	}
	if err != nil {
		return mapDBError(err, "update_gamification")
	}
	return nil
}

// ListBadges returns a user's earned badges, newest first
func (r *gamificationRepository) ListBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	query := `
		SELECT id, user_id, achievement_id, category, earned_at
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapDBError(err, "list_badges")
	}
	defer rows.Close()

	var out []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.AchievementID, &b.Category, &b.EarnedAt); err != nil {
			return nil, mapDBError(err, "scan_badge")
		}
		out = append(out, b)
	}
	return out, nil
}

// HasBadge checks whether a user already holds an achievement
func (r *gamificationRepository) HasBadge(ctx context.Context, userID, achievementID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM badges WHERE user_id = $1 AND achievement_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, achievementID).Scan(&exists); err != nil {
		return false, mapDBError(err, "check_badge")
	}
	return exists, nil
}

// InsertBadge appends an earned badge, at most once per achievement
func (r *gamificationRepository) InsertBadge(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (id, user_id, achievement_id, category, earned_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, CURRENT_TIMESTAMP))
		RETURNING earned_at
	`
	err := r.pool.QueryRow(ctx, query,
		badge.ID, badge.UserID, badge.AchievementID, badge.Category, badge.EarnedAt,
	).Scan(&badge.EarnedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrAchievementEarned
		}
		return mapDBError(err, "insert_badge")
	}
	return nil
}

// TopByXP is the database fallback for the leaderboard when redis is down
func (r *gamificationRepository) TopByXP(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT g.user_id, u.username, g.xp, g.level, g.rank
		FROM user_gamification g
		JOIN users u ON u.id = g.user_id
		ORDER BY g.xp DESC, u.username ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, mapDBError(err, "leaderboard_top")
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.XP, &e.Level, &e.Title); err != nil {
			return nil, mapDBError(err, "scan_leaderboard_entry")
		}
		e.Rank = rank
		rank++
		out = append(out, e)
	}
	return out, nil
}
