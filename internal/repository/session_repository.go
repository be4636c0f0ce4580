package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// SessionRepository handles reading session persistence
type SessionRepository interface {
	Create(ctx context.Context, session *models.ReadingSession) error
	GetByID(ctx context.Context, id string) (*models.ReadingSession, error)
	GetActiveByUser(ctx context.Context, userID string) (*models.ReadingSession, error)
	Complete(ctx context.Context, session *models.ReadingSession) error
	List(ctx context.Context, userID string, req models.SessionListRequest) ([]models.ReadingSession, int, error)
	AggregateStats(ctx context.Context, userID string, since *time.Time) (*models.SessionStats, error)
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, book_id, start_time, end_time, duration_minutes,
	start_page, end_page, pages_read, mood, ambient_sound, device, location,
	status, notes, created_at`

func scanSession(row pgx.Row) (*models.ReadingSession, error) {
	s := &models.ReadingSession{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.BookID, &s.StartTime, &s.EndTime, &s.DurationMinutes,
		&s.StartPage, &s.EndPage, &s.PagesRead, &s.Mood, &s.AmbientSound,
		&s.Device, &s.Location, &s.Status, &s.Notes, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "scan_session")
	}
	return s, nil
}

// Create inserts a new active session
func (r *sessionRepository) Create(ctx context.Context, session *models.ReadingSession) error {
	query := `
		INSERT INTO reading_sessions (id, user_id, book_id, start_time, start_page,
		                              mood, ambient_sound, device, location, status,
		                              notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP)
		RETURNING created_at
	`
	notes := session.Notes
	if notes == nil {
		notes = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		session.ID, session.UserID, session.BookID, session.StartTime,
		session.StartPage, session.Mood, session.AmbientSound, session.Device,
		session.Location, session.Status, notes,
	).Scan(&session.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_session")
	}
	return nil
}

// GetByID retrieves a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.ReadingSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions WHERE id = $1`, id))
}

// GetActiveByUser retrieves the user's currently active session, if any
func (r *sessionRepository) GetActiveByUser(ctx context.Context, userID string) (*models.ReadingSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions
		 WHERE user_id = $1 AND status = $2
		 ORDER BY start_time DESC LIMIT 1`,
		userID, models.SessionStatusActive))
}

// Complete persists the end of a session. Only active sessions transition,
// so a concurrent double-end loses the race and gets ErrSessionNotActive.
func (r *sessionRepository) Complete(ctx context.Context, session *models.ReadingSession) error {
	query := `
		UPDATE reading_sessions
		SET end_time = $2, duration_minutes = $3, end_page = $4, pages_read = $5,
		    notes = $6, status = $7
		WHERE id = $1 AND status = $8
		RETURNING id
	`
	notes := session.Notes
	if notes == nil {
		notes = []string{}
	}
	var updatedID string
	err := r.pool.QueryRow(ctx, query,
		session.ID, session.EndTime, session.DurationMinutes, session.EndPage,
		session.PagesRead, notes, models.SessionStatusCompleted,
		models.SessionStatusActive,
	).Scan(&updatedID)
	if err == pgx.ErrNoRows {
		return models.ErrSessionNotActive
	}
	if err != nil {
		return mapDBError(err, "complete_session")
	}
	return nil
}

// List retrieves a user's session history, newest first
func (r *sessionRepository) List(ctx context.Context, userID string, req models.SessionListRequest) ([]models.ReadingSession, int, error) {
	where := `WHERE user_id = $1
	          AND ($2 = '' OR book_id::text = $2)
	          AND ($3::timestamptz IS NULL OR start_time >= $3)
	          AND ($4::timestamptz IS NULL OR start_time < $4)`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reading_sessions `+where,
		userID, req.BookID, req.StartDate, req.EndDate,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_sessions")
	}

	offset := (req.Page - 1) * req.Limit
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions `+where+`
		 ORDER BY start_time DESC LIMIT $5 OFFSET $6`,
		userID, req.BookID, req.StartDate, req.EndDate, req.Limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_sessions")
	}
	defer rows.Close()

	var out []models.ReadingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, nil
}

// AggregateStats sums completed sessions since the given cutoff.
// A nil cutoff covers all time.
func (r *sessionRepository) AggregateStats(ctx context.Context, userID string, since *time.Time) (*models.SessionStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(pages_read), 0)
		FROM reading_sessions
		WHERE user_id = $1 AND status = $2
		AND ($3::timestamptz IS NULL OR start_time >= $3)
	`
	stats := &models.SessionStats{}
	err := r.pool.QueryRow(ctx, query, userID, models.SessionStatusCompleted, since).Scan(
		&stats.TotalSessions, &stats.TotalMinutes, &stats.TotalPages,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate session stats: %w", mapDBError(err, "session_stats"))
	}

	stats.TotalHours = float64(stats.TotalMinutes) / 60.0
	if stats.TotalSessions > 0 {
		stats.Averages.MinutesPerSession = float64(stats.TotalMinutes) / float64(stats.TotalSessions)
		stats.Averages.PagesPerSession = float64(stats.TotalPages) / float64(stats.TotalSessions)
	}
	return stats, nil
}
