package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// UserRepository handles user data persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts a new user and seeds its stats and gamification rows
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapDBError(err, "begin_create_user")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_TIMESTAMP))
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_user")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_stats (user_id, revision, updated_at) VALUES ($1, 0, CURRENT_TIMESTAMP)`,
		user.ID,
	); err != nil {
		return mapDBError(err, "create_user_stats")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_gamification (user_id, xp, level, rank, updated_at)
		 VALUES ($1, 0, 1, 'Novice Reader', CURRENT_TIMESTAMP)`,
		user.ID,
	); err != nil {
		return mapDBError(err, "create_user_gamification")
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	user := &models.User{}
	var roleStr string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleStr,
		&user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_id")
	}

	user.Role = models.UserRole(roleStr)
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`
	user := &models.User{}
	var roleStr string

	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleStr,
		&user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_username")
	}

	user.Role = models.UserRole(roleStr)
	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool

	err := r.pool.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_username_exists")
	}
	return exists, nil
}

// Update updates user information
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, role = $5
		WHERE id = $1
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	).Scan(&user.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.ErrUserNotFound
	}
	if err != nil {
		return mapDBError(err, "update_user")
	}
	return nil
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1 RETURNING id`
	var deletedID string

	err := r.pool.QueryRow(ctx, query, id).Scan(&deletedID)
	if err == pgx.ErrNoRows {
		return models.ErrUserNotFound
	}
	if err != nil {
		return mapDBError(err, "delete_user")
	}
	return nil
}

// mapDBError maps database errors to the shared error taxonomy
func mapDBError(err error, operation string) error {
	if err == pgx.ErrNoRows {
		return models.ErrNotFound
	}

	if pgErr, ok := err.(*pgconn.PgError); ok {
		switch pgErr.Code {
		case "23505": // unique_violation
			if operation == "create_user" {
				return models.ErrUsernameExists
			}
			return models.NewHTTPError(models.ErrCodeConflict, "resource already exists", 409, err)
		case "23503": // foreign_key_violation
			return models.NewHTTPError(models.ErrCodeBadRequest, "invalid relationship", 400, err)
		case "22P02": // invalid_text_representation
			return models.NewHTTPError(models.ErrCodeBadRequest, "invalid input format", 400, err)
		}
	}

	return models.NewHTTPError(models.ErrCodeInternal, "database error during "+operation, 500, err)
}

// isUniqueViolation reports whether err is a unique constraint violation,
// for callers that map the conflict to a domain sentinel
func isUniqueViolation(err error) bool {
	pgErr, ok := err.(*pgconn.PgError)
	return ok && pgErr.Code == "23505"
}
