package models

import (
	"errors"
	"time"
)

// UserRole represents valid user roles
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// User represents a system user
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role" validate:"required,oneof=user moderator admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserStats tracks a user's cumulative reading counters.
// Revision is a compare-and-swap counter: every write must carry the
// revision it read, so racing session-end handlers cannot silently drop
// each other's increments.
type UserStats struct {
	UserID           string     `json:"user_id" db:"user_id"`
	TotalBooksRead   int        `json:"total_books_read" db:"total_books_read"`
	TotalPagesRead   int        `json:"total_pages_read" db:"total_pages_read"`
	ReviewsWritten   int        `json:"reviews_written" db:"reviews_written"`
	AverageRating    float64    `json:"average_rating" db:"average_rating"`
	ReadingStreak    int        `json:"reading_streak" db:"reading_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	TotalReadingTime int        `json:"total_reading_time" db:"total_reading_time"` // minutes
	BooksThisYear    int        `json:"books_this_year" db:"books_this_year"`
	GenresExplored   []string   `json:"genres_explored" db:"genres_explored"`
	LastReadDate     *time.Time `json:"last_read_date,omitempty" db:"last_read_date"`
	Revision         int64      `json:"-" db:"revision"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// StatsDelta is an additive update to UserStats. Zero fields are no-ops;
// pointer fields replace the stored value when non-nil.
type StatsDelta struct {
	BooksRead      int
	PagesRead      int
	ReviewsWritten int
	ReadingTime    int // minutes
	BooksThisYear  int
	// RatingSample folds a new review rating into AverageRating as a
	// running mean over the pre-delta ReviewsWritten count.
	RatingSample  *int
	AverageRating *float64
	ReadingStreak  *int
	LongestStreak  *int
	LastReadDate   *time.Time
	NewGenres      []string
}

// Gamification holds the derived XP view of a user. Level and Rank are a
// cached projection of XP and are always recomputed together.
type Gamification struct {
	UserID    string    `json:"user_id" db:"user_id"`
	XP        int       `json:"xp" db:"xp"`
	Level     int       `json:"level" db:"level"`
	Rank      string    `json:"rank" db:"rank"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserProfile - public-facing profile, NO sensitive data
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse
type LoginResponse struct {
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	ExpiresIn int         `json:"expires_in"` // seconds
}

// ValidateRegisterRequest adds additional validation beyond struct tags
func ValidateRegisterRequest(req *RegisterRequest) error {
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(req.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	return nil
}

// HasRole checks if user has required role (for middleware)
func (u *User) HasRole(requiredRole UserRole) bool {
	switch requiredRole {
	case UserRoleAdmin:
		return u.Role == UserRoleAdmin
	case UserRoleModerator:
		return u.Role == UserRoleModerator || u.Role == UserRoleAdmin
	default: // UserRoleUser
		return true
	}
}
