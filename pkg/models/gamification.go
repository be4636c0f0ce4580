// Package models - Achievement and Gamification System
// Achievement catalog definitions, earned badges and XP awards.
package models

import (
	"time"
)

// Achievement represents an unlockable achievement definition.
// Catalog entries are immutable reference data, not per-user records.
type Achievement struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Requirement AchievementRequirement `json:"requirements"`
	Reward      AchievementReward      `json:"rewards"`
	IsSecret    bool    `json:"is_secret,omitempty"`
}

// AchievementRequirement is the unlock condition
type AchievementRequirement struct {
	Type      string `json:"type"` // books_read, pages_read, reviews_written, streak, genres, reading_time, social, custom
	Threshold int    `json:"threshold"`
	Timeframe string `json:"timeframe,omitempty"`
}

// AchievementReward is granted on unlock
type AchievementReward struct {
	XP    int    `json:"xp"`
	Title string `json:"title,omitempty"`
}

// Badge is an earned achievement. At most one per (user, achievement).
type Badge struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	Category      string    `json:"category" db:"category"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`
}

// Achievement categories
const (
	CategoryReading   = "reading"
	CategorySocial    = "social"
	CategoryStreak    = "streak"
	CategoryExplorer  = "explorer"
	CategoryCommunity = "community"
)

// Requirement types
const (
	ReqBooksRead      = "books_read"
	ReqPagesRead      = "pages_read"
	ReqReviewsWritten = "reviews_written"
	ReqStreak         = "streak"
	ReqGenres         = "genres"
	ReqReadingTime    = "reading_time"
	ReqSocial         = "social"
	ReqCustom         = "custom"
)

// Gamification events that can unlock achievements
const (
	EventBookCompleted  = "book_completed"
	EventSessionLogged  = "session_logged"
	EventStreakUpdated  = "streak_updated"
	EventReviewWritten  = "review_written"
	EventGenreExplored  = "genre_explored"
	EventSpeedRead      = "speed_read"
	EventNightReading   = "night_reading"
	EventMorningReading = "morning_reading"
	EventFollowerGained = "follower_gained"
)

// XPAward is the result of granting XP to a user
type XPAward struct {
	XPAwarded int    `json:"xp_awarded"`
	TotalXP   int    `json:"total_xp"`
	Level     int    `json:"level"`
	LeveledUp bool   `json:"leveled_up"`
	Rank      string `json:"rank"`
}

// AchievementProgress pairs a catalog entry with a user's progress toward it
type AchievementProgress struct {
	Achievement Achievement `json:"achievement"`
	Progress    int         `json:"progress"` // 0..100
	Completed   bool        `json:"completed"`
	EarnedAt    *time.Time  `json:"earned_at,omitempty"`
}

// UserAchievements is the full achievement view for a user
type UserAchievements struct {
	Earned    []AchievementProgress `json:"earned"`
	Available []AchievementProgress `json:"available"`
	TotalXP   int                   `json:"total_xp"`
	Level     int                   `json:"level"`
	Rank      string                `json:"rank"`
}

// GamificationProfile is the /gamification/profile payload
type GamificationProfile struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	XP           int     `json:"xp"`
	Level        int     `json:"level"`
	Rank         string  `json:"rank"`
	NextLevelXP  int     `json:"next_level_xp"`
	LevelPercent int     `json:"level_percent"`
	Badges       []Badge `json:"badges"`
	Stats        *UserStats `json:"stats,omitempty"`
}

// LeaderboardEntry is one row in the XP leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Title    string `json:"title"`
}
