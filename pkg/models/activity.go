package models

import (
	"time"
)

// Activity types constants - ENFORCES schema CHECK constraint
const (
	ActivityBookFinished        = "book_finished"
	ActivityReviewPosted        = "review_posted"
	ActivityAchievementUnlocked = "achievement_unlocked"
	ActivityStartedReading      = "started_reading"
)

// Activity represents a public feed entry
type Activity struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"type" validate:"required,oneof=book_finished review_posted achievement_unlocked started_reading"`
	UserID    string    `json:"user_id" db:"user_id"`
	BookID    *string   `json:"book_id,omitempty" db:"book_id"`
	Subject   string    `json:"subject,omitempty" db:"subject"` // achievement id, review id, ...
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ActivityUser - minimal user info for the feed
type ActivityUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ActivityBook - minimal book info for the feed
type ActivityBook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ActivityResponse represents an activity with resolved user/book info
type ActivityResponse struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	User      *ActivityUser `json:"user,omitempty"`
	Book      *ActivityBook `json:"book,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ActivityFeedResponse represents a paginated activity feed
type ActivityFeedResponse struct {
	Data    []ActivityResponse `json:"data"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	HasMore bool               `json:"has_more"`
}
