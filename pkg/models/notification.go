package models

import (
	"time"
)

// Notification types
const (
	NotifyLevelUp             = "level_up"
	NotifyAchievementUnlocked = "achievement_unlocked"
	NotifyStreakMilestone     = "streak_milestone"
	NotifyNewFollower         = "new_follower"
)

// Notification is a fire-and-forget record of a user-visible event.
// Creation is best-effort: the logic that emits one never depends on it.
type Notification struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"user_id" db:"user_id"`
	Type      string                 `json:"type" db:"type"`
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	Data      map[string]interface{} `json:"data,omitempty" db:"data"`
	IsRead    bool                   `json:"is_read" db:"is_read"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// NotificationListResponse is a page of notifications
type NotificationListResponse struct {
	Data        []Notification `json:"data"`
	UnreadCount int            `json:"unread_count"`
	Total       int            `json:"total"`
	Limit       int            `json:"limit"`
	Offset      int            `json:"offset"`
	HasMore     bool           `json:"has_more"`
}
