package models

import (
	"time"
)

// Follow links a follower to a followee. Unique per pair.
type Follow struct {
	ID         string    `json:"id" db:"id"`
	FollowerID string    `json:"follower_id" db:"follower_id"`
	FolloweeID string    `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FollowCounts summarizes a user's social graph
type FollowCounts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// FollowerEntry is a row in a followers/following listing
type FollowerEntry struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowListResponse is a page of followers or followees
type FollowListResponse struct {
	Data    []FollowerEntry `json:"data"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"has_more"`
}
