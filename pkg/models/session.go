package models

import (
	"time"
)

// Session status values - ENFORCES schema CHECK constraint.
// A session is created active and ends completed; completed is terminal.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Reading moods
const (
	MoodRelaxed   = "relaxed"
	MoodFocused   = "focused"
	MoodExcited   = "excited"
	MoodTired     = "tired"
	MoodStressed  = "stressed"
	MoodMotivated = "motivated"
)

// Ambient sounds
const (
	SoundNone      = "none"
	SoundRain      = "rain"
	SoundCafe      = "cafe"
	SoundNature    = "nature"
	SoundFireplace = "fireplace"
	SoundWhiteNoise = "white_noise"
)

// Reading devices
const (
	DevicePhysical = "physical"
	DeviceEreader  = "ereader"
	DevicePhone    = "phone"
	DeviceTablet   = "tablet"
	DeviceAudio    = "audiobook"
)

// ReadingSession represents one sitting with a book
type ReadingSession struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	BookID          string     `json:"book_id" db:"book_id"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	StartPage       int        `json:"start_page" db:"start_page"`
	EndPage         *int       `json:"end_page,omitempty" db:"end_page"`
	PagesRead       int        `json:"pages_read" db:"pages_read"`
	Mood            string     `json:"mood,omitempty" db:"mood"`
	AmbientSound    string     `json:"ambient_sound,omitempty" db:"ambient_sound"`
	Device          string     `json:"device,omitempty" db:"device"`
	Location        string     `json:"location,omitempty" db:"location"`
	Status          string     `json:"status" db:"status" validate:"required,oneof=active completed"`
	Notes           []string   `json:"notes" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// IsActive reports whether the session can still be ended
func (s *ReadingSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// StartSessionRequest begins a reading session
type StartSessionRequest struct {
	BookID       string `json:"book_id" validate:"required"`
	StartPage    int    `json:"start_page" validate:"min=0"`
	Mood         string `json:"mood" validate:"omitempty,oneof=relaxed focused excited tired stressed motivated"`
	AmbientSound string `json:"ambient_sound" validate:"omitempty,oneof=none rain cafe nature fireplace white_noise"`
	Device       string `json:"device" validate:"omitempty,oneof=physical ereader phone tablet audiobook"`
	Location     string `json:"location"`
}

// EndSessionRequest completes a reading session
type EndSessionRequest struct {
	EndPage     *int     `json:"end_page"`
	CurrentPage *int     `json:"current_page"`
	PagesRead   int      `json:"pages_read"`
	Notes       []string `json:"notes"`
}

// SessionEndResult is the outcome of ending a session, including the
// gamification side effects that fired
type SessionEndResult struct {
	Session      *ReadingSession `json:"session"`
	XPAwarded    int             `json:"xp_awarded"`
	Streak       int             `json:"streak"`
	Achievements []string        `json:"achievements_unlocked,omitempty"`
}

// SessionListRequest filters the session history
type SessionListRequest struct {
	BookID    string     `json:"book_id" form:"book_id"`
	StartDate *time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02"`
	Page      int        `json:"page" form:"page"`
	Limit     int        `json:"limit" form:"limit"`
}

// SessionListResponse is a page of sessions
type SessionListResponse struct {
	Sessions []ReadingSession `json:"sessions"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

// Session stats periods
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// SessionStats aggregates completed sessions over a period
type SessionStats struct {
	Period        string  `json:"period"`
	TotalSessions int     `json:"total_sessions"`
	TotalMinutes  int     `json:"total_minutes"`
	TotalHours    float64 `json:"total_hours"`
	TotalPages    int     `json:"total_pages"`
	Averages      struct {
		MinutesPerSession float64 `json:"minutes_per_session"`
		PagesPerSession   float64 `json:"pages_per_session"`
	} `json:"averages"`
}

// IsValidPeriod validates a stats period
func IsValidPeriod(period string) bool {
	switch period {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	default:
		return false
	}
}
