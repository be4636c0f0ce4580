package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// speedReadPages is the single-session page count that counts as a
// speed read
const speedReadPages = 100

// SessionService manages the reading session lifecycle and the
// gamification cascade that session end triggers
type SessionService interface {
	Start(ctx context.Context, userID string, req models.StartSessionRequest) (*models.ReadingSession, error)
	End(ctx context.Context, userID, sessionID string, req models.EndSessionRequest) (*models.SessionEndResult, error)
	Get(ctx context.Context, userID, sessionID string) (*models.ReadingSession, error)
	GetActive(ctx context.Context, userID string) (*models.ReadingSession, error)
	List(ctx context.Context, userID string, req models.SessionListRequest) (*models.SessionListResponse, error)
	Stats(ctx context.Context, userID, period string) (*models.SessionStats, error)
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	bookRepo     repository.BookRepository
	progressRepo repository.ProgressRepository
	stats        StatsService
	gamification GamificationService
	notifier     Notifier
	now          func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	bookRepo repository.BookRepository,
	progressRepo repository.ProgressRepository,
	stats StatsService,
	gamification GamificationService,
	notifier Notifier,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		bookRepo:     bookRepo,
		progressRepo: progressRepo,
		stats:        stats,
		gamification: gamification,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Start begins a reading session. One active session per user: starting
// a second one fails with ErrSessionActive until the first is ended.
func (s *sessionService) Start(ctx context.Context, userID string, req models.StartSessionRequest) (*models.ReadingSession, error) {
	if req.BookID == "" {
		return nil, fmt.Errorf("%w: book_id is required", models.ErrInvalidInput)
	}
	if req.StartPage < 0 {
		return nil, fmt.Errorf("%w: start_page cannot be negative", models.ErrInvalidInput)
	}

	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	if active, err := s.sessionRepo.GetActiveByUser(ctx, userID); err == nil && active != nil {
		return nil, models.ErrSessionActive
	} else if err != nil && !errors.Is(err, models.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	session := &models.ReadingSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		BookID:       req.BookID,
		StartTime:    s.now(),
		StartPage:    req.StartPage,
		Mood:         req.Mood,
		AmbientSound: req.AmbientSound,
		Device:       req.Device,
		Location:     req.Location,
		Status:       models.SessionStatusActive,
		Notes:        []string{},
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// End completes a session and runs the full cascade: stats update,
// streak advance, progress sync, XP award and achievement checks.
func (s *sessionService) End(ctx context.Context, userID, sessionID string, req models.EndSessionRequest) (*models.SessionEndResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrForbidden
	}
	if !session.IsActive() {
		return nil, models.ErrSessionNotActive
	}

	endTime := s.now()
	session.EndTime = &endTime
	session.DurationMinutes = int(endTime.Sub(session.StartTime).Round(time.Minute) / time.Minute)

	pagesRead := req.PagesRead
	if req.EndPage != nil {
		session.EndPage = req.EndPage
		pagesRead = *req.EndPage - session.StartPage
	}
	if pagesRead < 0 {
		pagesRead = 0
	}
	session.PagesRead = pagesRead
	session.Notes = append(session.Notes, req.Notes...)
	session.Status = models.SessionStatusCompleted

	if err := s.sessionRepo.Complete(ctx, session); err != nil {
		return nil, err
	}

	// Streak is computed from the stats as they were before this read
	prior, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	streak := AdvanceStreak(prior.ReadingStreak, prior.LongestStreak, prior.LastReadDate, endTime)

	delta := models.StatsDelta{
		PagesRead:     pagesRead,
		ReadingTime:   session.DurationMinutes,
		ReadingStreak: &streak.Streak,
		LongestStreak: &streak.LongestStreak,
		LastReadDate:  &endTime,
	}
	if _, err := s.stats.Apply(ctx, userID, delta); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	s.syncProgress(ctx, session, req.CurrentPage)

	// The session is already completed and counted, so a failed XP write
	// must not turn the end into an error. The client would retry into
	// ErrSessionNotActive with the XP lost for good.
	xpAwarded := 0
	if award, err := s.gamification.AwardXP(ctx, userID, SessionXP(session.DurationMinutes), "reading_session"); err != nil {
		logger.Errorf("Failed to award session xp: user=%s session=%s error=%v", userID, session.ID, err)
	} else {
		xpAwarded = award.XPAwarded
	}

	granted := s.checkSessionAchievements(ctx, userID, session, streak, endTime)

	return &models.SessionEndResult{
		Session:      session,
		XPAwarded:    xpAwarded,
		Streak:       streak.Streak,
		Achievements: granted,
	}, nil
}

// syncProgress moves the reader's bookmark when the session reported a
// current page. Best effort: a missing progress record just logs.
func (s *sessionService) syncProgress(ctx context.Context, session *models.ReadingSession, currentPage *int) {
	if currentPage == nil {
		return
	}
	progress, err := s.progressRepo.Get(ctx, session.UserID, session.BookID)
	if err != nil {
		logger.Warnf("Session ended without progress record: user=%s book=%s", session.UserID, session.BookID)
		return
	}
	progress.CurrentPage = *currentPage
	if progress.Status == models.StatusWantToRead {
		progress.Status = models.StatusCurrentlyReading
		now := s.now()
		progress.StartDate = &now
	}
	if err := s.progressRepo.Update(ctx, progress); err != nil {
		logger.Errorf("Failed to sync reading progress: user=%s book=%s error=%v",
			session.UserID, session.BookID, err)
	}
}

// checkSessionAchievements fires the event checks a completed session can
// trigger. Achievement failures never fail the session end.
func (s *sessionService) checkSessionAchievements(ctx context.Context, userID string, session *models.ReadingSession, streak StreakResult, endTime time.Time) []string {
	var granted []string

	check := func(event string, data map[string]int) {
		ids, err := s.gamification.CheckAchievements(ctx, userID, event, data)
		if err != nil {
			logger.Warnf("Achievement check failed: user=%s event=%s error=%v", userID, event, err)
			return
		}
		granted = append(granted, ids...)
	}

	// Pages and reading-time counters move on every session, so their
	// milestones are checked here rather than waiting for a book finish
	check(models.EventSessionLogged, nil)

	if streak.Extended {
		check(models.EventStreakUpdated, map[string]int{models.ReqStreak: streak.Streak})
	}

	// Time-of-day achievements use the session end wall-clock hour
	hour := endTime.Hour()
	if hour >= 0 && hour < 5 {
		check(models.EventNightReading, nil)
	} else if hour >= 5 && hour < 8 {
		check(models.EventMorningReading, nil)
	}

	if session.PagesRead >= speedReadPages {
		check(models.EventSpeedRead, nil)
	}

	return granted
}

// Get retrieves one of the user's sessions
func (s *sessionService) Get(ctx context.Context, userID, sessionID string) (*models.ReadingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrForbidden
	}
	return session, nil
}

// GetActive retrieves the user's active session, if any
func (s *sessionService) GetActive(ctx context.Context, userID string) (*models.ReadingSession, error) {
	return s.sessionRepo.GetActiveByUser(ctx, userID)
}

// List retrieves the user's session history
func (s *sessionService) List(ctx context.Context, userID string, req models.SessionListRequest) (*models.SessionListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	sessions, total, err := s.sessionRepo.List(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	pages := (total + req.Limit - 1) / req.Limit
	return &models.SessionListResponse{
		Sessions: sessions,
		Total:    total,
		Page:     req.Page,
		Pages:    pages,
	}, nil
}

// Stats aggregates the user's completed sessions over a period
func (s *sessionService) Stats(ctx context.Context, userID, period string) (*models.SessionStats, error) {
	if period == "" {
		period = models.PeriodAll
	}
	if !models.IsValidPeriod(period) {
		return nil, fmt.Errorf("%w: unknown period %q", models.ErrInvalidInput, period)
	}

	var since *time.Time
	now := s.now()
	switch period {
	case models.PeriodWeek:
		t := now.AddDate(0, 0, -7)
		since = &t
	case models.PeriodMonth:
		t := now.AddDate(0, -1, 0)
		since = &t
	case models.PeriodYear:
		t := now.AddDate(-1, 0, 0)
		since = &t
	}

	stats, err := s.sessionRepo.AggregateStats(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	stats.Period = period
	return stats, nil
}
