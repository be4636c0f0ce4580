package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msrishav-28/penpal/pkg/models"
)

type sessionFixture struct {
	sessionRepo  *fakeSessionRepo
	bookRepo     *fakeBookRepo
	progressRepo *fakeProgressRepo
	statsRepo    *fakeStatsRepo
	gamRepo      *fakeGamRepo
	notifier     *recordingNotifier
	svc          *sessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		sessionRepo:  newFakeSessionRepo(),
		bookRepo:     newFakeBookRepo(&models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert", TotalPages: 600}),
		progressRepo: newFakeProgressRepo(),
		statsRepo:    newFakeStatsRepo(&models.UserStats{UserID: "u1"}),
		gamRepo:      newFakeGamRepo(&models.Gamification{UserID: "u1", Level: 1, Rank: "Novice Reader"}),
		notifier:     &recordingNotifier{},
	}

	users := newFakeUserRepo(&models.User{ID: "u1", Username: "alice"})
	gamSvc := NewGamificationService(users, f.statsRepo, f.gamRepo, &fakeActivityRepo{}, f.notifier, nil)
	statsSvc := NewStatsService(f.statsRepo)

	svc := NewSessionService(f.sessionRepo, f.bookRepo, f.progressRepo, statsSvc, gamSvc, f.notifier)
	f.svc = svc.(*sessionService)
	return f
}

func (f *sessionFixture) clock(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func TestStartSession(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{
		BookID:    "b1",
		StartPage: 42,
		Mood:      models.MoodFocused,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, start, session.StartTime)
	assert.Equal(t, 42, session.StartPage)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.NotNil(t, session.Notes)
}

func TestStartSessionValidation(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1", StartPage: -1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "missing"})
	assert.ErrorIs(t, err, models.ErrBookNotFound)
}

func TestStartSessionOnlyOneActive(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	assert.ErrorIs(t, err, models.ErrSessionActive)
}

func TestEndSessionCascade(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{
		BookID:    "b1",
		StartPage: 100,
	})
	require.NoError(t, err)

	// 25 minutes of reading, 30 pages
	f.clock(start.Add(25 * time.Minute))
	endPage := 130
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{
		EndPage: &endPage,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, result.Session.DurationMinutes)
	assert.Equal(t, 30, result.Session.PagesRead)
	assert.Equal(t, models.SessionStatusCompleted, result.Session.Status)
	assert.Equal(t, 20, result.XPAwarded, "25 minutes rounds down to two 10-minute blocks")
	assert.Equal(t, 1, result.Streak, "first read ever starts the streak at 1")

	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 30, stats.TotalPagesRead)
	assert.Equal(t, 25, stats.TotalReadingTime)
	assert.Equal(t, 1, stats.ReadingStreak)
	require.NotNil(t, stats.LastReadDate)
}

func TestEndSessionTwice(t *testing.T) {
	f := newSessionFixture(t)
	f.clock(time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC))

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	_, err = f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	assert.ErrorIs(t, err, models.ErrSessionNotActive)
}

func TestEndSessionWrongUser(t *testing.T) {
	f := newSessionFixture(t)
	f.clock(time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC))

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	_, err = f.svc.End(context.Background(), "intruder", session.ID, models.EndSessionRequest{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestEndSessionNegativePagesClamped(t *testing.T) {
	f := newSessionFixture(t)
	f.clock(time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC))

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{
		BookID:    "b1",
		StartPage: 200,
	})
	require.NoError(t, err)

	// End page behind the start page (flipping back) reads as zero
	endPage := 150
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{EndPage: &endPage})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Session.PagesRead)
}

func TestEndSessionNightOwl(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 1, 30, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	f.clock(start.Add(40 * time.Minute)) // ends 02:10
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	require.NoError(t, err)

	assert.Contains(t, result.Achievements, "night_owl")
	assert.NotContains(t, result.Achievements, "early_bird")
}

func TestEndSessionEarlyBird(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 6, 0, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	f.clock(start.Add(30 * time.Minute))
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	require.NoError(t, err)

	assert.Contains(t, result.Achievements, "early_bird")
}

func TestEndSessionSpeedRead(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	f.clock(start.Add(90 * time.Minute))
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{PagesRead: 120})
	require.NoError(t, err)

	assert.Contains(t, result.Achievements, "speed_reader")
}

func TestEndSessionStreakExtension(t *testing.T) {
	f := newSessionFixture(t)

	// Seed stats as if the user read yesterday
	yesterday := time.Date(2026, time.April, 1, 20, 0, 0, 0, time.UTC)
	f.statsRepo.stats["u1"] = &models.UserStats{
		UserID:        "u1",
		ReadingStreak: 6,
		LongestStreak: 6,
		LastReadDate:  &yesterday,
	}

	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)
	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	f.clock(start.Add(15 * time.Minute))
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	require.NoError(t, err)

	assert.Equal(t, 7, result.Streak)
	assert.Contains(t, result.Achievements, "week_streak")

	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 7, stats.ReadingStreak)
	assert.Equal(t, 7, stats.LongestStreak)
}

func TestEndSessionSurvivesXPWriteFailure(t *testing.T) {
	f := newSessionFixture(t)
	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)

	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{
		BookID:    "b1",
		StartPage: 100,
	})
	require.NoError(t, err)

	// Gamification store goes down between start and end. The session
	// is already completed and counted by then, so the end must still
	// succeed or the client retries into ErrSessionNotActive.
	f.gamRepo.updateErr = errors.New("connection refused")

	f.clock(start.Add(25 * time.Minute))
	endPage := 130
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{EndPage: &endPage})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusCompleted, result.Session.Status)
	assert.Equal(t, 0, result.XPAwarded, "failed XP write reports zero, not an error")

	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 30, stats.TotalPagesRead)
	assert.Equal(t, 25, stats.TotalReadingTime)

	stored, err := f.sessionRepo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, stored.Status)

	_, err = f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{})
	assert.ErrorIs(t, err, models.ErrSessionNotActive)
}

func TestEndSessionCounterMilestones(t *testing.T) {
	f := newSessionFixture(t)

	// One session away from both the pages and the reading-time marks
	f.statsRepo.stats["u1"] = &models.UserStats{
		UserID:           "u1",
		TotalPagesRead:   9990,
		TotalReadingTime: 5990,
	}

	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)
	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{
		BookID:    "b1",
		StartPage: 100,
	})
	require.NoError(t, err)

	f.clock(start.Add(25 * time.Minute))
	endPage := 120
	result, err := f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{EndPage: &endPage})
	require.NoError(t, err)

	assert.Contains(t, result.Achievements, "page_turner", "10k pages crossed mid-book must not wait for a finish")
	assert.Contains(t, result.Achievements, "marathon_reader")

	held, err := f.gamRepo.HasBadge(context.Background(), "u1", "page_turner")
	require.NoError(t, err)
	assert.True(t, held)
}

func TestEndSessionSyncsProgress(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.progressRepo.Create(context.Background(), &models.ReadingProgress{
		ID:         "p1",
		UserID:     "u1",
		BookID:     "b1",
		TotalPages: 600,
		Status:     models.StatusWantToRead,
	}))

	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	f.clock(start)
	session, err := f.svc.Start(context.Background(), "u1", models.StartSessionRequest{BookID: "b1"})
	require.NoError(t, err)

	f.clock(start.Add(20 * time.Minute))
	current := 55
	_, err = f.svc.End(context.Background(), "u1", session.ID, models.EndSessionRequest{CurrentPage: &current})
	require.NoError(t, err)

	progress, err := f.progressRepo.Get(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 55, progress.CurrentPage)
	assert.Equal(t, models.StatusCurrentlyReading, progress.Status, "first read moves the shelf")
	assert.NotNil(t, progress.StartDate)
}

func TestSessionStatsPeriodValidation(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Stats(context.Background(), "u1", "decade")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	stats, err := f.svc.Stats(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodAll, stats.Period)
}
