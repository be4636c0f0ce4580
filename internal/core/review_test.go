package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msrishav-28/penpal/pkg/models"
)

type reviewFixture struct {
	reviewRepo   *fakeReviewRepo
	bookRepo     *fakeBookRepo
	activityRepo *fakeActivityRepo
	statsRepo    *fakeStatsRepo
	gamRepo      *fakeGamRepo
	notifier     *recordingNotifier
	svc          ReviewService
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviewRepo: newFakeReviewRepo(),
		bookRepo: newFakeBookRepo(
			&models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
		),
		activityRepo: &fakeActivityRepo{},
		statsRepo:    newFakeStatsRepo(&models.UserStats{UserID: "u1"}),
		gamRepo: newFakeGamRepo(
			&models.Gamification{UserID: "u1", Level: 1, Rank: RankForLevel(1)},
		),
		notifier: &recordingNotifier{},
	}
	users := newFakeUserRepo(&models.User{ID: "u1", Username: "alice"})
	statsSvc := NewStatsService(f.statsRepo)
	gamSvc := NewGamificationService(users, f.statsRepo, f.gamRepo, f.activityRepo, f.notifier, nil)
	f.svc = NewReviewService(f.reviewRepo, f.bookRepo, f.activityRepo, statsSvc, gamSvc)
	return f
}

func TestCreateReview(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	review, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{
		Rating: 4,
		Text:   "Slower than I expected but the worldbuilding carries it.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "u1", review.UserID)
	assert.Equal(t, "b1", review.BookID)
	assert.Equal(t, 4, review.Rating)

	stats, err := f.statsRepo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ReviewsWritten)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)

	// First review pays the base XP plus the first_review achievement.
	state, err := f.gamRepo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, reviewXP+achievementCatalog["first_review"].Reward.XP, state.XP)

	held, err := f.gamRepo.HasBadge(ctx, "u1", "first_review")
	require.NoError(t, err)
	assert.True(t, held)

	// review_posted first, then the achievement unlock
	require.Len(t, f.activityRepo.activities, 2)
	activity := f.activityRepo.activities[0]
	assert.Equal(t, models.ActivityReviewPosted, activity.Type)
	assert.Equal(t, "u1", activity.UserID)
	require.NotNil(t, activity.BookID)
	assert.Equal(t, "b1", *activity.BookID)
	assert.Equal(t, review.ID, activity.Subject)

	unlock := f.activityRepo.activities[1]
	assert.Equal(t, models.ActivityAchievementUnlocked, unlock.Type)
	assert.Equal(t, "first_review", unlock.Subject)
}

func TestCreateReviewValidation(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{
		Rating: 3,
		Text:   strings.Repeat("x", 10001),
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Create(ctx, "u1", "missing", models.CreateReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, models.ErrBookNotFound)
}

func TestCreateReviewTwice(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 2})
	assert.ErrorIs(t, err, models.ErrReviewExists)

	// The duplicate must not pad the counter or pay XP again.
	stats, _ := f.statsRepo.Get(ctx, "u1")
	assert.Equal(t, 1, stats.ReviewsWritten)
	state, _ := f.gamRepo.Get(ctx, "u1")
	assert.Equal(t, reviewXP+achievementCatalog["first_review"].Reward.XP, state.XP)
}

func TestListReviewsByBook(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 5, Text: "Loved it."})
	require.NoError(t, err)

	list, err := f.svc.ListByBook(ctx, "b1", -1, -1)
	require.NoError(t, err)
	assert.Equal(t, 20, list.Limit)
	assert.Equal(t, 0, list.Offset)
	assert.Equal(t, 1, list.Total)
	assert.False(t, list.HasMore)
	require.Len(t, list.Data, 1)
	assert.Equal(t, 5, list.Data[0].Rating)

	_, err = f.svc.ListByBook(ctx, "missing", 20, 0)
	assert.ErrorIs(t, err, models.ErrBookNotFound)
}

func TestListReviewsByUser(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 3})
	require.NoError(t, err)

	list, err := f.svc.ListByUser(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "b1", list.Data[0].BookID)

	list, err = f.svc.ListByUser(ctx, "nobody", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Data)
	assert.Zero(t, list.Total)
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	review, err := f.svc.Create(ctx, "u1", "b1", models.CreateReviewRequest{Rating: 4})
	require.NoError(t, err)

	// Only the author can remove it.
	err = f.svc.Delete(ctx, "u2", review.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, "u1", review.ID))
	_, err = f.reviewRepo.GetByUserAndBook(ctx, "u1", "b1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
