package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msrishav-28/penpal/pkg/models"
)

type socialFixture struct {
	userRepo   *fakeUserRepo
	socialRepo *fakeSocialRepo
	gamRepo    *fakeGamRepo
	notifier   *recordingNotifier
	svc        SocialService
}

func newSocialFixture() *socialFixture {
	f := &socialFixture{
		userRepo: newFakeUserRepo(
			&models.User{ID: "u1", Username: "alice"},
			&models.User{ID: "u2", Username: "bob"},
		),
		socialRepo: &fakeSocialRepo{},
		gamRepo: newFakeGamRepo(
			&models.Gamification{UserID: "u1", Level: 1, Rank: RankForLevel(1)},
			&models.Gamification{UserID: "u2", Level: 1, Rank: RankForLevel(1)},
		),
		notifier: &recordingNotifier{},
	}
	statsRepo := newFakeStatsRepo(
		&models.UserStats{UserID: "u1"},
		&models.UserStats{UserID: "u2"},
	)
	gamSvc := NewGamificationService(f.userRepo, statsRepo, f.gamRepo, &fakeActivityRepo{}, f.notifier, nil)
	f.svc = NewSocialService(f.socialRepo, f.userRepo, gamSvc, f.notifier)
	return f
}

func TestFollow(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "u1", "u2"))

	following, err := f.socialRepo.IsFollowing(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, f.notifier.sent(models.NotifyNewFollower))

	counts, err := f.svc.Counts(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Followers)
	assert.Equal(t, 0, counts.Following)

	counts, err = f.svc.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Followers)
	assert.Equal(t, 1, counts.Following)
}

func TestFollowSelf(t *testing.T) {
	f := newSocialFixture()

	err := f.svc.Follow(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, models.ErrSelfFollow)
	assert.Empty(t, f.socialRepo.edges)
}

func TestFollowUnknownUsers(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	err := f.svc.Follow(ctx, "u1", "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	err = f.svc.Follow(ctx, "ghost", "u2")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.False(t, f.notifier.sent(models.NotifyNewFollower))
}

func TestFollowTwice(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "u1", "u2"))
	err := f.svc.Follow(ctx, "u1", "u2")
	assert.ErrorIs(t, err, models.ErrAlreadyFollowing)

	counts, err := f.svc.Counts(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Followers)
}

func TestFollowGrantsSocialButterfly(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	// Nine followers is not enough, the tenth crosses the threshold.
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("fan%d", i)
		require.NoError(t, f.userRepo.Create(ctx, &models.User{ID: id, Username: id}))

		require.NoError(t, f.svc.Follow(ctx, id, "u2"))

		held, err := f.gamRepo.HasBadge(ctx, "u2", "social_butterfly")
		require.NoError(t, err)
		assert.Equal(t, i == 9, held, "after follower %d", i+1)
	}

	state, err := f.gamRepo.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, achievementCatalog["social_butterfly"].Reward.XP, state.XP)
	assert.True(t, f.notifier.sent(models.NotifyAchievementUnlocked))
}

func TestUnfollow(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "u1", "u2"))
	require.NoError(t, f.svc.Unfollow(ctx, "u1", "u2"))

	following, err := f.socialRepo.IsFollowing(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestCountsUnknownUser(t *testing.T) {
	f := newSocialFixture()

	_, err := f.svc.Counts(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestFollowersPagination(t *testing.T) {
	f := newSocialFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "u1", "u2"))

	list, err := f.svc.Followers(ctx, "u2", -1, -3)
	require.NoError(t, err)
	assert.Equal(t, 20, list.Limit)
	assert.Equal(t, 0, list.Offset)
	assert.Equal(t, 1, list.Total)
	assert.False(t, list.HasMore)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "u1", list.Data[0].UserID)

	list, err = f.svc.Following(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "u2", list.Data[0].UserID)
}
