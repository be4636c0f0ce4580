package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msrishav-28/penpal/pkg/models"
)

func TestEventAchievementsReferenceCatalog(t *testing.T) {
	// Every id the dispatch table can fire must exist in the catalog
	for event, ids := range eventAchievements {
		for _, id := range ids {
			_, ok := achievementCatalog[id]
			assert.True(t, ok, "event %s references unknown achievement %s", event, id)
		}
	}
}

func TestCatalogEntriesComplete(t *testing.T) {
	entries := CatalogEntries()
	assert.Len(t, entries, len(achievementCatalog))

	for _, a := range entries {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Category)
		assert.Greater(t, a.Reward.XP, 0, "achievement %s has no xp reward", a.ID)
		if a.Requirement.Type != models.ReqCustom {
			assert.Greater(t, a.Requirement.Threshold, 0, "achievement %s has no threshold", a.ID)
		}
	}
}

func TestAchievementByID(t *testing.T) {
	a, ok := AchievementByID("first_book")
	require.True(t, ok)
	assert.Equal(t, "First Book", a.Name)
	assert.Equal(t, models.ReqBooksRead, a.Requirement.Type)
	assert.Equal(t, 1, a.Requirement.Threshold)

	_, ok = AchievementByID("no_such_badge")
	assert.False(t, ok)
}

func TestStatsCounter(t *testing.T) {
	stats := &models.UserStats{
		TotalBooksRead:   12,
		TotalPagesRead:   3400,
		ReviewsWritten:   3,
		ReadingStreak:    7,
		TotalReadingTime: 900,
		GenresExplored:   []string{"fantasy", "horror", "sci-fi"},
	}

	assert.Equal(t, 12, statsCounter(models.ReqBooksRead, stats))
	assert.Equal(t, 3400, statsCounter(models.ReqPagesRead, stats))
	assert.Equal(t, 3, statsCounter(models.ReqReviewsWritten, stats))
	assert.Equal(t, 7, statsCounter(models.ReqStreak, stats))
	assert.Equal(t, 900, statsCounter(models.ReqReadingTime, stats))
	assert.Equal(t, 3, statsCounter(models.ReqGenres, stats))

	// Social and custom counters live outside UserStats
	assert.Equal(t, 0, statsCounter(models.ReqSocial, stats))
	assert.Equal(t, 0, statsCounter(models.ReqCustom, stats))
}
