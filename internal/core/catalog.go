package core

import (
	"github.com/msrishav-28/penpal/pkg/models"
)

// achievementCatalog is the immutable achievement reference data.
// Keyed by achievement ID; definitions never change at runtime.
var achievementCatalog = map[string]models.Achievement{
	"first_book": {
		ID:          "first_book",
		Name:        "First Book",
		Description: "Finish your first book",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqBooksRead, Threshold: 1},
		Reward:      models.AchievementReward{XP: 50},
	},
	"bookworm": {
		ID:          "bookworm",
		Name:        "Bookworm",
		Description: "Finish 10 books",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqBooksRead, Threshold: 10},
		Reward:      models.AchievementReward{XP: 200, Title: "Bookworm"},
	},
	"book_collector": {
		ID:          "book_collector",
		Name:        "Book Collector",
		Description: "Finish 50 books",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqBooksRead, Threshold: 50},
		Reward:      models.AchievementReward{XP: 1000, Title: "Collector"},
	},
	"page_turner": {
		ID:          "page_turner",
		Name:        "Page Turner",
		Description: "Read 10,000 pages",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqPagesRead, Threshold: 10000},
		Reward:      models.AchievementReward{XP: 500},
	},
	"first_review": {
		ID:          "first_review",
		Name:        "First Review",
		Description: "Write your first review",
		Category:    models.CategoryCommunity,
		Requirement: models.AchievementRequirement{Type: models.ReqReviewsWritten, Threshold: 1},
		Reward:      models.AchievementReward{XP: 30},
	},
	"critic": {
		ID:          "critic",
		Name:        "Critic",
		Description: "Write 25 reviews",
		Category:    models.CategoryCommunity,
		Requirement: models.AchievementRequirement{Type: models.ReqReviewsWritten, Threshold: 25},
		Reward:      models.AchievementReward{XP: 300, Title: "Critic"},
	},
	"week_streak": {
		ID:          "week_streak",
		Name:        "Week Streak",
		Description: "Read 7 days in a row",
		Category:    models.CategoryStreak,
		Requirement: models.AchievementRequirement{Type: models.ReqStreak, Threshold: 7},
		Reward:      models.AchievementReward{XP: 100},
	},
	"month_streak": {
		ID:          "month_streak",
		Name:        "Month Streak",
		Description: "Read 30 days in a row",
		Category:    models.CategoryStreak,
		Requirement: models.AchievementRequirement{Type: models.ReqStreak, Threshold: 30},
		Reward:      models.AchievementReward{XP: 500, Title: "Devoted"},
	},
	"genre_explorer": {
		ID:          "genre_explorer",
		Name:        "Genre Explorer",
		Description: "Read books from 5 different genres",
		Category:    models.CategoryExplorer,
		Requirement: models.AchievementRequirement{Type: models.ReqGenres, Threshold: 5},
		Reward:      models.AchievementReward{XP: 150},
	},
	"marathon_reader": {
		ID:          "marathon_reader",
		Name:        "Marathon Reader",
		Description: "Read for 100 hours total",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqReadingTime, Threshold: 6000},
		Reward:      models.AchievementReward{XP: 400},
	},
	"night_owl": {
		ID:          "night_owl",
		Name:        "Night Owl",
		Description: "Finish a reading session between midnight and 5 AM",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqCustom, Threshold: 1},
		Reward:      models.AchievementReward{XP: 75},
		IsSecret:    true,
	},
	"early_bird": {
		ID:          "early_bird",
		Name:        "Early Bird",
		Description: "Finish a reading session between 5 and 8 AM",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqCustom, Threshold: 1},
		Reward:      models.AchievementReward{XP: 75},
		IsSecret:    true,
	},
	"speed_reader": {
		ID:          "speed_reader",
		Name:        "Speed Reader",
		Description: "Read 100 pages in a single session",
		Category:    models.CategoryReading,
		Requirement: models.AchievementRequirement{Type: models.ReqCustom, Threshold: 1},
		Reward:      models.AchievementReward{XP: 100},
	},
	"social_butterfly": {
		ID:          "social_butterfly",
		Name:        "Social Butterfly",
		Description: "Gain 10 followers",
		Category:    models.CategorySocial,
		Requirement: models.AchievementRequirement{Type: models.ReqSocial, Threshold: 10},
		Reward:      models.AchievementReward{XP: 150},
	},
}

// eventAchievements routes a gamification event to the achievements it can
// unlock. Evaluation walks this table instead of a hand-maintained switch,
// so adding a catalog entry only touches data.
var eventAchievements = map[string][]string{
	models.EventBookCompleted:  {"first_book", "bookworm", "book_collector", "page_turner", "marathon_reader"},
	models.EventSessionLogged:  {"page_turner", "marathon_reader"},
	models.EventStreakUpdated:  {"week_streak", "month_streak"},
	models.EventReviewWritten:  {"first_review", "critic"},
	models.EventGenreExplored:  {"genre_explorer"},
	models.EventSpeedRead:      {"speed_reader"},
	models.EventNightReading:   {"night_owl"},
	models.EventMorningReading: {"early_bird"},
	models.EventFollowerGained: {"social_butterfly"},
}

// AchievementByID looks up a catalog entry
func AchievementByID(id string) (models.Achievement, bool) {
	a, ok := achievementCatalog[id]
	return a, ok
}

// CatalogEntries returns the full catalog
func CatalogEntries() []models.Achievement {
	out := make([]models.Achievement, 0, len(achievementCatalog))
	for _, a := range achievementCatalog {
		out = append(out, a)
	}
	return out
}

// statsCounter reads the live counter a requirement type is measured
// against. Custom requirements have no counter and return 0.
func statsCounter(reqType string, stats *models.UserStats) int {
	switch reqType {
	case models.ReqBooksRead:
		return stats.TotalBooksRead
	case models.ReqPagesRead:
		return stats.TotalPagesRead
	case models.ReqReviewsWritten:
		return stats.ReviewsWritten
	case models.ReqStreak:
		return stats.ReadingStreak
	case models.ReqGenres:
		return len(stats.GenresExplored)
	case models.ReqReadingTime:
		return stats.TotalReadingTime
	default:
		return 0
	}
}
