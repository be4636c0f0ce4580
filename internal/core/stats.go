package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/models"
)

// statsMaxRetries bounds the optimistic-concurrency retry loop. Conflicts
// only happen when two updates for the same user race, so a handful of
// attempts is plenty.
const statsMaxRetries = 3

// StatsService applies deltas to a user's cumulative reading counters
type StatsService interface {
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	// Apply merges the delta into the stored stats and returns the new
	// snapshot. Concurrent writers are serialized by the revision
	// counter: on conflict the read-modify-write is retried from a
	// fresh snapshot, so no increment is ever lost.
	Apply(ctx context.Context, userID string, delta models.StatsDelta) (*models.UserStats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// Get retrieves the current stats snapshot
func (s *statsService) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	return s.statsRepo.Get(ctx, userID)
}

// Apply performs a compare-and-swap update with bounded retries
func (s *statsService) Apply(ctx context.Context, userID string, delta models.StatsDelta) (*models.UserStats, error) {
	var lastErr error
	for attempt := 0; attempt < statsMaxRetries; attempt++ {
		stats, err := s.statsRepo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}

		mergeDelta(stats, delta)

		err = s.statsRepo.UpdateCAS(ctx, stats)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, models.ErrStatsConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("stats update kept conflicting after %d attempts: %w", statsMaxRetries, lastErr)
}

func mergeDelta(stats *models.UserStats, delta models.StatsDelta) {
	if delta.RatingSample != nil {
		n := float64(stats.ReviewsWritten)
		stats.AverageRating = (stats.AverageRating*n + float64(*delta.RatingSample)) / (n + 1)
	}

	stats.TotalBooksRead += delta.BooksRead
	stats.TotalPagesRead += delta.PagesRead
	stats.ReviewsWritten += delta.ReviewsWritten
	stats.TotalReadingTime += delta.ReadingTime
	stats.BooksThisYear += delta.BooksThisYear

	if delta.AverageRating != nil {
		stats.AverageRating = *delta.AverageRating
	}
	if delta.ReadingStreak != nil {
		stats.ReadingStreak = *delta.ReadingStreak
	}
	if delta.LongestStreak != nil {
		stats.LongestStreak = *delta.LongestStreak
	}
	if delta.LastReadDate != nil {
		stats.LastReadDate = delta.LastReadDate
	}

	for _, genre := range delta.NewGenres {
		if genre == "" {
			continue
		}
		seen := false
		for _, g := range stats.GenresExplored {
			if g == genre {
				seen = true
				break
			}
		}
		if !seen {
			stats.GenresExplored = append(stats.GenresExplored, genre)
		}
	}
}
