package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// leaderboardKey is the redis sorted set mirroring total XP per user
const leaderboardKey = "leaderboard:xp"

// GamificationService defines XP, level and achievement operations
type GamificationService interface {
	AwardXP(ctx context.Context, userID string, amount int, reason string) (*models.XPAward, error)
	CheckAchievements(ctx context.Context, userID, event string, data map[string]int) ([]string, error)
	AwardAchievement(ctx context.Context, userID, achievementID string) (*models.Achievement, error)
	GetUserAchievements(ctx context.Context, userID string) (*models.UserAchievements, error)
	GetProfile(ctx context.Context, userID string) (*models.GamificationProfile, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type gamificationService struct {
	userRepo     repository.UserRepository
	statsRepo    repository.StatsRepository
	gamRepo      repository.GamificationRepository
	activityRepo repository.ActivityRepository
	notifier     Notifier
	redisClient  *redis.Client
}

// NewGamificationService creates a new gamification service. The redis
// client backs the live leaderboard and may be nil.
func NewGamificationService(
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	gamRepo repository.GamificationRepository,
	activityRepo repository.ActivityRepository,
	notifier Notifier,
	redisClient *redis.Client,
) GamificationService {
	return &gamificationService{
		userRepo:     userRepo,
		statsRepo:    statsRepo,
		gamRepo:      gamRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		redisClient:  redisClient,
	}
}

// AwardXP adds XP to a user and recomputes level and rank together.
// Emits a level-up notification when the new level strictly exceeds the
// old one, never on ties.
func (s *gamificationService) AwardXP(ctx context.Context, userID string, amount int, reason string) (*models.XPAward, error) {
	g, err := s.gamRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gamification state: %w", err)
	}

	oldLevel := g.Level
	g.XP += amount
	if g.XP < 0 {
		g.XP = 0
	}
	g.Level = LevelForXP(g.XP)
	g.Rank = RankForLevel(g.Level)

	if err := s.gamRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to persist xp award: %w", err)
	}

	s.syncLeaderboard(ctx, userID, g.XP)
	logger.Gamification(userID, reason, amount)

	leveledUp := g.Level > oldLevel
	if leveledUp {
		s.notifier.Notify(ctx, userID, models.NotifyLevelUp,
			"Level Up!",
			fmt.Sprintf("You reached level %d and earned the rank %s", g.Level, g.Rank),
			map[string]interface{}{"level": g.Level, "rank": g.Rank})
	}

	return &models.XPAward{
		XPAwarded: amount,
		TotalXP:   g.XP,
		Level:     g.Level,
		LeveledUp: leveledUp,
		Rank:      g.Rank,
	}, nil
}

// CheckAchievements evaluates every achievement the event can unlock and
// awards the ones whose counters have reached their thresholds. Thresholds
// use >= with an already-held guard, so a counter jumping past a threshold
// in one update (bulk import) still unlocks the achievement exactly once.
func (s *gamificationService) CheckAchievements(ctx context.Context, userID, event string, data map[string]int) ([]string, error) {
	candidates, ok := eventAchievements[event]
	if !ok {
		return nil, nil
	}

	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	var granted []string
	for _, id := range candidates {
		achievement := achievementCatalog[id]

		var current int
		if achievement.Requirement.Type == models.ReqCustom {
			// Custom achievements fire directly off their event; the
			// caller supplies a counter only when one is meaningful.
			current = 1
			if v, ok := data[id]; ok {
				current = v
			}
		} else {
			current = statsCounter(achievement.Requirement.Type, stats)
			if v, ok := data[achievement.Requirement.Type]; ok {
				current = v
			}
		}

		if current < achievement.Requirement.Threshold {
			continue
		}

		if _, err := s.AwardAchievement(ctx, userID, id); err != nil {
			if errors.Is(err, models.ErrAchievementEarned) {
				continue
			}
			return granted, fmt.Errorf("failed to award %s: %w", id, err)
		}
		granted = append(granted, id)
	}
	return granted, nil
}

// AwardAchievement grants one achievement: inserts the badge, adds the
// reward XP and emits a notification. Idempotent per user; a repeat call
// returns ErrAchievementEarned without re-granting XP.
func (s *gamificationService) AwardAchievement(ctx context.Context, userID, achievementID string) (*models.Achievement, error) {
	achievement, ok := achievementCatalog[achievementID]
	if !ok {
		return nil, models.ErrAchievementUnknown
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, models.ErrUserNotFound
	}

	badge := &models.Badge{
		ID:            uuid.New().String(),
		UserID:        userID,
		AchievementID: achievementID,
		Category:      achievement.Category,
		EarnedAt:      time.Now(),
	}
	if err := s.gamRepo.InsertBadge(ctx, badge); err != nil {
		return nil, err
	}

	if _, err := s.AwardXP(ctx, userID, achievement.Reward.XP, "achievement:"+achievementID); err != nil {
		return nil, fmt.Errorf("badge granted but xp award failed: %w", err)
	}

	s.notifier.Notify(ctx, userID, models.NotifyAchievementUnlocked,
		"Achievement Unlocked!",
		fmt.Sprintf("%s: %s", achievement.Name, achievement.Description),
		map[string]interface{}{"achievement_id": achievementID, "xp": achievement.Reward.XP})

	activity := &models.Activity{
		ID:      uuid.New().String(),
		Type:    models.ActivityAchievementUnlocked,
		UserID:  userID,
		Subject: achievementID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		logger.Warnf("Failed to record achievement activity: user=%s achievement=%s error=%v",
			userID, achievementID, err)
	}

	return &achievement, nil
}

// GetUserAchievements returns earned and still-available achievements
// with progress percentages computed from the user's live stats
func (s *gamificationService) GetUserAchievements(ctx context.Context, userID string) (*models.UserAchievements, error) {
	g, err := s.gamRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gamification state: %w", err)
	}
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	badges, err := s.gamRepo.ListBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}

	earnedAt := make(map[string]time.Time, len(badges))
	for _, b := range badges {
		earnedAt[b.AchievementID] = b.EarnedAt
	}

	result := &models.UserAchievements{
		TotalXP: g.XP,
		Level:   g.Level,
		Rank:    g.Rank,
	}

	for _, achievement := range CatalogEntries() {
		progress := models.AchievementProgress{Achievement: achievement}
		if at, held := earnedAt[achievement.ID]; held {
			t := at
			progress.Completed = true
			progress.Progress = 100
			progress.EarnedAt = &t
			result.Earned = append(result.Earned, progress)
			continue
		}

		if achievement.Requirement.Type != models.ReqCustom && achievement.Requirement.Threshold > 0 {
			current := statsCounter(achievement.Requirement.Type, stats)
			pct := current * 100 / achievement.Requirement.Threshold
			if pct > 100 {
				pct = 100
			}
			progress.Progress = pct
		}
		result.Available = append(result.Available, progress)
	}
	return result, nil
}

// GetProfile assembles the full gamification view of a user
func (s *gamificationService) GetProfile(ctx context.Context, userID string) (*models.GamificationProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.ErrUserNotFound
	}
	g, err := s.gamRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gamification state: %w", err)
	}
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	badges, err := s.gamRepo.ListBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}

	nextLevelXP := XPForLevel(g.Level + 1)
	levelFloor := XPForLevel(g.Level)
	percent := 0
	if nextLevelXP > levelFloor {
		percent = (g.XP - levelFloor) * 100 / (nextLevelXP - levelFloor)
	}

	return &models.GamificationProfile{
		UserID:       user.ID,
		Username:     user.Username,
		XP:           g.XP,
		Level:        g.Level,
		Rank:         g.Rank,
		NextLevelXP:  nextLevelXP,
		LevelPercent: percent,
		Badges:       badges,
		Stats:        stats,
	}, nil
}

// Leaderboard returns the top users by XP. The redis sorted set is the
// fast path; PostgreSQL answers when redis is down or empty.
func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.redisClient != nil {
		entries, err := s.leaderboardFromRedis(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			logger.Warnf("Redis leaderboard unavailable, falling back to database: %v", err)
		}
	}
	return s.gamRepo.TopByXP(ctx, limit)
}

func (s *gamificationService) leaderboardFromRedis(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	members, err := s.redisClient.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		userID, _ := m.Member.(string)
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			continue
		}
		xp := int(m.Score)
		level := LevelForXP(xp)
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   userID,
			Username: user.Username,
			XP:       xp,
			Level:    level,
			Title:    RankForLevel(level),
		})
	}
	return entries, nil
}

// syncLeaderboard mirrors the user's XP into the redis sorted set,
// best effort
func (s *gamificationService) syncLeaderboard(ctx context.Context, userID string, xp int) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err(); err != nil {
		logger.Warnf("Failed to sync leaderboard for user %s (xp=%d): %v", userID, xp, err)
	}
}
