package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// SocialService manages the follow graph
type SocialService interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Counts(ctx context.Context, userID string) (*models.FollowCounts, error)
	Followers(ctx context.Context, userID string, limit, offset int) (*models.FollowListResponse, error)
	Following(ctx context.Context, userID string, limit, offset int) (*models.FollowListResponse, error)
}

type socialService struct {
	socialRepo   repository.SocialRepository
	userRepo     repository.UserRepository
	gamification GamificationService
	notifier     Notifier
}

// NewSocialService creates a new social service
func NewSocialService(
	socialRepo repository.SocialRepository,
	userRepo repository.UserRepository,
	gamification GamificationService,
	notifier Notifier,
) SocialService {
	return &socialService{
		socialRepo:   socialRepo,
		userRepo:     userRepo,
		gamification: gamification,
		notifier:     notifier,
	}
}

// Follow creates a follow edge, notifies the followee and checks their
// follower-count achievement
func (s *socialService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return models.ErrSelfFollow
	}

	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}
	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}

	follow := &models.Follow{
		ID:         uuid.New().String(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := s.socialRepo.Follow(ctx, follow); err != nil {
		return err
	}

	s.notifier.Notify(ctx, followee.ID, models.NotifyNewFollower,
		"New Follower",
		fmt.Sprintf("%s started following you", follower.Username),
		map[string]interface{}{"follower_id": followerID, "follower_username": follower.Username})

	counts, err := s.socialRepo.Counts(ctx, followeeID)
	if err != nil {
		logger.Warnf("Failed to load follow counts: user=%s error=%v", followeeID, err)
		return nil
	}
	if _, err := s.gamification.CheckAchievements(ctx, followeeID, models.EventFollowerGained,
		map[string]int{models.ReqSocial: counts.Followers}); err != nil {
		logger.Warnf("Achievement check failed: user=%s event=%s error=%v",
			followeeID, models.EventFollowerGained, err)
	}
	return nil
}

// Unfollow removes a follow edge
func (s *socialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.socialRepo.Unfollow(ctx, followerID, followeeID)
}

// Counts returns follower and following totals
func (s *socialService) Counts(ctx context.Context, userID string) (*models.FollowCounts, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.Counts(ctx, userID)
}

// Followers lists users following the given user
func (s *socialService) Followers(ctx context.Context, userID string, limit, offset int) (*models.FollowListResponse, error) {
	return s.listEdge(ctx, s.socialRepo.ListFollowers, userID, limit, offset)
}

// Following lists users the given user follows
func (s *socialService) Following(ctx context.Context, userID string, limit, offset int) (*models.FollowListResponse, error) {
	return s.listEdge(ctx, s.socialRepo.ListFollowing, userID, limit, offset)
}

func (s *socialService) listEdge(
	ctx context.Context,
	fetch func(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error),
	userID string, limit, offset int,
) (*models.FollowListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := fetch(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.FollowListResponse{
		Data:    entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}
