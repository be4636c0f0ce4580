package core

import (
	"context"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/models"
)

// ActivityService serves the social activity feed
type ActivityService interface {
	// Feed returns activities from the users the viewer follows,
	// including the viewer's own.
	Feed(ctx context.Context, viewerID string, limit, offset int) (*models.ActivityFeedResponse, error)
	ForUser(ctx context.Context, userID string, limit, offset int) (*models.ActivityFeedResponse, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	socialRepo   repository.SocialRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repository.ActivityRepository, socialRepo repository.SocialRepository) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		socialRepo:   socialRepo,
	}
}

// Feed assembles the viewer's home feed
func (s *activityService) Feed(ctx context.Context, viewerID string, limit, offset int) (*models.ActivityFeedResponse, error) {
	limit, offset = clampPage(limit, offset)

	ids, err := s.socialRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, viewerID)

	activities, total, err := s.activityRepo.Feed(ctx, ids, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.ActivityFeedResponse{
		Data:    activities,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// ForUser returns one user's public activity history
func (s *activityService) ForUser(ctx context.Context, userID string, limit, offset int) (*models.ActivityFeedResponse, error) {
	limit, offset = clampPage(limit, offset)

	activities, total, err := s.activityRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.ActivityFeedResponse{
		Data:    activities,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
