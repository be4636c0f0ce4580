package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// reviewXP is awarded once per posted review
const reviewXP = 25

// ReviewService manages book reviews
type ReviewService interface {
	Create(ctx context.Context, userID, bookID string, req models.CreateReviewRequest) (*models.Review, error)
	ListByBook(ctx context.Context, bookID string, limit, offset int) (*models.ReviewListResponse, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) (*models.ReviewListResponse, error)
	Delete(ctx context.Context, userID, reviewID string) error
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	bookRepo     repository.BookRepository
	activityRepo repository.ActivityRepository
	stats        StatsService
	gamification GamificationService
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	activityRepo repository.ActivityRepository,
	stats StatsService,
	gamification GamificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		bookRepo:     bookRepo,
		activityRepo: activityRepo,
		stats:        stats,
		gamification: gamification,
	}
}

// Create posts a review, one per user per book, then updates the
// reviewer's stats and fires the review achievement check
func (s *reviewService) Create(ctx context.Context, userID, bookID string, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1-5", models.ErrInvalidInput)
	}
	if len(req.Text) > 10000 {
		return nil, fmt.Errorf("%w: review text too long", models.ErrInvalidInput)
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:     uuid.New().String(),
		UserID: userID,
		BookID: bookID,
		Rating: req.Rating,
		Text:   req.Text,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.stats.Apply(ctx, userID, models.StatsDelta{ReviewsWritten: 1, RatingSample: &req.Rating}); err != nil {
		logger.Errorf("Failed to bump review counter: user=%s error=%v", userID, err)
	}
	if _, err := s.gamification.AwardXP(ctx, userID, reviewXP, "review_written"); err != nil {
		logger.Errorf("Failed to award review xp: user=%s error=%v", userID, err)
	}

	activity := &models.Activity{
		ID:      uuid.New().String(),
		Type:    models.ActivityReviewPosted,
		UserID:  userID,
		BookID:  &bookID,
		Subject: review.ID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		logger.Warnf("Failed to record review activity: user=%s error=%v", userID, err)
	}

	if _, err := s.gamification.CheckAchievements(ctx, userID, models.EventReviewWritten, nil); err != nil {
		logger.Warnf("Achievement check failed: user=%s event=%s error=%v", userID, models.EventReviewWritten, err)
	}

	return review, nil
}

// ListByBook retrieves reviews of a book
func (s *reviewService) ListByBook(ctx context.Context, bookID string, limit, offset int) (*models.ReviewListResponse, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.list(ctx, func(limit, offset int) ([]models.ReviewWithUser, int, error) {
		return s.reviewRepo.ListByBook(ctx, bookID, limit, offset)
	}, limit, offset)
}

// ListByUser retrieves reviews written by a user
func (s *reviewService) ListByUser(ctx context.Context, userID string, limit, offset int) (*models.ReviewListResponse, error) {
	return s.list(ctx, func(limit, offset int) ([]models.ReviewWithUser, int, error) {
		return s.reviewRepo.ListByUser(ctx, userID, limit, offset)
	}, limit, offset)
}

func (s *reviewService) list(ctx context.Context, fetch func(limit, offset int) ([]models.ReviewWithUser, int, error), limit, offset int) (*models.ReviewListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reviews, total, err := fetch(limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.ReviewListResponse{
		Data:    reviews,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// Delete removes the user's own review
func (s *reviewService) Delete(ctx context.Context, userID, reviewID string) error {
	return s.reviewRepo.Delete(ctx, reviewID, userID)
}
