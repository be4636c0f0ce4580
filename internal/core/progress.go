package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// finishBookXP is awarded once per book completion
const finishBookXP = 100

// ProgressService tracks a user's position and status per book
type ProgressService interface {
	Upsert(ctx context.Context, userID string, req models.UpsertProgressRequest) (*models.ReadingProgress, error)
	Get(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error)
	List(ctx context.Context, userID, status string, limit, offset int) (*models.ProgressListResponse, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	bookRepo     repository.BookRepository
	activityRepo repository.ActivityRepository
	stats        StatsService
	gamification GamificationService
	now          func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo repository.ProgressRepository,
	bookRepo repository.BookRepository,
	activityRepo repository.ActivityRepository,
	stats StatsService,
	gamification GamificationService,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		bookRepo:     bookRepo,
		activityRepo: activityRepo,
		stats:        stats,
		gamification: gamification,
		now:          time.Now,
	}
}

// Upsert creates or updates the user's progress on a book, enforcing the
// status state machine. Transitioning into finished runs the completion
// cascade: stats, XP, activity and achievement checks.
func (s *progressService) Upsert(ctx context.Context, userID string, req models.UpsertProgressRequest) (*models.ReadingProgress, error) {
	if req.BookID == "" {
		return nil, fmt.Errorf("%w: book_id is required", models.ErrInvalidInput)
	}
	if req.Status != "" && !models.IsValidReadingStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, req.Status)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be 1-5", models.ErrInvalidInput)
	}

	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Get(ctx, userID, req.BookID)
	switch {
	case err == nil:
		return s.update(ctx, progress, book, req)
	case errors.Is(err, models.ErrNotFound):
		return s.create(ctx, userID, book, req)
	default:
		return nil, err
	}
}

func (s *progressService) create(ctx context.Context, userID string, book *models.Book, req models.UpsertProgressRequest) (*models.ReadingProgress, error) {
	status := req.Status
	if status == "" {
		status = models.StatusWantToRead
	}

	now := s.now()
	progress := &models.ReadingProgress{
		ID:         uuid.New().String(),
		UserID:     userID,
		BookID:     book.ID,
		TotalPages: book.TotalPages,
		Status:     status,
		Rating:     req.Rating,
	}
	if req.CurrentPage != nil && *req.CurrentPage > 0 {
		progress.CurrentPage = *req.CurrentPage
	}
	if status == models.StatusCurrentlyReading {
		progress.StartDate = &now
	}

	if err := s.progressRepo.Create(ctx, progress); err != nil {
		return nil, err
	}

	if status == models.StatusCurrentlyReading {
		s.recordActivity(ctx, userID, book.ID, models.ActivityStartedReading, "")
	}
	if status == models.StatusFinished {
		progress.FinishDate = &now
		progress.CurrentPage = book.TotalPages
		if err := s.progressRepo.Update(ctx, progress); err != nil {
			return nil, err
		}
		if err := s.completeBook(ctx, userID, book); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

func (s *progressService) update(ctx context.Context, progress *models.ReadingProgress, book *models.Book, req models.UpsertProgressRequest) (*models.ReadingProgress, error) {
	newStatus := progress.Status
	if req.Status != "" {
		if !models.CanTransition(progress.Status, req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, progress.Status, req.Status)
		}
		newStatus = req.Status
	}

	now := s.now()
	finishing := newStatus == models.StatusFinished && progress.Status != models.StatusFinished
	starting := newStatus == models.StatusCurrentlyReading && progress.Status == models.StatusWantToRead

	progress.Status = newStatus
	if req.CurrentPage != nil {
		if *req.CurrentPage < 0 {
			return nil, fmt.Errorf("%w: current_page cannot be negative", models.ErrInvalidInput)
		}
		progress.CurrentPage = *req.CurrentPage
	}
	if req.Rating != nil {
		progress.Rating = req.Rating
	}
	if starting && progress.StartDate == nil {
		progress.StartDate = &now
	}
	if finishing {
		progress.FinishDate = &now
		if book.TotalPages > 0 {
			progress.CurrentPage = book.TotalPages
		}
	}

	if err := s.progressRepo.Update(ctx, progress); err != nil {
		return nil, err
	}

	if starting {
		s.recordActivity(ctx, progress.UserID, book.ID, models.ActivityStartedReading, "")
	}
	if finishing {
		if err := s.completeBook(ctx, progress.UserID, book); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

// completeBook runs the book-finished cascade
func (s *progressService) completeBook(ctx context.Context, userID string, book *models.Book) error {
	delta := models.StatsDelta{
		BooksRead:     1,
		BooksThisYear: 1,
		NewGenres:     book.Genres,
	}
	if _, err := s.stats.Apply(ctx, userID, delta); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	if _, err := s.gamification.AwardXP(ctx, userID, finishBookXP, "book_finished"); err != nil {
		return fmt.Errorf("failed to award xp: %w", err)
	}

	s.recordActivity(ctx, userID, book.ID, models.ActivityBookFinished, "")

	if _, err := s.gamification.CheckAchievements(ctx, userID, models.EventBookCompleted, nil); err != nil {
		logger.Warnf("Achievement check failed: user=%s event=%s error=%v", userID, models.EventBookCompleted, err)
	}
	if len(book.Genres) > 0 {
		if _, err := s.gamification.CheckAchievements(ctx, userID, models.EventGenreExplored, nil); err != nil {
			logger.Warnf("Achievement check failed: user=%s event=%s error=%v", userID, models.EventGenreExplored, err)
		}
	}
	return nil
}

func (s *progressService) recordActivity(ctx context.Context, userID, bookID, activityType, subject string) {
	activity := &models.Activity{
		ID:      uuid.New().String(),
		Type:    activityType,
		UserID:  userID,
		BookID:  &bookID,
		Subject: subject,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		logger.Warnf("Failed to record activity: user=%s type=%s error=%v", userID, activityType, err)
	}
}

// Get retrieves the user's progress on one book
func (s *progressService) Get(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error) {
	return s.progressRepo.Get(ctx, userID, bookID)
}

// List retrieves the user's library, optionally filtered by status
func (s *progressService) List(ctx context.Context, userID, status string, limit, offset int) (*models.ProgressListResponse, error) {
	if status != "" && !models.IsValidReadingStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, status)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.progressRepo.ListByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.ProgressListResponse{
		Data:    items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}
