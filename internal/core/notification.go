package core

import (
	"context"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/models"
)

// NotificationService serves the notification inbox
type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// List retrieves the user's notifications with the unread count
func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) (*models.NotificationListResponse, error) {
	limit, offset = clampPage(limit, offset)

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.NotificationListResponse{
		Data:        notifications,
		UnreadCount: unread,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     offset+limit < total,
	}, nil
}

// MarkRead marks one notification as read
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks every notification as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
