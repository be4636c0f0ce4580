package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
)

// Notifier is the outbound notification capability the core services
// depend on. Emission is best-effort: callers never fail an operation
// because a notification could not be delivered.
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, title, message string, data map[string]interface{})
}

type redisNotifier struct {
	notificationRepo repository.NotificationRepository
	redisClient      *redis.Client
}

// NewNotifier creates a notifier that persists notifications and publishes
// them to the user's redis channel for connected clients. The redis client
// may be nil, in which case only persistence happens.
func NewNotifier(notificationRepo repository.NotificationRepository, redisClient *redis.Client) Notifier {
	return &redisNotifier{
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
	}
}

// NotifyChannel returns the redis pub/sub channel for a user's
// realtime notifications
func NotifyChannel(userID string) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

// Notify stores the notification and pushes it to subscribers.
// Failures are logged and swallowed.
func (n *redisNotifier) Notify(ctx context.Context, userID, notifType, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		logger.Errorf("Failed to persist notification: user=%s type=%s error=%v", userID, notifType, err)
		return
	}

	if n.redisClient == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		logger.Errorf("Failed to marshal notification: %v", err)
		return
	}
	if err := n.redisClient.Publish(ctx, NotifyChannel(userID), payload).Err(); err != nil {
		logger.Warnf("Failed to publish notification: user=%s error=%v", userID, err)
	}
}

// noopNotifier discards everything. Used where notification wiring is
// not available (CLI tooling, tests).
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that drops all notifications
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(ctx context.Context, userID, notifType, title, message string, data map[string]interface{}) {
}
