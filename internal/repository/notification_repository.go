package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msrishav-28/penpal/pkg/models"
)

// NotificationRepository persists user notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

// Create inserts a notification. The data payload is stored as JSONB.
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	data, err := json.Marshal(notification.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, CURRENT_TIMESTAMP)
		RETURNING created_at
	`
	err = r.pool.QueryRow(ctx, query,
		notification.ID, notification.UserID, notification.Type,
		notification.Title, notification.Message, data,
	).Scan(&notification.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_notification")
	}
	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error) {
	where := `WHERE user_id = $1 AND (NOT $2 OR is_read = false)`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications `+where, userID, unreadOnly,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_notifications")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, type, title, message, data, is_read, created_at
		 FROM notifications `+where+`
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_notifications")
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var data []byte
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&data, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_notification")
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification data: %w", err)
			}
		}
		out = append(out, n)
	}
	return out, total, nil
}

// UnreadCount counts a user's unread notifications
func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "unread_count")
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return mapDBError(err, "mark_read")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID)
	if err != nil {
		return mapDBError(err, "mark_all_read")
	}
	return nil
}
