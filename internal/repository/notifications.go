package repository

import (
	"context"
	"time"

	"github.com/AleeDevp/italihub-app-sub003/internal/model"
)

// ListFilter narrows a history page. CursorID, when non-zero, restricts the
// page to rows with id strictly below it; Type, when non-empty, restricts by
// category. Limit is the exact number of rows to fetch.
type ListFilter struct {
	CursorID int64
	Type     string
	Limit    int
}

type NotificationRepository interface {
	// CreateNotification appends a row and returns it with the assigned id.
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	// ListNotifications returns up to filter.Limit rows for the user, ordered
	// by (created_at desc, id desc).
	ListNotifications(ctx context.Context, userID int64, filter ListFilter) ([]model.Notification, error)
	// CountUnread counts the user's rows with a null read timestamp.
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// MarkRead stamps readAt on the user's still-unread rows among ids and
	// returns the number actually transitioned.
	MarkRead(ctx context.Context, userID int64, ids []int64, readAt time.Time) (int64, error)
}
