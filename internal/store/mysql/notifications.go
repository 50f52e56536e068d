package mysql

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/model"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
)

const insertNotification = `
INSERT INTO notifications
	(user_id, type, severity, title, body, deep_link, ad_id, verification_id, report_id, data, created_at)
VALUES
	(:user_id, :type, :severity, :title, :body, :deep_link, :ad_id, :verification_id, :report_id, :data, :created_at)`

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	result, err := s.db.NamedExecContext(ctx, insertNotification, notification)
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.Int64("user_id", notification.UserID),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sql last insert id failed", zap.Error(err))
		return model.Notification{}, err
	}
	notification.ID = id
	return notification, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, filter repository.ListFilter) ([]model.Notification, error) {
	query := `SELECT id, user_id, type, severity, title, body, deep_link, ad_id,
		verification_id, report_id, data, created_at, read_at
		FROM notifications WHERE user_id = ?`
	args := []any{userID}

	if filter.CursorID > 0 {
		query += " AND id < ?"
		args = append(args, filter.CursorID)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, filter.Limit)

	var rows []model.Notification
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.log.Error("sql list notifications failed",
			zap.Int64("user_id", userID),
			zap.Int64("cursor_id", filter.CursorID),
			zap.Error(err),
		)
		return nil, err
	}
	return rows, nil
}

func (s *Store) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read_at IS NULL", userID)
	if err != nil {
		s.log.Error("sql count unread failed", zap.Int64("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, userID int64, ids []int64, readAt time.Time) (int64, error) {
	query, args, err := sqlx.In(
		"UPDATE notifications SET read_at = ? WHERE user_id = ? AND read_at IS NULL AND id IN (?)",
		readAt, userID, ids)
	if err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		s.log.Error("sql mark read failed",
			zap.Int64("user_id", userID),
			zap.Int("batch", len(ids)),
			zap.Error(err),
		)
		return 0, err
	}
	return result.RowsAffected()
}
