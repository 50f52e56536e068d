package memory

import (
	"context"
	"time"

	"github.com/AleeDevp/italihub-app-sub003/internal/model"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification.ID = s.nextID
	s.nextID++
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, notification)
	return notification, nil
}

func (s *Store) ListNotifications(_ context.Context, userID int64, filter repository.ListFilter) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// records is append-only with ascending ids, so walking backwards yields
	// (created_at desc, id desc) without sorting.
	var result []model.Notification
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if record.UserID != userID {
			continue
		}
		if filter.CursorID > 0 && record.ID >= filter.CursorID {
			continue
		}
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		result = append(result, record)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) CountUnread(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, record := range s.records {
		if record.UserID == userID && record.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkRead(_ context.Context, userID int64, ids []int64, readAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var updated int64
	for i := range s.records {
		record := &s.records[i]
		if record.UserID != userID || record.ReadAt != nil {
			continue
		}
		if _, ok := wanted[record.ID]; !ok {
			continue
		}
		ts := readAt
		record.ReadAt = &ts
		updated++
	}
	return updated, nil
}
