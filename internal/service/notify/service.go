package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/broker"
	"github.com/AleeDevp/italihub-app-sub003/internal/domain"
	"github.com/AleeDevp/italihub-app-sub003/internal/metrics"
	"github.com/AleeDevp/italihub-app-sub003/internal/model"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
)

// EventNotification is the SSE event name carrying a serialized notification.
const EventNotification = "notification"

// CreateInput is what a producing action supplies. Title and body are
// truncated, never rejected, so producers don't need to know the limits.
type CreateInput struct {
	UserID         int64
	Type           string
	Severity       string
	Title          string
	Body           string
	DeepLink       *string
	AdID           *int64
	VerificationID *int64
	ReportID       *int64
	Data           model.JSONMap
}

// ListParams selects a backfill page.
type ListParams struct {
	Take     int
	CursorID int64
	Type     string
}

// Cursor points at the last item of a returned page.
type Cursor struct {
	CursorID int64 `json:"cursorId"`
}

// Page is one backfill response: Take items at most, already ordered by
// (createdAt desc, id desc).
type Page struct {
	Items      []Payload `json:"items"`
	NextCursor *Cursor   `json:"nextCursor"`
	HasMore    bool      `json:"hasMore"`
}

const (
	DefaultPageSize = 30
	MaxPageSize     = 50
)

// Service is the single write path for notifications and the read paths for
// unread count and read-state mutation.
type Service struct {
	store repository.NotificationRepository
	bkr   *broker.Broker
	log   *zap.Logger
	met   *metrics.Metrics
}

func NewService(store repository.NotificationRepository, bkr *broker.Broker, logger *zap.Logger, met *metrics.Metrics) *Service {
	return &Service{store: store, bkr: bkr, log: logger, met: met}
}

// Create validates and truncates the input, persists the notification, then
// hands the serialized row to the broker. The live push happens only after a
// successful write; a failed push is not rolled back, the client recovers it
// from backfill.
func (s *Service) Create(ctx context.Context, input CreateInput) (model.Notification, error) {
	if !domain.IsValidNotificationType(input.Type) {
		return model.Notification{}, domain.ErrInvalidNotificationType
	}
	if !domain.IsValidSeverity(input.Severity) {
		return model.Notification{}, domain.ErrInvalidSeverity
	}

	notification := model.Notification{
		UserID:         input.UserID,
		Type:           input.Type,
		Severity:       input.Severity,
		Title:          domain.Truncate(input.Title, domain.TitleMaxLen),
		Body:           domain.Truncate(input.Body, domain.BodyMaxLen),
		AdID:           input.AdID,
		VerificationID: input.VerificationID,
		ReportID:       input.ReportID,
		Data:           input.Data,
		CreatedAt:      time.Now().UTC(),
	}
	if input.DeepLink != nil {
		link := domain.Truncate(*input.DeepLink, domain.DeepLinkMaxLen)
		notification.DeepLink = &link
	}

	created, err := s.store.CreateNotification(ctx, notification)
	if err != nil {
		s.log.Error("store create notification failed",
			zap.Int64("user_id", input.UserID),
			zap.String("type", input.Type),
			zap.String("severity", input.Severity),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	s.met.NotificationsCreated.Inc()

	raw, err := json.Marshal(Serialize(created))
	if err != nil {
		s.log.Error("serialize notification failed", zap.Int64("id", created.ID), zap.Error(err))
		return created, nil
	}
	s.bkr.Publish(created.UserID, EventNotification, raw)
	return created, nil
}

// ListPage serves cursor-paginated backfill. One extra row is fetched to
// decide hasMore without a second round trip.
func (s *Service) ListPage(ctx context.Context, userID int64, params ListParams) (Page, error) {
	take := params.Take
	if take <= 0 {
		take = DefaultPageSize
	}
	if take > MaxPageSize {
		take = MaxPageSize
	}
	if params.Type != "" && !domain.IsValidNotificationType(params.Type) {
		return Page{}, domain.ErrInvalidNotificationType
	}

	rows, err := s.store.ListNotifications(ctx, userID, repository.ListFilter{
		CursorID: params.CursorID,
		Type:     params.Type,
		Limit:    take + 1,
	})
	if err != nil {
		s.log.Error("store list notifications failed",
			zap.Int64("user_id", userID),
			zap.Int64("cursor_id", params.CursorID),
			zap.Error(err),
		)
		return Page{}, err
	}

	page := Page{Items: make([]Payload, 0, take)}
	if len(rows) > take {
		page.HasMore = true
		rows = rows[:take]
	}
	for _, row := range rows {
		page.Items = append(page.Items, Serialize(row))
	}
	if page.HasMore {
		page.NextCursor = &Cursor{CursorID: rows[len(rows)-1].ID}
	}
	return page, nil
}

// UnreadCount has no side effects.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		s.log.Error("store count unread failed", zap.Int64("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// MarkRead stamps readAt on the still-unread rows among ids and returns the
// count actually transitioned. Re-marking already-read ids updates nothing
// and is not an error.
func (s *Service) MarkRead(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if err := domain.ValidateMarkReadIDs(ids); err != nil {
		return 0, err
	}
	updated, err := s.store.MarkRead(ctx, userID, ids, time.Now().UTC())
	if err != nil {
		s.log.Error("store mark read failed",
			zap.Int64("user_id", userID),
			zap.Int("batch", len(ids)),
			zap.Error(err),
		)
		return 0, err
	}
	return updated, nil
}
