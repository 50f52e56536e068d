package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/broker"
	"github.com/AleeDevp/italihub-app-sub003/internal/domain"
	"github.com/AleeDevp/italihub-app-sub003/internal/metrics"
	"github.com/AleeDevp/italihub-app-sub003/internal/model"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context, userID int64, filter repository.ListFilter) ([]model.Notification, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *repoMock) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) MarkRead(ctx context.Context, userID int64, ids []int64, readAt time.Time) (int64, error) {
	args := m.Called(ctx, userID, ids, readAt)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo repository.NotificationRepository) (*Service, *broker.Broker) {
	met := metrics.New()
	bkr := broker.New(zap.NewNop(), met)
	return NewService(repo, bkr, zap.NewNop(), met), bkr
}

func validInput() CreateInput {
	return CreateInput{
		UserID:   7,
		Type:     domain.NotificationTypeAdEvent,
		Severity: domain.SeveritySuccess,
		Title:    "Ad approved",
		Body:     "Your ad is now live.",
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("invalid type rejected before write", func(t *testing.T) {
		repo := &repoMock{}
		svc, _ := newTestService(repo)

		input := validInput()
		input.Type = "bad"
		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, domain.ErrInvalidNotificationType)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("invalid severity rejected before write", func(t *testing.T) {
		repo := &repoMock{}
		svc, _ := newTestService(repo)

		input := validInput()
		input.Severity = "fatal"
		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, domain.ErrInvalidSeverity)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("store error skips publish", func(t *testing.T) {
		storeErr := errors.New("store failed")
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.Notification{}, storeErr).Once()
		svc, bkr := newTestService(repo)

		conn := broker.NewConnection(7, 4)
		bkr.Add(conn)
		defer bkr.Remove(conn)

		_, err := svc.Create(context.Background(), validInput())
		require.ErrorIs(t, err, storeErr)
		repo.AssertExpectations(t)

		select {
		case ev := <-conn.Events():
			t.Fatalf("no event must be published for a failed write, got %q", ev.Name)
		default:
		}
	})

	t.Run("truncates title and body", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
			return len(n.Title) == domain.TitleMaxLen && len(n.Body) == domain.BodyMaxLen
		})).Return(model.Notification{ID: 1}, nil).Once()
		svc, _ := newTestService(repo)

		input := validInput()
		input.Title = strings.Repeat("t", 500)
		input.Body = strings.Repeat("b", 2000)
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("publishes serialized row after persist", func(t *testing.T) {
		created := model.Notification{
			ID:        42,
			UserID:    7,
			Type:      domain.NotificationTypeAdEvent,
			Severity:  domain.SeveritySuccess,
			Title:     "Ad approved",
			Body:      "Your ad is now live.",
			CreatedAt: time.Now().UTC(),
		}
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(created, nil).Once()
		svc, bkr := newTestService(repo)

		conn := broker.NewConnection(7, 4)
		bkr.Add(conn)
		defer bkr.Remove(conn)

		got, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		require.Equal(t, int64(42), got.ID)
		repo.AssertExpectations(t)

		select {
		case ev := <-conn.Events():
			require.Equal(t, EventNotification, ev.Name)
			var payload Payload
			require.NoError(t, json.Unmarshal(ev.Data, &payload))
			require.Equal(t, int64(42), payload.ID)
			require.Equal(t, domain.NotificationTypeAdEvent, payload.Type)
			require.Nil(t, payload.ReadAt)
		case <-time.After(200 * time.Millisecond):
			t.Fatal("expected publish to reach the connection")
		}
	})
}

func TestServiceListPage(t *testing.T) {
	rows := func(ids ...int64) []model.Notification {
		out := make([]model.Notification, 0, len(ids))
		base := time.Now().UTC()
		for _, id := range ids {
			out = append(out, model.Notification{
				ID:        id,
				UserID:    7,
				Type:      domain.NotificationTypeAdEvent,
				Severity:  domain.SeverityInfo,
				CreatedAt: base.Add(time.Duration(id) * time.Second),
			})
		}
		return out
	}

	t.Run("fetches take plus one and trims", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, int64(7), repository.ListFilter{Limit: 3}).
			Return(rows(5, 4, 3), nil).Once()
		svc, _ := newTestService(repo)

		page, err := svc.ListPage(context.Background(), 7, ListParams{Take: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.True(t, page.HasMore)
		require.NotNil(t, page.NextCursor)
		require.Equal(t, int64(4), page.NextCursor.CursorID)
		repo.AssertExpectations(t)
	})

	t.Run("exact page has no cursor", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, int64(7), repository.ListFilter{Limit: 3}).
			Return(rows(5, 4), nil).Once()
		svc, _ := newTestService(repo)

		page, err := svc.ListPage(context.Background(), 7, ListParams{Take: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.False(t, page.HasMore)
		require.Nil(t, page.NextCursor)
		repo.AssertExpectations(t)
	})

	t.Run("take defaults and caps", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, int64(7), repository.ListFilter{Limit: DefaultPageSize + 1}).
			Return([]model.Notification(nil), nil).Once()
		repo.On("ListNotifications", mock.Anything, int64(7), repository.ListFilter{Limit: MaxPageSize + 1}).
			Return([]model.Notification(nil), nil).Once()
		svc, _ := newTestService(repo)

		_, err := svc.ListPage(context.Background(), 7, ListParams{})
		require.NoError(t, err)
		_, err = svc.ListPage(context.Background(), 7, ListParams{Take: 500})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid type filter rejected", func(t *testing.T) {
		repo := &repoMock{}
		svc, _ := newTestService(repo)

		_, err := svc.ListPage(context.Background(), 7, ListParams{Type: "bogus"})
		require.ErrorIs(t, err, domain.ErrInvalidNotificationType)
		repo.AssertNotCalled(t, "ListNotifications", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error propagates", func(t *testing.T) {
		storeErr := errors.New("list failed")
		repo := &repoMock{}
		repo.On("ListNotifications", mock.Anything, int64(7), mock.Anything).
			Return([]model.Notification(nil), storeErr).Once()
		svc, _ := newTestService(repo)

		_, err := svc.ListPage(context.Background(), 7, ListParams{})
		require.ErrorIs(t, err, storeErr)
		repo.AssertExpectations(t)
	})
}

func TestServiceUnreadCount(t *testing.T) {
	repo := &repoMock{}
	repo.On("CountUnread", mock.Anything, int64(7)).Return(int64(3), nil).Once()
	svc, _ := newTestService(repo)

	count, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}

func TestServiceMarkRead(t *testing.T) {
	t.Run("oversized batch rejected before write", func(t *testing.T) {
		repo := &repoMock{}
		svc, _ := newTestService(repo)

		ids := make([]int64, domain.MarkReadMaxIDs+1)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		_, err := svc.MarkRead(context.Background(), 7, ids)
		require.ErrorIs(t, err, domain.ErrTooManyIDs)
		repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns rows actually transitioned", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkRead", mock.Anything, int64(7), []int64{1, 2, 3}, mock.Anything).
			Return(int64(2), nil).Once()
		svc, _ := newTestService(repo)

		updated, err := svc.MarkRead(context.Background(), 7, []int64{1, 2, 3})
		require.NoError(t, err)
		require.Equal(t, int64(2), updated)
		repo.AssertExpectations(t)
	})
}
