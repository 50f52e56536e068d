//go:build integration

package mysql

import (
	"context"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/domain"
	"github.com/AleeDevp/italihub-app-sub003/internal/model"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
)

func TestMySQLStoreIntegration(t *testing.T) {
	ctx := context.Background()
	dsn, cleanup := setupMySQLContainer(t, ctx)
	defer cleanup()

	dbConn, err := sqlx.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()

	store := New(dbConn, zap.NewNop())

	link := "/ads/42"
	adID := int64(42)
	created, err := store.CreateNotification(ctx, model.Notification{
		UserID:   7,
		Type:     domain.NotificationTypeAdEvent,
		Severity: domain.SeveritySuccess,
		Title:    "Ad approved",
		Body:     "Your ad is now live.",
		DeepLink: &link,
		AdID:     &adID,
		Data:     model.JSONMap{"city": "Milano"},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	second, err := store.CreateNotification(ctx, model.Notification{
		UserID:   7,
		Type:     domain.NotificationTypeReportEvent,
		Severity: domain.SeverityWarning,
		Title:    "Report received",
		Body:     "A report was filed against your ad.",
	})
	require.NoError(t, err)
	require.Greater(t, second.ID, created.ID)

	t.Run("list descending with round-tripped fields", func(t *testing.T) {
		rows, err := store.ListNotifications(ctx, 7, repository.ListFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, second.ID, rows[0].ID)
		require.Equal(t, created.ID, rows[1].ID)
		require.NotNil(t, rows[1].DeepLink)
		require.Equal(t, link, *rows[1].DeepLink)
		require.Equal(t, model.JSONMap{"city": "Milano"}, rows[1].Data)
		require.Nil(t, rows[0].ReadAt)
	})

	t.Run("cursor pagination", func(t *testing.T) {
		rows, err := store.ListNotifications(ctx, 7, repository.ListFilter{CursorID: second.ID, Limit: 10})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, created.ID, rows[0].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		rows, err := store.ListNotifications(ctx, 7, repository.ListFilter{
			Type:  domain.NotificationTypeReportEvent,
			Limit: 10,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, second.ID, rows[0].ID)
	})

	t.Run("unread count and idempotent mark read", func(t *testing.T) {
		count, err := store.CountUnread(ctx, 7)
		require.NoError(t, err)
		require.Equal(t, int64(2), count)

		updated, err := store.MarkRead(ctx, 7, []int64{created.ID}, time.Now().UTC())
		require.NoError(t, err)
		require.Equal(t, int64(1), updated)

		updated, err = store.MarkRead(ctx, 7, []int64{created.ID}, time.Now().UTC())
		require.NoError(t, err)
		require.Zero(t, updated)

		count, err = store.CountUnread(ctx, 7)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}
