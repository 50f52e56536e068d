package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidNotificationType(t *testing.T) {
	t.Run("valid types", func(t *testing.T) {
		valid := []string{
			NotificationTypeAdEvent,
			NotificationTypeVerificationEvent,
			NotificationTypeReportEvent,
			NotificationTypeAnnouncement,
		}
		for _, v := range valid {
			require.True(t, IsValidNotificationType(v), "expected valid type: %s", v)
		}
	})

	t.Run("invalid types", func(t *testing.T) {
		invalid := []string{"", "ad_eventt", "announcementx", "system"}
		for _, v := range invalid {
			require.False(t, IsValidNotificationType(v), "expected invalid type: %s", v)
		}
	})
}

func TestIsValidSeverity(t *testing.T) {
	t.Run("valid severities", func(t *testing.T) {
		for _, v := range []string{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError} {
			require.True(t, IsValidSeverity(v), "expected valid severity: %s", v)
		}
	})

	t.Run("invalid severities", func(t *testing.T) {
		for _, v := range []string{"", "fatal", "INFO", "warn"} {
			require.False(t, IsValidSeverity(v), "expected invalid severity: %s", v)
		}
	})
}

func TestTruncate(t *testing.T) {
	t.Run("short input untouched", func(t *testing.T) {
		require.Equal(t, "hello", Truncate("hello", TitleMaxLen))
	})

	t.Run("long input cut to limit", func(t *testing.T) {
		got := Truncate(strings.Repeat("a", 2000), BodyMaxLen)
		require.Len(t, got, BodyMaxLen)
	})

	t.Run("multi-byte runes not split", func(t *testing.T) {
		got := Truncate(strings.Repeat("è", 10), 5)
		require.Equal(t, strings.Repeat("è", 5), got)
	})
}

func TestValidateMarkReadIDs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.ErrorIs(t, ValidateMarkReadIDs(nil), ErrEmptyIDs)
	})

	t.Run("too many", func(t *testing.T) {
		ids := make([]int64, MarkReadMaxIDs+1)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		require.ErrorIs(t, ValidateMarkReadIDs(ids), ErrTooManyIDs)
	})

	t.Run("non-positive id", func(t *testing.T) {
		require.ErrorIs(t, ValidateMarkReadIDs([]int64{1, 0, 3}), ErrInvalidID)
	})

	t.Run("valid batch", func(t *testing.T) {
		require.NoError(t, ValidateMarkReadIDs([]int64{1, 2, 3}))
	})
}
