package domain

import "errors"

// Notification categories. The set is closed: anything else is rejected
// before it reaches the store.
const (
	NotificationTypeAdEvent           = "ad_event"
	NotificationTypeVerificationEvent = "verification_event"
	NotificationTypeReportEvent       = "report_event"
	NotificationTypeAnnouncement      = "announcement"
)

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Field limits applied at creation time. Longer input is truncated, not rejected.
const (
	TitleMaxLen    = 140
	BodyMaxLen     = 1000
	DeepLinkMaxLen = 255
)

// MarkReadMaxIDs bounds a single mark-as-read batch.
const MarkReadMaxIDs = 100

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidSeverity         = errors.New("invalid severity")
	ErrEmptyIDs                = errors.New("ids must not be empty")
	ErrTooManyIDs              = errors.New("too many ids")
	ErrInvalidID               = errors.New("ids must be positive integers")
)

func IsValidNotificationType(value string) bool {
	switch value {
	case NotificationTypeAdEvent, NotificationTypeVerificationEvent,
		NotificationTypeReportEvent, NotificationTypeAnnouncement:
		return true
	default:
		return false
	}
}

func IsValidSeverity(value string) bool {
	switch value {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Truncate cuts s to at most max characters. Limits are spelled in
// characters, not bytes, so multi-byte input is not split mid-rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ValidateMarkReadIDs checks a mark-as-read batch before any mutation.
func ValidateMarkReadIDs(ids []int64) error {
	if len(ids) == 0 {
		return ErrEmptyIDs
	}
	if len(ids) > MarkReadMaxIDs {
		return ErrTooManyIDs
	}
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidID
		}
	}
	return nil
}
