package notify

import (
	"time"

	"github.com/AleeDevp/italihub-app-sub003/internal/model"
)

// Payload is the canonical wire shape, used both for the live push and for
// backfill pages. It deliberately omits the owner id: every endpoint is
// scoped to the authenticated user.
type Payload struct {
	ID             int64         `json:"id"`
	Type           string        `json:"type"`
	Severity       string        `json:"severity"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	DeepLink       *string       `json:"deepLink"`
	AdID           *int64        `json:"adId"`
	VerificationID *int64        `json:"verificationId"`
	ReportID       *int64        `json:"reportId"`
	CreatedAt      time.Time     `json:"createdAt"`
	ReadAt         *time.Time    `json:"readAt"`
	Data           model.JSONMap `json:"data"`
}

// Serialize is a pure projection from the stored row to the wire shape.
func Serialize(n model.Notification) Payload {
	return Payload{
		ID:             n.ID,
		Type:           n.Type,
		Severity:       n.Severity,
		Title:          n.Title,
		Body:           n.Body,
		DeepLink:       n.DeepLink,
		AdID:           n.AdID,
		VerificationID: n.VerificationID,
		ReportID:       n.ReportID,
		CreatedAt:      n.CreatedAt.UTC(),
		ReadAt:         n.ReadAt,
		Data:           n.Data,
	}
}
