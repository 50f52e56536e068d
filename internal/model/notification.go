package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Notification is the persisted unit. Only ReadAt is mutable after creation.
type Notification struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"userId"`
	Type           string     `db:"type" json:"type"`
	Severity       string     `db:"severity" json:"severity"`
	Title          string     `db:"title" json:"title"`
	Body           string     `db:"body" json:"body"`
	DeepLink       *string    `db:"deep_link" json:"deepLink"`
	AdID           *int64     `db:"ad_id" json:"adId"`
	VerificationID *int64     `db:"verification_id" json:"verificationId"`
	ReportID       *int64     `db:"report_id" json:"reportId"`
	Data           JSONMap    `db:"data" json:"data"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	ReadAt         *time.Time `db:"read_at" json:"readAt"`
}

// JSONMap stores the optional structured payload as a JSON column.
// The server never interprets it; it is carried opaquely to the client.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}
