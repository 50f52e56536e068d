package dto

import "github.com/AleeDevp/italihub-app-sub003/internal/model"

// CreateNotificationRequest is accepted on the internal produce endpoints
// (HTTP and queue). Client-facing endpoints never create notifications.
type CreateNotificationRequest struct {
	UserID         int64         `json:"userId"`
	Type           string        `json:"type"`
	Severity       string        `json:"severity"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	DeepLink       *string       `json:"deepLink"`
	AdID           *int64        `json:"adId"`
	VerificationID *int64        `json:"verificationId"`
	ReportID       *int64        `json:"reportId"`
	Data           model.JSONMap `json:"data"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkReadRequest struct {
	IDs []int64 `json:"ids"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
