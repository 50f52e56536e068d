package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/broker"
	"github.com/AleeDevp/italihub-app-sub003/internal/config"
	"github.com/AleeDevp/italihub-app-sub003/internal/domain"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/dto"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/middleware"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/resp"
	"github.com/AleeDevp/italihub-app-sub003/internal/queue"
	"github.com/AleeDevp/italihub-app-sub003/internal/service/notify"
)

// eventBuffer is the per-connection send capacity. A connection that falls
// this far behind is treated as dead.
const eventBuffer = 16

type Handler struct {
	cfg *config.Config
	svc *notify.Service
	bkr *broker.Broker
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, bkr *broker.Broker, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, bkr: bkr, log: logger, pub: publisher}
}

// CreateNotification is the internal produce endpoint: persist, then push.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.UserID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId is required"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), notify.CreateInput{
		UserID:         req.UserID,
		Type:           req.Type,
		Severity:       req.Severity,
		Title:          req.Title,
		Body:           req.Body,
		DeepLink:       req.DeepLink,
		AdID:           req.AdID,
		VerificationID: req.VerificationID,
		ReportID:       req.ReportID,
		Data:           req.Data,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNotificationType) || errors.Is(err, domain.ErrInvalidSeverity) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
			return
		}
		h.log.Error("create notification failed",
			zap.Int64("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, notify.Serialize(created))
}

// PublishNotification queues a create command instead of writing directly;
// backend jobs use it to decouple from store availability.
func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.UserID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId is required"})
		return
	}
	if !domain.IsValidNotificationType(req.Type) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrInvalidNotificationType.Error()})
		return
	}
	if !domain.IsValidSeverity(req.Severity) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrInvalidSeverity.Error()})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "notification"
	}
	routingKey := prefix + "." + req.Type
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish notification failed",
			zap.Int64("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

// ListNotifications serves cursor-paginated backfill for the current user.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	params := notify.ListParams{Type: c.Query("type")}
	if v := c.Query("take"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "take must be a positive integer"})
			return
		}
		params.Take = n
	}
	if v := c.Query("cursorId"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "cursorId must be a positive integer"})
			return
		}
		params.CursorID = n
	}

	page, err := h.svc.ListPage(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNotificationType) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// UnreadCount returns the current user's unread total.
func (h *Handler) UnreadCount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	count, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to count unread"})
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead bulk-stamps read state for the current user.
func (h *Handler) MarkRead(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	updated, err := h.svc.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyIDs),
			errors.Is(err, domain.ErrTooManyIDs),
			errors.Is(err, domain.ErrInvalidID):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to mark notifications read"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: updated})
}

// Stream is the long-lived live channel. It sends a ping frame immediately,
// registers the connection with the broker, and repeats the ping on every
// heartbeat tick until the client goes away. Cleanup runs exactly once no
// matter who tears the connection down first.
func (h *Handler) Stream(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.Int64("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err := writePing(c.Writer); err != nil {
		return
	}
	flusher.Flush()

	conn := broker.NewConnection(userID, eventBuffer)
	h.bkr.Add(conn)
	defer func() {
		h.bkr.Remove(conn)
		conn.Close()
	}()

	heartbeat := time.NewTicker(h.cfg.StreamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if err := writePing(c.Writer); err != nil {
				h.log.Debug("heartbeat write failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case ev, open := <-conn.Events():
			if !open {
				// Broker dropped us on a failed send.
				return
			}
			if err := writeEvent(c.Writer, ev); err != nil {
				h.log.Debug("event write failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev broker.Event) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
	return err
}

func writePing(w http.ResponseWriter) error {
	_, err := fmt.Fprintf(w, "event: ping\ndata: {\"t\":%d}\n\n", time.Now().UnixMilli())
	return err
}
