package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/config"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/controller"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/middleware"
	"github.com/AleeDevp/italihub-app-sub003/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, logger *zap.Logger, met *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(met.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/notifications", middleware.JWTAuth(cfg.JWTSecret))
	api.GET("", handler.ListNotifications)
	api.GET("/unread-count", handler.UnreadCount)
	api.POST("/read", handler.MarkRead)
	api.GET("/stream", handler.Stream)

	internal := router.Group("/internal/notifications", middleware.ServiceAuth(cfg.ServiceToken))
	internal.POST("", handler.CreateNotification)
	internal.POST("/publish", handler.PublishNotification)

	return router
}
