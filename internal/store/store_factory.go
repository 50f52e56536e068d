package store

import (
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/config"
	"github.com/AleeDevp/italihub-app-sub003/internal/repository"
	"github.com/AleeDevp/italihub-app-sub003/internal/store/memory"
	"github.com/AleeDevp/italihub-app-sub003/internal/store/mysql"
)

// NewStore picks MySQL when a DSN is configured and falls back to the
// in-memory store otherwise (local development, tests).
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, error) {
	if cfg.MySQLDSN == "" {
		return memory.New(logger), nil
	}
	db, err := sqlx.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, err
	}
	if err := db.Ping(); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		return nil, err
	}
	return mysql.New(db, logger), nil
}
