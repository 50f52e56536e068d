package mysql

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

func New(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}
