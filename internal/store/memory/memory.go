// Package memory is the DSN-less fallback store, also used by unit and e2e
// tests. It mirrors the MySQL store's ordering and read-state semantics.
package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/model"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	records []model.Notification
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{nextID: 1, log: logger}
}
