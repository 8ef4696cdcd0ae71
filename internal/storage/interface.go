package storage

import (
	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
	"genesis-backend/pkg/logger"
)

// Storage persists sessions and their append-only message logs. Returned
// sessions are copies; mutate them through UpdateSession and AddMessage.
type Storage interface {
	// sessions
	CreateSession(session *model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	UpdateSession(session *model.Session) error
	DeleteSession(sessionID string) error
	ListSessions() ([]*model.Session, error)

	// messages
	AddMessage(sessionID string, message *model.Message) error
	GetMessages(sessionID string) ([]*model.Message, error)

	Init() error
	Close() error
	Backup() error
}

// New builds and initialises the backend named by cfg.Type. A backend that
// fails to initialise is replaced by memory storage so the service still starts.
func New(cfg config.StorageConfig) Storage {
	var store Storage
	switch cfg.Type {
	case "disk":
		store = NewDiskStorage(cfg.DataDir, cfg.CacheSize)
	case "sqlite":
		store = NewSQLiteStorage(cfg.DSN, cfg.DataDir)
	default:
		store = NewMemoryStorage()
	}

	if err := store.Init(); err != nil {
		logger.Errorf("Failed to initialize %s storage: %v", cfg.Type, err)
		store = NewMemoryStorage()
		store.Init()
	}
	return store
}
