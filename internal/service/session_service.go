package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
	"genesis-backend/internal/storage"
	"genesis-backend/pkg/logger"

	"github.com/google/uuid"
)

// SessionService owns session state for both transports. The generator never sees it.
type SessionService struct {
	storage storage.Storage
	mu      sync.Mutex
	config  config.SessionConfig
	now     func() time.Time
}

func NewSessionService(store storage.Storage, cfg config.SessionConfig) *SessionService {
	return &SessionService{
		storage: store,
		config:  cfg,
		now:     time.Now,
	}
}

// NewSessionID returns a fresh opaque session id.
func NewSessionID() string {
	return uuid.New().String()
}

// Ensure returns the session, creating it in mode when it does not exist yet.
// An existing session keeps its mode.
func (s *SessionService) Ensure(sessionID string, mode model.Mode) (*model.Session, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.storage.GetSession(sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, storage.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	now := s.now()
	session = &model.Session{
		ID:        sessionID,
		Mode:      mode,
		Messages:  make([]model.Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	logger.Debugf("Created %s session %s", mode, sessionID)
	return session, nil
}

// MarkFallback flips the session to fallback. It is a no-op for unknown sessions
// and for sessions already in fallback.
func (s *SessionService) MarkFallback(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.storage.GetSession(sessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.Mode == model.ModeFallback {
		return nil
	}

	session.Mode = model.ModeFallback
	session.UpdatedAt = s.now()
	if err := s.storage.UpdateSession(session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	logger.Infof("Session %s switched to fallback mode", sessionID)
	return nil
}

func (s *SessionService) GetSession(sessionID string) (*model.Session, error) {
	session, err := s.storage.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("session not found: %s: %w", sessionID, err)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *SessionService) GetSessionMessages(sessionID string) ([]model.Message, error) {
	messages, err := s.storage.GetMessages(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("session not found: %s: %w", sessionID, err)
		}
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	result := make([]model.Message, len(messages))
	for i, msg := range messages {
		result[i] = *msg
	}
	return result, nil
}

// RecordPrompt appends the user's prompt to the session log.
func (s *SessionService) RecordPrompt(sessionID, prompt string) (*model.Message, error) {
	return s.addMessage(&model.Message{
		SessionID: sessionID,
		Role:      model.RoleUser,
		Content:   prompt,
	})
}

// RecordComponent appends an assistant message carrying the generated snippet.
func (s *SessionService) RecordComponent(sessionID, code string, backend model.Backend) (*model.Message, error) {
	return s.addMessage(&model.Message{
		SessionID:     sessionID,
		Role:          model.RoleAssistant,
		Content:       "Component generated successfully",
		Model:         string(backend),
		ComponentCode: code,
	})
}

// RecordFailure appends an assistant message describing a failed generation.
func (s *SessionService) RecordFailure(sessionID string, backend model.Backend, cause error) (*model.Message, error) {
	return s.addMessage(&model.Message{
		SessionID: sessionID,
		Role:      model.RoleAssistant,
		Content:   "AI generation failed: " + cause.Error(),
		Model:     string(backend),
	})
}

func (s *SessionService) addMessage(message *model.Message) (*model.Message, error) {
	message.ID = uuid.New().String()
	message.Timestamp = s.now()

	if err := s.storage.AddMessage(message.SessionID, message); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("session not found: %s: %w", message.SessionID, err)
		}
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return message, nil
}

func (s *SessionService) GetAllSessions() ([]*model.Session, error) {
	sessions, err := s.storage.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ClearSession destroys the session and its conversation.
func (s *SessionService) ClearSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteSession(sessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("session not found: %s: %w", sessionID, err)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Summary describes a session without its message log.
func Summary(session *model.Session) model.SessionResponse {
	return model.SessionResponse{
		SessionID:    session.ID,
		Mode:         session.Mode,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
		MessageCount: len(session.Messages),
	}
}

// CleanupExpired deletes sessions idle for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) CleanupExpired() int {
	if s.config.TTL <= 0 {
		return 0
	}
	sessions, err := s.storage.ListSessions()
	if err != nil {
		logger.Errorf("Failed to list sessions for cleanup: %v", err)
		return 0
	}

	cutoff := s.now().Add(-s.config.TTL)
	removed := 0
	for _, session := range sessions {
		if !session.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.storage.DeleteSession(session.ID); err != nil {
			logger.Errorf("Failed to delete expired session %s: %v", session.ID, err)
			continue
		}
		logger.Infof("Cleaned up expired session: %s", session.ID)
		removed++
	}
	return removed
}

// Run sweeps expired sessions every cleanup interval until ctx is done.
func (s *SessionService) Run(ctx context.Context) {
	interval := s.config.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupExpired()
		}
	}
}

// GetStorage returns the backing store, for shutdown and backups.
func (s *SessionService) GetStorage() storage.Storage {
	return s.storage
}
