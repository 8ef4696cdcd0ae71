package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"genesis-backend/internal/model"
	"genesis-backend/pkg/logger"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	mode       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL,
	session_id     TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	role           TEXT NOT NULL,
	content        TEXT NOT NULL,
	model          TEXT NOT NULL DEFAULT '',
	component_code TEXT NOT NULL DEFAULT '',
	timestamp      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);
`

// SQLiteStorage keeps sessions in a single SQLite file through the pure Go driver.
type SQLiteStorage struct {
	dsn     string
	dataDir string
	db      *sql.DB
}

// NewSQLiteStorage opens dsn on Init. ":memory:" is accepted for tests.
func NewSQLiteStorage(dsn, dataDir string) *SQLiteStorage {
	return &SQLiteStorage{dsn: dsn, dataDir: dataDir}
}

func (s *SQLiteStorage) Init() error {
	if s.dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.dsn), 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageInit, err)
		}
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", ErrStorageInit, err)
	}
	// one writer; also keeps a ":memory:" database alive across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("%w: database ping failed: %v", ErrStorageInit, err)
	}
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA journal_mode = WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("%w: %s: %v", ErrStorageInit, pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("%w: failed to create schema: %v", ErrStorageInit, err)
	}

	s.db = db
	logger.Infof("SQLite storage initialized at %s", s.dsn)
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Backup writes a consistent copy of the database with VACUUM INTO.
func (s *SQLiteStorage) Backup() error {
	dir := filepath.Join(s.dataDir, "backup")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("genesis_%d.db", time.Now().UnixNano()))
	if _, err := s.db.Exec("VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	logger.Infof("Backup completed: %s", path)
	return nil
}

func (s *SQLiteStorage) CreateSession(session *model.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", session.ID).Scan(&exists); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if exists > 0 {
		return ErrSessionExists
	}

	if _, err := tx.Exec("INSERT INTO sessions (id, mode, created_at, updated_at) VALUES (?, ?, ?, ?)",
		session.ID, string(session.Mode), session.CreatedAt.UnixNano(), session.UpdatedAt.UnixNano()); err != nil {
		return fmt.Errorf("insert session failed: %w", err)
	}
	for i := range session.Messages {
		if err := insertMessage(tx, session.ID, &session.Messages[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) GetSession(sessionID string) (*model.Session, error) {
	session, err := s.getSessionRow(sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.queryMessages(sessionID)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	return session, nil
}

func (s *SQLiteStorage) getSessionRow(sessionID string) (*model.Session, error) {
	var (
		session          model.Session
		mode             string
		created, updated int64
	)
	err := s.db.QueryRow("SELECT id, mode, created_at, updated_at FROM sessions WHERE id = ?", sessionID).
		Scan(&session.ID, &mode, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	session.Mode = model.Mode(mode)
	session.CreatedAt = time.Unix(0, created)
	session.UpdatedAt = time.Unix(0, updated)
	return &session, nil
}

func (s *SQLiteStorage) UpdateSession(session *model.Session) error {
	res, err := s.db.Exec("UPDATE sessions SET mode = ?, updated_at = ? WHERE id = ?",
		string(session.Mode), session.UpdatedAt.UnixNano(), session.ID)
	if err != nil {
		return fmt.Errorf("update session failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteSession(sessionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("delete messages failed: %w", err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return tx.Commit()
}

func (s *SQLiteStorage) ListSessions() ([]*model.Session, error) {
	rows, err := s.db.Query("SELECT id FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	rows.Close()

	sessions := make([]*model.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *SQLiteStorage) AddMessage(sessionID string, message *model.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?", time.Now().UnixNano(), sessionID)
	if err != nil {
		return fmt.Errorf("update session failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	if err := insertMessage(tx, sessionID, message); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMessage(tx *sql.Tx, sessionID string, m *model.Message) error {
	_, err := tx.Exec(`INSERT INTO messages (id, session_id, role, content, model, component_code, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, sessionID, m.Role, m.Content, m.Model, m.ComponentCode, m.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("insert message failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetMessages(sessionID string) ([]*model.Message, error) {
	if _, err := s.getSessionRow(sessionID); err != nil {
		return nil, err
	}
	messages, err := s.queryMessages(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Message, len(messages))
	for i := range messages {
		out[i] = &messages[i]
	}
	return out, nil
}

func (s *SQLiteStorage) queryMessages(sessionID string) ([]model.Message, error) {
	rows, err := s.db.Query(`SELECT id, session_id, role, content, model, component_code, timestamp
		FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var (
			m  model.Message
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Model, &m.ComponentCode, &ts); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		m.Timestamp = time.Unix(0, ts)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return messages, nil
}
