package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
)

func backends(t *testing.T) map[string]func(t *testing.T) Storage {
	return map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage() },
		"disk": func(t *testing.T) Storage {
			return NewDiskStorage(t.TempDir(), 2)
		},
		"sqlite": func(t *testing.T) Storage {
			dir := t.TempDir()
			return NewSQLiteStorage(filepath.Join(dir, "db", "genesis.db"), dir)
		},
	}
}

func openStore(t *testing.T, build func(t *testing.T) Storage) Storage {
	t.Helper()
	store := build(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newSession(id string, updated time.Time) *model.Session {
	return &model.Session{
		ID:        id,
		Mode:      model.ModeRealtime,
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestStorageSessionLifecycle(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := openStore(t, build)
			created := time.Now().Add(-time.Hour)

			if err := store.CreateSession(newSession("s1", created)); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			if err := store.CreateSession(newSession("s1", created)); !errors.Is(err, ErrSessionExists) {
				t.Errorf("duplicate CreateSession err = %v, want ErrSessionExists", err)
			}

			got, err := store.GetSession("s1")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.Mode != model.ModeRealtime || !got.CreatedAt.Equal(created) || len(got.Messages) != 0 {
				t.Errorf("GetSession = %+v", got)
			}

			got.Mode = model.ModeFallback
			got.UpdatedAt = time.Now()
			if err := store.UpdateSession(got); err != nil {
				t.Fatalf("UpdateSession: %v", err)
			}
			again, _ := store.GetSession("s1")
			if again.Mode != model.ModeFallback {
				t.Errorf("Mode = %q after update, want fallback", again.Mode)
			}

			if err := store.DeleteSession("s1"); err != nil {
				t.Fatalf("DeleteSession: %v", err)
			}
			if _, err := store.GetSession("s1"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("GetSession after delete err = %v", err)
			}
			if err := store.DeleteSession("s1"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("second DeleteSession err = %v", err)
			}
			if err := store.UpdateSession(newSession("missing", created)); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("UpdateSession(missing) err = %v", err)
			}
		})
	}
}

func TestStorageMessages(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := openStore(t, build)
			past := time.Now().Add(-time.Hour)
			if err := store.CreateSession(newSession("s1", past)); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			msgs := []model.Message{
				{ID: "m1", SessionID: "s1", Role: model.RoleUser, Content: "a hero", Timestamp: time.Now()},
				{ID: "m2", SessionID: "s1", Role: model.RoleAssistant, Content: "done", Model: "deepseek",
					ComponentCode: "export default Hero;", Timestamp: time.Now()},
			}
			for i := range msgs {
				if err := store.AddMessage("s1", &msgs[i]); err != nil {
					t.Fatalf("AddMessage: %v", err)
				}
			}

			got, err := store.GetMessages("s1")
			if err != nil {
				t.Fatalf("GetMessages: %v", err)
			}
			if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
				t.Fatalf("GetMessages = %+v", got)
			}
			if got[1].ComponentCode != "export default Hero;" || got[1].Model != "deepseek" {
				t.Errorf("assistant message = %+v", got[1])
			}

			session, _ := store.GetSession("s1")
			if !session.UpdatedAt.After(past) {
				t.Errorf("UpdatedAt not bumped by AddMessage")
			}
			if len(session.Messages) != 2 {
				t.Errorf("session carries %d messages, want 2", len(session.Messages))
			}

			if err := store.AddMessage("missing", &msgs[0]); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("AddMessage(missing) err = %v", err)
			}
			if _, err := store.GetMessages("missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("GetMessages(missing) err = %v", err)
			}

			// deleting and recreating starts from an empty log
			store.DeleteSession("s1")
			store.CreateSession(newSession("s1", past))
			if got, _ := store.GetMessages("s1"); len(got) != 0 {
				t.Errorf("recreated session has %d messages", len(got))
			}
		})
	}
}

func TestStorageListOrder(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := openStore(t, build)
			base := time.Now().Add(-time.Hour)
			for i, id := range []string{"a", "b", "c"} {
				if err := store.CreateSession(newSession(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
					t.Fatalf("CreateSession: %v", err)
				}
			}
			store.AddMessage("a", &model.Message{ID: "m", SessionID: "a", Role: model.RoleUser, Content: "x", Timestamp: time.Now()})

			list, err := store.ListSessions()
			if err != nil {
				t.Fatalf("ListSessions: %v", err)
			}
			var ids []string
			for _, s := range list {
				ids = append(ids, s.ID)
			}
			want := []string{"a", "c", "b"}
			if len(ids) != len(want) {
				t.Fatalf("ListSessions ids = %v, want %v", ids, want)
			}
			for i := range want {
				if ids[i] != want[i] {
					t.Fatalf("ListSessions ids = %v, want %v", ids, want)
				}
			}
			if len(list[0].Messages) != 1 {
				t.Errorf("listed session lost its messages")
			}
		})
	}
}

func TestStorageReturnsCopies(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := openStore(t, build)
			store.CreateSession(newSession("s1", time.Now()))

			got, _ := store.GetSession("s1")
			got.Mode = model.ModeFallback
			got.Messages = append(got.Messages, model.Message{ID: "ghost"})

			again, _ := store.GetSession("s1")
			if again.Mode != model.ModeRealtime || len(again.Messages) != 0 {
				t.Errorf("mutation leaked into storage: %+v", again)
			}
		})
	}
}

func TestDiskStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	first := NewDiskStorage(dir, 10)
	if err := first.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	first.CreateSession(newSession("s1", time.Now()))
	first.AddMessage("s1", &model.Message{ID: "m1", SessionID: "s1", Role: model.RoleUser, Content: "hi", Timestamp: time.Now()})
	first.Close()

	second := NewDiskStorage(dir, 10)
	if err := second.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	msgs, err := second.GetMessages("s1")
	if err != nil || len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("GetMessages after reopen = %v, %v", msgs, err)
	}
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "genesis.db")
	first := NewSQLiteStorage(dsn, dir)
	if err := first.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	first.CreateSession(newSession("s1", time.Now()))
	first.AddMessage("s1", &model.Message{ID: "m1", SessionID: "s1", Role: model.RoleUser, Content: "hi", Timestamp: time.Now()})
	first.Close()

	second := NewSQLiteStorage(dsn, dir)
	if err := second.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer second.Close()
	msgs, err := second.GetMessages("s1")
	if err != nil || len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("GetMessages after reopen = %v, %v", msgs, err)
	}
}

func TestBackup(t *testing.T) {
	tests := []struct {
		name  string
		build func(dir string) Storage
	}{
		{"disk", func(dir string) Storage { return NewDiskStorage(dir, 10) }},
		{"sqlite", func(dir string) Storage { return NewSQLiteStorage(filepath.Join(dir, "genesis.db"), dir) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := tt.build(dir)
			if err := store.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			defer store.Close()
			store.CreateSession(newSession("s1", time.Now()))

			if err := store.Backup(); err != nil {
				t.Fatalf("Backup: %v", err)
			}
			entries, err := os.ReadDir(filepath.Join(dir, "backup"))
			if err != nil || len(entries) != 1 {
				t.Errorf("backup dir entries = %v, %v", entries, err)
			}
		})
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(config.StorageConfig{Type: "disk", DataDir: filepath.Join(file, "data")})
	if _, ok := store.(*MemoryStorage); !ok {
		t.Errorf("New returned %T, want *MemoryStorage", store)
	}

	store = New(config.StorageConfig{Type: "memory"})
	if _, ok := store.(*MemoryStorage); !ok {
		t.Errorf("New(memory) returned %T", store)
	}
}
