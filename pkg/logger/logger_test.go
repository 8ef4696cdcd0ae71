package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if err := Init(level, "text", nil); err != nil {
			t.Fatalf("Init(%q) error = %v", level, err)
		}
	}
}

func TestWithFieldsWritesStructuredJSON(t *testing.T) {
	if err := Init("info", "json", nil); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	WithFields(map[string]interface{}{"session_id": "s-1"}).Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"session_id":"s-1"`) {
		t.Errorf("output missing field: %s", out)
	}
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("output missing message: %s", out)
	}
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.log")
	if err := Init("info", "text", &FileOptions{Path: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Infof("written to %s", path)
	SetOutput(&bytes.Buffer{})
}
