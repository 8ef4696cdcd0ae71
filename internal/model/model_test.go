package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genesis-backend/internal/config"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", DeepSeek, false},
		{"deepseek", DeepSeek, false},
		{"gemini", Gemini, false},
		{"gpt-4", "", true},
		{"DeepSeek", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidBackend) {
			t.Errorf("ParseBackend(%q) error = %v, want ErrInvalidBackend", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenAIAdapterGenerate(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"export default App;"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cm, err := NewChatModel(context.Background(), "deepseek", config.BackendConfig{
		Provider:    "openai",
		APIKey:      "k",
		BaseURL:     srv.URL + "/v1",
		Model:       "deepseek-coder",
		MaxTokens:   4000,
		Temperature: 0.2,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewChatModel() error = %v", err)
	}

	msg, err := cm.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("make a hero"),
		{Role: schema.Assistant, Content: ""},
	}, einoModel.WithMaxTokens(1000))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg.Content != "export default App;" {
		t.Errorf("Content = %q", msg.Content)
	}
	if got.Model != "deepseek-coder" || got.MaxTokens != 1000 {
		t.Errorf("request model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIAdapterSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	cm, err := NewChatModel(context.Background(), "gemini", config.BackendConfig{APIKey: "k", BaseURL: srv.URL}, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cm.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *openai.APIError", err)
	}
	if apiErr.HTTPStatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.HTTPStatusCode)
	}
}

func TestNewChatModelRejectsUnknownProvider(t *testing.T) {
	if _, err := NewChatModel(context.Background(), "deepseek", config.BackendConfig{Provider: "bogus"}, time.Second); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
