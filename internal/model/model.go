package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
)

// Backend selects the remote generation service.
type Backend string

const (
	DeepSeek Backend = config.BackendDeepSeek
	Gemini   Backend = config.BackendGemini
)

var ErrInvalidBackend = errors.New(`Model must be either "deepseek" or "gemini"`)

// ParseBackend maps the wire value to a Backend. An empty value selects DeepSeek.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "":
		return DeepSeek, nil
	case DeepSeek, Gemini:
		return Backend(s), nil
	default:
		return "", ErrInvalidBackend
	}
}

// NewChatModel builds the chat model for one configured backend. The provider decides
// which client talks to the endpoint; DeepSeek and Gemini both expose OpenAI-compatible APIs.
func NewChatModel(ctx context.Context, name string, cfg config.BackendConfig, timeout time.Duration) (einoModel.BaseChatModel, error) {
	logger.Infof("Using %s backend: provider=%s model=%s base_url=%s key=%s",
		name, cfg.Provider, cfg.Model, cfg.BaseURL, maskKey(cfg.APIKey))

	switch cfg.Provider {
	case "", "openai":
		return newOpenAIChatModel(cfg, &http.Client{
			Transport: NewDebugTransport(nil, cfg.DebugRequest),
			Timeout:   timeout,
		}), nil
	case "qwen":
		return createQwenModel(ctx, cfg, timeout)
	case "ark":
		return createArkModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}
}

func createQwenModel(ctx context.Context, cfg config.BackendConfig, timeout time.Duration) (einoModel.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature

	chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     timeout,
		HTTPClient: &http.Client{
			Transport: NewDebugTransport(nil, cfg.DebugRequest),
			Timeout:   timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qwen model: %w", err)
	}
	return chatModel, nil
}

func createArkModel(ctx context.Context, cfg config.BackendConfig) (einoModel.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		CustomHeader: map[string]string{
			"X-Ark-Thinking-Mode": "disable",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark model: %w", err)
	}
	return chatModel, nil
}

func maskKey(key string) string {
	if len(key) > 6 {
		return key[:6] + "..."
	}
	if key == "" {
		return "(empty)"
	}
	return "***"
}

// DebugTransport logs outgoing request bodies when enabled. Credentials in headers are redacted.
type DebugTransport struct {
	base         http.RoundTripper
	debugEnabled bool
}

func NewDebugTransport(base http.RoundTripper, debugEnabled bool) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, debugEnabled: debugEnabled}
}

func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.debugEnabled && req.Method == http.MethodPost {
		t.logRequest(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil && t.debugEnabled {
		logger.Errorf("[backend debug] request failed: %v", err)
	}
	return resp, err
}

func (t *DebugTransport) logRequest(req *http.Request) {
	logger.Debugf("[backend debug] %s %s", req.Method, req.URL.String())
	for name, values := range req.Header {
		if isSensitiveHeader(name) {
			logger.Debugf("[backend debug]   %s: [REDACTED]", name)
		} else {
			logger.Debugf("[backend debug]   %s: %s", name, strings.Join(values, ", "))
		}
	}

	if req.Body == nil {
		return
	}
	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		logger.Errorf("[backend debug] failed to read request body: %v", err)
		return
	}
	// restore the body for the real request
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	logger.Debugf("[backend debug] body (%d bytes): %s", len(bodyBytes), string(bodyBytes))
}

func isSensitiveHeader(name string) bool {
	for _, sensitive := range []string{"authorization", "x-api-key", "x-goog-api-key", "cookie"} {
		if strings.EqualFold(name, sensitive) {
			return true
		}
	}
	return false
}
