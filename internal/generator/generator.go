// Package generator turns a prompt into a component snippet using one of the
// configured chat backends.
package generator

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"genesis-backend/internal/cache"
	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
	"genesis-backend/internal/telemetry"
	"genesis-backend/pkg/logger"

	"github.com/cloudwego/eino/components/prompt"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const DefaultTimeout = 30 * time.Second

type backend struct {
	chat einoModel.BaseChatModel
	cfg  config.BackendConfig
}

type Generator struct {
	backends map[model.Backend]*backend
	template prompt.ChatTemplate
	timeout  time.Duration
	policy   AcceptancePolicy
	dev      bool
	cache    *cache.Cache

	tracer   trace.Tracer
	duration metric.Float64Histogram
	outcomes metric.Int64Counter
}

type Option func(*Generator)

// WithChatModel replaces the chat model of one backend.
func WithChatModel(b model.Backend, chat einoModel.BaseChatModel) Option {
	return func(g *Generator) {
		g.backend(b).chat = chat
	}
}

func WithPolicy(policy AcceptancePolicy) Option {
	return func(g *Generator) { g.policy = policy }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithDevelopment makes every failure return MockSnippet instead.
func WithDevelopment(dev bool) Option {
	return func(g *Generator) { g.dev = dev }
}

func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(g *Generator) {
		if tel == nil {
			return
		}
		g.tracer = tel.Tracer
		if h, err := tel.Meter.Float64Histogram("generator.duration",
			metric.WithDescription("Backend generation latency"),
			metric.WithUnit("ms")); err == nil {
			g.duration = h
		}
		if c, err := tel.Meter.Int64Counter("generator.outcomes",
			metric.WithDescription("Generation results by backend and outcome")); err == nil {
			g.outcomes = c
		}
	}
}

// New builds one chat model per configured backend that has a credential.
// Backends without one stay registered and fail with a ConfigurationError on use.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Generator, error) {
	g := &Generator{
		backends: make(map[model.Backend]*backend),
		timeout:  cfg.Generation.Timeout,
		policy:   DefaultPolicy,
		dev:      cfg.IsDevelopment(),
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}

	system := cfg.Generation.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = SystemPrompt
	}
	g.template = prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage("{{.prompt}}"),
	)

	if cfg.Generation.CacheTTL > 0 {
		g.cache = cache.New(cfg.Generation.CacheTTL)
	}
	WithTelemetry(telemetry.Noop())(g)

	for name, bc := range cfg.Generation.Backends {
		be := g.backend(model.Backend(name))
		be.cfg = bc
		if bc.APIKey == "" {
			continue
		}
		chat, err := model.NewChatModel(ctx, name, bc, g.timeout)
		if err != nil {
			return nil, err
		}
		be.chat = chat
	}

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Generator) backend(b model.Backend) *backend {
	be, ok := g.backends[b]
	if !ok {
		be = &backend{}
		g.backends[b] = be
	}
	return be
}

// Generate returns a cleaned snippet for prompt. Errors are *ServiceError unless
// the backend name itself is invalid.
func (g *Generator) Generate(ctx context.Context, userPrompt string, b model.Backend) (string, error) {
	if b == "" {
		b = model.DeepSeek
	}
	if _, err := model.ParseBackend(string(b)); err != nil {
		return "", err
	}

	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "generator.generate",
		trace.WithAttributes(attribute.String("backend", string(b))))
	defer span.End()

	snippet, outcome, err := g.generate(ctx, userPrompt, b)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Errorf("Error generating component with %s: %v", b, err)

		if g.dev {
			logger.Info("Using fallback mock component for development")
			snippet, outcome, err = MockSnippet(userPrompt), "mock", nil
		} else {
			err = &ServiceError{Err: err}
		}
	}

	attrs := metric.WithAttributes(attribute.String("backend", string(b)), attribute.String("outcome", outcome))
	g.outcomes.Add(ctx, 1, attrs)
	g.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	return snippet, err
}

func (g *Generator) generate(ctx context.Context, userPrompt string, b model.Backend) (string, string, error) {
	be := g.backends[b]
	if be == nil || be.chat == nil {
		return "", "config", &config.ConfigurationError{Key: config.RequiredCredentials[string(b)], Reason: "is not set"}
	}

	var key string
	if g.cache != nil {
		key = cache.Key(string(b), be.cfg.Model, userPrompt)
		if cached, ok := g.cache.Get(key); ok {
			logger.Debugf("Cache hit for %s prompt", b)
			return cached, "cached", nil
		}
	}

	messages, err := g.template.Format(ctx, map[string]any{"prompt": userPrompt})
	if err != nil {
		return "", "template", err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var opts []einoModel.Option
	if be.cfg.MaxTokens > 0 {
		opts = append(opts, einoModel.WithMaxTokens(be.cfg.MaxTokens))
	}
	opts = append(opts, einoModel.WithTemperature(be.cfg.Temperature))

	resp, err := be.chat.Generate(callCtx, messages, opts...)
	if err != nil {
		return "", "error", g.classify(callCtx, string(b), err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", "error", &BackendError{Backend: string(b), Message: "Invalid response format: empty content"}
	}

	snippet, err := Accept(resp.Content, g.policy)
	if err != nil {
		logger.Warnf("Response from %s appears to be truncated (%d bytes)", b, len(resp.Content))
		return "", "truncated", err
	}

	if g.cache != nil {
		g.cache.Put(key, snippet)
	}
	return snippet, "ok", nil
}

func (g *Generator) classify(ctx context.Context, name string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Backend: name, After: g.timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Backend: name, After: g.timeout}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Backend: name, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := "Unknown error"
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &BackendError{Backend: name, Status: reqErr.HTTPStatusCode, Message: msg}
	}
	return &BackendError{Backend: name, Message: err.Error()}
}

// Backends lists the backends that have a usable chat model.
func (g *Generator) Backends() []model.Backend {
	var out []model.Backend
	for _, b := range []model.Backend{model.DeepSeek, model.Gemini} {
		if be := g.backends[b]; be != nil && be.chat != nil {
			out = append(out, b)
		}
	}
	return out
}
