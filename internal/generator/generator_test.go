package generator

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
	"genesis-backend/internal/render"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	mu      sync.Mutex
	content string
	err     error
	delay   time.Duration
	calls   int
	last    []*schema.Message
	options *einoModel.Options
}

func (f *fakeChat) Generate(ctx context.Context, msgs []*schema.Message, opts ...einoModel.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.calls++
	f.last = msgs
	f.options = einoModel.GetCommonOptions(nil, opts...)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChat) Stream(context.Context, []*schema.Message, ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "production"},
		Generation: config.GenerationConfig{
			Timeout: time.Second,
			Backends: map[string]config.BackendConfig{
				config.BackendDeepSeek: {Model: "deepseek-coder", MaxTokens: 4000, Temperature: 0.2},
				config.BackendGemini:   {Model: "gemini-1.5-flash", MaxTokens: 4000, Temperature: 0.2},
			},
		},
	}
}

func newTestGenerator(t *testing.T, chat *fakeChat, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithChatModel(model.DeepSeek, chat)}, opts...)
	g, err := New(context.Background(), testConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGenerateSuccess(t *testing.T) {
	chat := &fakeChat{content: "```tsx\nconst Hero = () => <h1>Hi</h1>;\nexport default Hero;\n```"}
	g := newTestGenerator(t, chat)

	got, err := g.Generate(context.Background(), "a hero section", model.DeepSeek)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if want := "const Hero = () => <h1>Hi</h1>;\nexport default Hero;"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}

	if len(chat.last) != 2 || chat.last[0].Role != schema.System || chat.last[1].Role != schema.User {
		t.Fatalf("messages = %+v", chat.last)
	}
	if chat.last[1].Content != "a hero section" {
		t.Errorf("user message = %q", chat.last[1].Content)
	}
	if !strings.Contains(chat.last[0].Content, "export default ComponentName;") {
		t.Errorf("system message does not carry the instructions")
	}
	if chat.options.MaxTokens == nil || *chat.options.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %v", chat.options.MaxTokens)
	}
	if chat.options.Temperature == nil || *chat.options.Temperature != 0.2 {
		t.Errorf("Temperature = %v", chat.options.Temperature)
	}
}

func TestGenerateDefaultsToDeepSeek(t *testing.T) {
	chat := &fakeChat{content: "export default A;"}
	g := newTestGenerator(t, chat)
	if _, err := g.Generate(context.Background(), "x", ""); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chat.calls != 1 {
		t.Errorf("calls = %d", chat.calls)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		chat    *fakeChat
		backend model.Backend
		opts    []Option
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing credential",
			chat:    &fakeChat{content: "export default A;"},
			backend: model.Gemini,
			check: func(t *testing.T, err error) {
				var cfgErr *config.ConfigurationError
				if !errors.As(err, &cfgErr) || cfgErr.Key != "GEMINI_API_KEY" {
					t.Errorf("err = %v, want ConfigurationError for GEMINI_API_KEY", err)
				}
			},
		},
		{
			name:    "api error",
			chat:    &fakeChat{err: &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}},
			backend: model.DeepSeek,
			check: func(t *testing.T, err error) {
				var be *BackendError
				if !errors.As(err, &be) || be.Status != 401 || be.Message != "invalid api key" {
					t.Errorf("err = %v, want BackendError 401", err)
				}
				if !errors.Is(err, ErrBackend) {
					t.Error("errors.Is(err, ErrBackend) = false")
				}
			},
		},
		{
			name:    "empty content",
			chat:    &fakeChat{content: "   "},
			backend: model.DeepSeek,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrBackend) {
					t.Errorf("err = %v, want BackendError", err)
				}
			},
		},
		{
			name:    "timeout",
			chat:    &fakeChat{content: "export default A;", delay: time.Second},
			backend: model.DeepSeek,
			opts:    []Option{WithTimeout(20 * time.Millisecond)},
			check: func(t *testing.T, err error) {
				var te *TimeoutError
				if !errors.As(err, &te) || te.After != 20*time.Millisecond {
					t.Errorf("err = %v, want TimeoutError", err)
				}
				if !strings.Contains(err.Error(), "timed out") {
					t.Errorf("message %q does not mention the timeout", err.Error())
				}
			},
		},
		{
			name:    "truncated",
			chat:    &fakeChat{content: "const Hero = () => (\n  <div className=\"py-20\">"},
			backend: model.DeepSeek,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrTruncated) {
					t.Errorf("err = %v, want TruncatedOutputError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, tt.chat, tt.opts...)
			got, err := g.Generate(context.Background(), "prompt", tt.backend)
			if err == nil {
				t.Fatalf("Generate() = %q, want error", got)
			}
			if !strings.HasPrefix(err.Error(), "AI service error: ") {
				t.Errorf("error %q lacks the service prefix", err.Error())
			}
			tt.check(t, err)
		})
	}
}

func TestGenerateInvalidBackend(t *testing.T) {
	g := newTestGenerator(t, &fakeChat{})
	if _, err := g.Generate(context.Background(), "x", "claude"); !errors.Is(err, model.ErrInvalidBackend) {
		t.Errorf("err = %v, want ErrInvalidBackend", err)
	}
}

func TestGenerateDevelopmentMock(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection refused")}
	g := newTestGenerator(t, chat, WithDevelopment(true))

	got, err := g.Generate(context.Background(), "a bakery", model.DeepSeek)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != MockSnippet("a bakery") {
		t.Errorf("Generate() did not return the mock snippet")
	}
}

func TestMockSnippetRenders(t *testing.T) {
	prompt := `a page with "quotes" and </p>{alert(1)} */ tricks`
	a := render.NewPipeline(nil).Render(context.Background(), MockSnippet(prompt))
	if a.Fallback {
		t.Fatalf("mock snippet fell back: %s", a.Diagnostic)
	}
	if !strings.Contains(a.Root.TextContent(), prompt) {
		t.Errorf("rendered text %q does not include the prompt", a.Root.TextContent())
	}
}

func TestGenerateWithPolicy(t *testing.T) {
	chat := &fakeChat{content: "const Hero = () => ("}
	if _, err := newTestGenerator(t, chat).Generate(context.Background(), "x", model.DeepSeek); !errors.Is(err, ErrTruncated) {
		t.Fatalf("default policy: err = %v, want ErrTruncated", err)
	}

	lenient := WithPolicy(func(string) bool { return true })
	got, err := newTestGenerator(t, chat, lenient).Generate(context.Background(), "x", model.DeepSeek)
	if err != nil || got != "const Hero = () => (" {
		t.Errorf("lenient policy: %q, %v", got, err)
	}
}

func TestGenerateCache(t *testing.T) {
	chat := &fakeChat{content: "export default A;"}
	cfg := testConfig()
	cfg.Generation.CacheTTL = time.Minute
	g, err := New(context.Background(), cfg, WithChatModel(model.DeepSeek, chat))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := g.Generate(context.Background(), "same prompt", model.DeepSeek); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	if chat.calls != 1 {
		t.Errorf("backend called %d times, want 1", chat.calls)
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```tsx\nconst A = 1;\n```", "const A = 1;"},
		{"```\nconst A = 1;\n```\n", "const A = 1;"},
		{"Here you go:\n```jsx\nconst A = 1;\n```\nEnjoy", "Here you go:\nconst A = 1;\nEnjoy"},
		{"text ```js const x``` more", "const x"},
		{"  plain  ", "plain"},
	}
	for _, tt := range tests {
		if got := Cleanup(tt.in); got != tt.want {
			t.Errorf("Cleanup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var policyTokens = []string{"export default", "};", "}", ";", "\n", "```", "```tsx\n", "const A", " ", "<div>", "export", "default"}

func TestAcceptPolicyProperty(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		var b strings.Builder
		for n := r.Intn(12); n > 0; n-- {
			b.WriteString(policyTokens[r.Intn(len(policyTokens))])
		}
		raw := b.String()

		got, err := Accept(raw, nil)
		if err != nil {
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("Accept(%q) returned %v", raw, err)
			}
			if DefaultPolicy(Cleanup(raw)) {
				t.Errorf("Accept(%q) rejected text the policy accepts", raw)
			}
			continue
		}
		if !strings.Contains(got, "export default") && !strings.HasSuffix(got, "};") {
			t.Errorf("Accept(%q) = %q violates the default policy", raw, got)
		}
	}

	lenient := func(string) bool { return true }
	if _, err := Accept("const A = (", lenient); err != nil {
		t.Errorf("custom policy ignored: %v", err)
	}
}
