package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/gateway"
	"genesis-backend/internal/handler"
	"genesis-backend/internal/model"
	"genesis-backend/internal/render"
	"genesis-backend/internal/service"
	"genesis-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubGenerator struct {
	err error
	// slow prompts take delay to generate, ignoring cancellation.
	slow  string
	delay time.Duration
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, b model.Backend) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if prompt == s.slow {
		time.Sleep(s.delay)
	}
	return "const Hero = () => <h1>" + prompt + "</h1>;\nexport default Hero;", nil
}

type server struct {
	*httptest.Server
	gateway  *gateway.Gateway
	sessions *service.SessionService
}

// newServer mounts the full route table. When wsHandler is non-nil it
// replaces the realtime endpoint.
func newServer(t *testing.T, gen gateway.Generator, wsHandler http.Handler) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := service.NewSessionService(storage.NewMemoryStorage(), config.SessionConfig{TTL: time.Hour})
	gw := gateway.New(config.GatewayConfig{HandshakeTimeout: time.Second}, gen, sessions)

	handlers := &handler.Handlers{
		Generate:    handler.NewGenerateHandler(gen, sessions, gw),
		Compile:     handler.NewCompileHandler(render.NewPipeline(nil)),
		Session:     handler.NewSessionHandler(sessions, gw),
		Gateway:     gw,
		GatewayPath: "/ws",
	}
	if wsHandler != nil {
		handlers.GatewayPath = "/ws-unused"
	}
	r := gin.New()
	handlers.Mount(r)
	if wsHandler != nil {
		r.GET("/ws", gin.WrapH(wsHandler))
	}

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		gw.Shutdown()
		srv.Close()
	})
	return &server{Server: srv, gateway: gw, sessions: sessions}
}

func newClient(srv *server) *Client {
	return New(Options{BaseURL: srv.URL, HandshakeTimeout: 300 * time.Millisecond, HTTPTimeout: 5 * time.Second})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestRealtimeSend(t *testing.T) {
	srv := newServer(t, &stubGenerator{}, nil)
	c := newClient(srv)
	defer c.Close()

	if mode := c.Connect(context.Background()); mode != model.ModeRealtime {
		t.Fatalf("Connect = %q, want realtime", mode)
	}

	reply, err := c.Send(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Transport != model.ModeRealtime {
		t.Errorf("Transport = %q", reply.Transport)
	}
	if reply.Artifact.Fallback || !strings.Contains(reply.Artifact.HTML, "<h1>Hello</h1>") {
		t.Errorf("artifact = %+v", reply.Artifact)
	}
	if reply.Message.Model != string(model.DeepSeek) || reply.Message.ComponentCode == "" {
		t.Errorf("message = %+v", reply.Message)
	}

	msgs := c.Messages()
	if len(msgs) != 3 || msgs[0].Role != model.RoleUser || msgs[1].Content != "Processing your request..." {
		t.Errorf("messages = %+v", msgs)
	}

	session, err := srv.sessions.GetSession(c.SessionID())
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session.Mode != model.ModeRealtime {
		t.Errorf("server mode = %q", session.Mode)
	}
}

func TestFallbackWhenRealtimeUnavailable(t *testing.T) {
	silent := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		// never acknowledges the hello
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	tests := []struct {
		name string
		ws   http.Handler
	}{
		{"endpoint missing", notFound},
		{"handshake timeout", silent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &stubGenerator{}, tt.ws)
			c := newClient(srv)
			defer c.Close()

			start := time.Now()
			if mode := c.Connect(context.Background()); mode != model.ModeFallback {
				t.Fatalf("Connect = %q, want fallback", mode)
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Connect took %v", elapsed)
			}

			reply, err := c.Send(context.Background(), "Hello")
			if err != nil {
				t.Fatalf("Send: %v", err)
			}
			if reply.Transport != model.ModeFallback || !strings.Contains(reply.Artifact.HTML, "Hello") {
				t.Errorf("reply = %+v", reply)
			}

			session, err := srv.sessions.GetSession(c.SessionID())
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if session.Mode != model.ModeFallback {
				t.Errorf("server mode = %q", session.Mode)
			}
		})
	}
}

func TestChannelLossSwitchesToHTTP(t *testing.T) {
	srv := newServer(t, &stubGenerator{}, nil)
	c := newClient(srv)
	defer c.Close()

	if mode := c.Connect(context.Background()); mode != model.ModeRealtime {
		t.Fatalf("Connect = %q", mode)
	}
	if _, err := c.Send(context.Background(), "first"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	srv.gateway.Shutdown()
	waitFor(t, func() bool { return c.Mode() == model.ModeFallback })

	reply, err := c.Send(context.Background(), "second")
	if err != nil {
		t.Fatalf("Send after shutdown: %v", err)
	}
	if reply.Transport != model.ModeFallback || !strings.Contains(reply.Artifact.HTML, "second") {
		t.Errorf("reply = %+v", reply)
	}

	msgs, err := srv.sessions.GetSessionMessages(c.SessionID())
	if err != nil {
		t.Fatalf("GetSessionMessages: %v", err)
	}
	var prompts []string
	for _, m := range msgs {
		if m.Role == model.RoleUser {
			prompts = append(prompts, m.Content)
		}
	}
	if strings.Join(prompts, ",") != "first,second" {
		t.Errorf("server prompts = %v", prompts)
	}
}

func TestCancelledPromptDoesNotLeakIntoNext(t *testing.T) {
	srv := newServer(t, &stubGenerator{slow: "FIRST", delay: 300 * time.Millisecond}, nil)
	c := newClient(srv)
	defer c.Close()

	if mode := c.Connect(context.Background()); mode != model.ModeRealtime {
		t.Fatalf("Connect = %q", mode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Send(ctx, "FIRST"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send(FIRST) err = %v, want deadline exceeded", err)
	}

	// let the abandoned component reach the wire
	time.Sleep(400 * time.Millisecond)

	reply, err := c.Send(context.Background(), "SECOND")
	if err != nil {
		t.Fatalf("Send(SECOND): %v", err)
	}
	if !strings.Contains(reply.Message.ComponentCode, "<h1>SECOND</h1>") {
		t.Errorf("code = %q, want the SECOND component", reply.Message.ComponentCode)
	}
	if strings.Contains(reply.Artifact.HTML, "FIRST") {
		t.Errorf("html = %q carries the cancelled prompt", reply.Artifact.HTML)
	}
	if c.Mode() != model.ModeFallback {
		t.Errorf("mode = %q, want fallback after an abandoned prompt", c.Mode())
	}
}

func TestGenerationError(t *testing.T) {
	srv := newServer(t, &stubGenerator{err: errors.New("AI service error: gemini request timed out after 30s")}, nil)
	c := newClient(srv)
	defer c.Close()
	c.Connect(context.Background())

	reply, err := c.Send(context.Background(), "x")
	var gerr *GenerationError
	if !errors.As(err, &gerr) || !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want *GenerationError", err)
	}
	if !strings.HasPrefix(reply.Message.Content, "Error: AI generation failed: ") {
		t.Errorf("message = %q", reply.Message.Content)
	}
	if c.Mode() != model.ModeRealtime {
		t.Errorf("a backend error must not drop the channel, mode = %q", c.Mode())
	}
}

func TestSwitchModelAndClear(t *testing.T) {
	srv := newServer(t, &stubGenerator{}, nil)
	c := newClient(srv)
	defer c.Close()

	if err := c.SwitchModel("claude"); err == nil {
		t.Error("SwitchModel accepted an unknown backend")
	}
	if err := c.SwitchModel(model.Gemini); err != nil {
		t.Fatalf("SwitchModel: %v", err)
	}
	reply, err := c.Send(context.Background(), "x")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Message.Model != string(model.Gemini) {
		t.Errorf("Model = %q", reply.Message.Model)
	}

	old := c.SessionID()
	c.Clear(context.Background())
	if c.SessionID() == old || len(c.Messages()) != 0 {
		t.Errorf("Clear kept state: id %s messages %d", c.SessionID(), len(c.Messages()))
	}
	if _, err := srv.sessions.GetSession(old); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("old session still stored: %v", err)
	}
}
