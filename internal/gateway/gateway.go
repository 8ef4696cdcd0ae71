// Package gateway serves the realtime generation protocol over WebSocket and
// shares its prompt handling with the streaming HTTP transport.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/model"
	"genesis-backend/internal/service"
	"genesis-backend/internal/telemetry"
	"genesis-backend/pkg/logger"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Generator produces a snippet for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, b model.Backend) (string, error)
}

type Gateway struct {
	cfg       config.GatewayConfig
	upgrader  websocket.Upgrader
	generator Generator
	sessions  *service.SessionService
	registry  *Registry

	ctx    context.Context
	cancel context.CancelFunc

	tracer  trace.Tracer
	prompts metric.Int64Counter
	active  metric.Int64UpDownCounter
}

type Option func(*Gateway)

func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(g *Gateway) {
		if tel == nil {
			return
		}
		g.tracer = tel.Tracer
		if c, err := tel.Meter.Int64Counter("gateway.prompts",
			metric.WithDescription("Prompts handled by outcome")); err == nil {
			g.prompts = c
		}
		if c, err := tel.Meter.Int64UpDownCounter("gateway.connections",
			metric.WithDescription("Open realtime connections")); err == nil {
			g.active = c
		}
	}
}

func withDefaults(cfg config.GatewayConfig) config.GatewayConfig {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 2 * time.Second
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 64 * 1024
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	return cfg
}

func New(cfg config.GatewayConfig, generator Generator, sessions *service.SessionService, opts ...Option) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	cfg = withDefaults(cfg)
	g := &Gateway{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.HandshakeTimeout,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			// origins are enforced by the CORS settings of the HTTP API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		generator: generator,
		sessions:  sessions,
		registry:  NewRegistry(),
		ctx:       ctx,
		cancel:    cancel,
	}
	WithTelemetry(telemetry.Noop())(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Shutdown cancels in-flight prompts and closes every realtime connection.
func (g *Gateway) Shutdown() {
	g.cancel()
	g.registry.CloseAll()
	logger.Info("Realtime gateway closed")
}

// ServeHTTP upgrades the request and runs the connection until it closes. A
// completed upgrade is the handshake: the connection is registered at once
// and may stay idle until its first prompt.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("WebSocket upgrade failed for session %q: %v", sessionID, err)
		if sessionID != "" {
			g.recordUnreachable(sessionID)
		}
		return
	}
	g.serve(newConn(ws, sessionID, g.cfg))
}

func (g *Gateway) serve(c *Conn) {
	defer crashOnPanic()
	c.ws.SetReadLimit(g.cfg.MaxMessageSize)

	if c.sessionID == "" {
		c.sessionID = service.NewSessionID()
	}
	if _, err := g.sessions.Ensure(c.sessionID, model.ModeRealtime); err != nil {
		logger.Errorf("Failed to open session %s: %v", c.sessionID, err)
	}
	g.registry.Register(c.sessionID, c)
	g.active.Add(g.ctx, 1)
	logger.Infof("Realtime connection established for session %s", c.sessionID)

	ctx, cancel := context.WithCancel(g.ctx)
	defer func() {
		close(c.queue)
		cancel()
		g.registry.Remove(c)
		g.active.Add(context.Background(), -1)
		if err := g.sessions.MarkFallback(c.sessionID); err != nil {
			logger.Errorf("Failed to mark session %s as fallback: %v", c.sessionID, err)
		}
		c.Close(websocket.CloseNormalClosure, "")
		logger.Infof("Realtime connection closed for session %s", c.sessionID)
	}()

	go g.keepalive(ctx, c)
	go g.work(ctx, c)

	g.readLoop(c)
}

func (g *Gateway) readLoop(c *Conn) {
	pongWait := g.cfg.PongWait
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Realtime connection for session %s dropped: %v", c.sessionID, err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))

		in, err := Parse(data)
		if err != nil {
			g.reject(c, err)
			continue
		}
		g.dispatch(c, in)
	}
}

func (g *Gateway) reject(c *Conn, err error) {
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		perr = &ProtocolError{SessionID: unknownSession, Message: msgUnparseable}
	}
	logger.Debugf("Rejected realtime frame: %s", perr.Message)
	if err := c.Send(perr.Frame()); err != nil {
		logger.Debugf("Failed to send error frame: %v", err)
	}
}

func (g *Gateway) dispatch(c *Conn, in model.InboundFrame) {
	switch in.Type {
	case model.FrameHello:
		c.Send(statusFrame(c.sessionID, msgConnected))
	case model.FramePrompt:
		select {
		case c.queue <- in:
		default:
			c.Send(errorFrame(in.SessionID, msgQueueFull))
		}
	}
}

// work runs the connection's prompts one at a time, in arrival order.
func (g *Gateway) work(ctx context.Context, c *Conn) {
	defer crashOnPanic()
	for in := range c.queue {
		if ctx.Err() != nil {
			return
		}
		if in.SessionID != c.sessionID {
			if _, err := g.sessions.Ensure(in.SessionID, model.ModeRealtime); err != nil {
				logger.Errorf("Failed to open session %s: %v", in.SessionID, err)
			}
		}
		g.Process(ctx, in, c.Send)
	}
}

func (g *Gateway) keepalive(ctx context.Context, c *Conn) {
	defer crashOnPanic()
	ticker := time.NewTicker(g.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

// Process answers one prompt with a status frame followed by exactly one
// component or error frame. The session must already exist for the exchange
// to be recorded.
func (g *Gateway) Process(ctx context.Context, in model.InboundFrame, emit func(model.Frame) error) {
	send := func(f model.Frame) {
		if err := emit(f); err != nil {
			logger.Debugf("Failed to deliver %s frame to session %s: %v", f.Type, f.SessionID, err)
		}
	}

	backend, err := model.ParseBackend(in.Model)
	if err != nil {
		send(errorFrame(in.SessionID, err.Error()))
		return
	}

	ctx, span := g.tracer.Start(ctx, "gateway.prompt",
		trace.WithAttributes(attribute.String("session.id", in.SessionID), attribute.String("backend", string(backend))))
	defer span.End()

	send(statusFrame(in.SessionID, msgProcessing))
	if _, err := g.sessions.RecordPrompt(in.SessionID, in.Prompt); err != nil {
		logger.Warnf("Failed to record prompt: %v", err)
	}

	code, err := g.generator.Generate(ctx, in.Prompt, backend)
	outcome := "component"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithFields(map[string]interface{}{
			"session": in.SessionID,
			"backend": backend,
		}).Errorf("AI generation error: %v", err)

		if _, rerr := g.sessions.RecordFailure(in.SessionID, backend, err); rerr != nil {
			logger.Warnf("Failed to record failure: %v", rerr)
		}
		send(errorFrame(in.SessionID, "AI generation failed: "+err.Error()))
	} else {
		if _, rerr := g.sessions.RecordComponent(in.SessionID, code, backend); rerr != nil {
			logger.Warnf("Failed to record component: %v", rerr)
		}
		send(componentFrame(in.SessionID, code, backend))
	}
	g.prompts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome), attribute.String("backend", string(backend))))
}

// recordUnreachable records that sessionID failed to open the realtime
// channel, creating the session in fallback mode when it is unknown.
func (g *Gateway) recordUnreachable(sessionID string) {
	if _, err := g.sessions.Ensure(sessionID, model.ModeFallback); err != nil {
		logger.Errorf("Failed to open session %s: %v", sessionID, err)
		return
	}
	if err := g.sessions.MarkFallback(sessionID); err != nil {
		logger.Errorf("Failed to mark session %s as fallback: %v", sessionID, err)
	}
}

// crashOnPanic logs a panic with its stack and terminates the process.
func crashOnPanic() {
	if r := recover(); r != nil {
		logger.Fatalf("panic in realtime gateway: %v\n%s", r, debug.Stack())
	}
}
