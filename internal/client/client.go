// Package client is the caller side of the generation protocol: it prefers the
// realtime channel, falls back to HTTP, and renders every component it receives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"genesis-backend/internal/model"
	"genesis-backend/internal/render"
	"genesis-backend/internal/utils"
	"genesis-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const DefaultHandshakeTimeout = 2 * time.Second

// ErrGeneration is matched by every *GenerationError.
var ErrGeneration = errors.New("generation failed")

// GenerationError is a failure reported by the server for one prompt.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return ErrGeneration
}

type Options struct {
	// BaseURL of the HTTP API, e.g. http://localhost:8080.
	BaseURL string
	// WSPath is appended to BaseURL with a ws scheme. Defaults to /ws.
	WSPath           string
	HandshakeTimeout time.Duration
	HTTPTimeout      time.Duration
	Backend          model.Backend
	Pipeline         *render.Pipeline
}

// Reply is the outcome of one prompt.
type Reply struct {
	Message   model.Message
	Artifact  *render.Artifact
	Transport model.Mode
}

type Client struct {
	opts     Options
	http     *http.Client
	pipeline *render.Pipeline

	sendMu sync.Mutex // one prompt at a time

	mu        sync.Mutex
	sessionID string
	backend   model.Backend
	mode      model.Mode
	ws        *websocket.Conn
	frames    chan model.Frame
	messages  []model.Message
}

func New(opts Options) *Client {
	if opts.WSPath == "" {
		opts.WSPath = "/ws"
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 90 * time.Second
	}
	if opts.Backend == "" {
		opts.Backend = model.DeepSeek
	}
	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = render.NewPipeline(nil)
	}
	return &Client{
		opts:      opts,
		http:      utils.NewHTTPClient(opts.HTTPTimeout),
		pipeline:  pipeline,
		sessionID: newSessionID(),
		backend:   opts.Backend,
		mode:      model.ModeFallback,
	}
}

func newSessionID() string {
	return "session-" + uuid.New().String()
}

func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) Mode() model.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Client) Backend() model.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

// Messages returns a copy of the conversation so far.
func (c *Client) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages...)
}

func (c *Client) wsURL(sessionID string) (string, error) {
	u, err := url.Parse(c.opts.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + c.opts.WSPath
	u.RawQuery = url.Values{"sessionId": {sessionID}}.Encode()
	return u.String(), nil
}

// Connect tries to open the realtime channel. The handshake must complete
// within the handshake timeout; otherwise the client stays in fallback mode
// and every prompt goes over HTTP. The resulting mode is returned.
func (c *Client) Connect(ctx context.Context) model.Mode {
	sessionID := c.SessionID()
	target, err := c.wsURL(sessionID)
	if err != nil {
		logger.Warnf("Invalid realtime URL: %v", err)
		return c.Mode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.HandshakeTimeout)
	defer cancel()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		logger.Infof("WebSocket connection failed, using HTTP API fallback: %v", err)
		return c.Mode()
	}

	deadline, _ := ctx.Deadline()
	ws.SetWriteDeadline(deadline)
	ws.SetReadDeadline(deadline)
	if err := ws.WriteJSON(model.InboundFrame{Type: model.FrameHello, SessionID: sessionID}); err != nil {
		ws.Close()
		logger.Infof("WebSocket handshake failed, using HTTP API fallback: %v", err)
		return c.Mode()
	}
	var ack model.Frame
	if err := ws.ReadJSON(&ack); err != nil || ack.Type != model.FrameStatus {
		ws.Close()
		logger.Infof("WebSocket connection timeout, using HTTP API mode")
		return c.Mode()
	}
	ws.SetReadDeadline(time.Time{})
	ws.SetWriteDeadline(time.Time{})

	frames := make(chan model.Frame, 16)
	c.mu.Lock()
	c.ws = ws
	c.frames = frames
	c.mode = model.ModeRealtime
	c.mu.Unlock()

	go c.readFrames(ws, frames)
	logger.Info("WebSocket connected")
	return model.ModeRealtime
}

func (c *Client) readFrames(ws *websocket.Conn, frames chan<- model.Frame) {
	defer close(frames)
	for {
		var f model.Frame
		if err := ws.ReadJSON(&f); err != nil {
			c.dropRealtime(ws)
			return
		}
		frames <- f
	}
}

// dropRealtime switches to fallback for good; a session never returns to realtime.
func (c *Client) dropRealtime(ws *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws != ws {
		return
	}
	c.ws.Close()
	c.ws = nil
	c.mode = model.ModeFallback
	logger.Info("WebSocket disconnected, using HTTP API mode")
}

func (c *Client) appendMessage(role, content string, mutate func(*model.Message)) model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := model.Message{
		ID:        uuid.New().String(),
		SessionID: c.sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if mutate != nil {
		mutate(&msg)
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Send delivers one prompt and renders the component it produces. A prompt
// that cannot be completed over the realtime channel is resent over HTTP.
// Server-side failures are returned as *GenerationError alongside the reply
// carrying the error message.
func (c *Client) Send(ctx context.Context, prompt string) (*Reply, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.appendMessage(model.RoleUser, prompt, nil)

	if c.Mode() == model.ModeRealtime {
		reply, err := c.sendRealtime(ctx, prompt)
		if err == nil || errors.Is(err, ErrGeneration) || ctx.Err() != nil {
			return reply, err
		}
		logger.Infof("Realtime delivery failed, resending over HTTP: %v", err)
	}
	return c.sendHTTP(ctx, prompt)
}

func (c *Client) sendRealtime(ctx context.Context, prompt string) (*Reply, error) {
	c.mu.Lock()
	ws, frames, sessionID, backend := c.ws, c.frames, c.sessionID, c.backend
	c.mu.Unlock()
	if ws == nil {
		return nil, errors.New("realtime channel closed")
	}

	frame := model.InboundFrame{Type: model.FramePrompt, Prompt: prompt, SessionID: sessionID, Model: string(backend)}
	if err := ws.WriteJSON(frame); err != nil {
		c.dropRealtime(ws)
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			// Frames for the abandoned prompt would be read as the next
			// prompt's answer.
			c.dropRealtime(ws)
			return nil, ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil, errors.New("realtime channel closed before the component arrived")
			}
			switch f.Type {
			case model.FrameStatus:
				c.appendMessage(model.RoleAssistant, f.Message, nil)
			case model.FrameComponent:
				b := model.Backend(f.Model)
				if b == "" {
					b = backend
				}
				return c.component(ctx, f.Code, b, model.ModeRealtime), nil
			case model.FrameError:
				return c.failure(f.Message, model.ModeRealtime)
			}
		}
	}
}

func (c *Client) sendHTTP(ctx context.Context, prompt string) (*Reply, error) {
	c.mu.Lock()
	sessionID, backend := c.sessionID, c.backend
	c.mu.Unlock()

	body, err := json.Marshal(model.GenerateRequest{Prompt: prompt, Model: string(backend), SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.opts.BaseURL, "/")+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		reply, _ := c.failure("Failed to generate component - "+err.Error(), model.ModeFallback)
		return reply, fmt.Errorf("fallback request failed: %w", err)
	}
	defer resp.Body.Close()

	var data model.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		reply, _ := c.failure("Failed to generate component - "+err.Error(), model.ModeFallback)
		return reply, fmt.Errorf("invalid fallback response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !data.Success || data.Component == nil {
		return c.failure(data.Error, model.ModeFallback)
	}
	return c.component(ctx, data.Component.Code, model.Backend(data.Component.Model), model.ModeFallback), nil
}

func (c *Client) component(ctx context.Context, code string, backend model.Backend, transport model.Mode) *Reply {
	msg := c.appendMessage(model.RoleAssistant, "Here is the generated component:", func(m *model.Message) {
		m.Model = string(backend)
		m.ComponentCode = code
	})
	return &Reply{
		Message:   msg,
		Artifact:  c.pipeline.Render(ctx, code),
		Transport: transport,
	}
}

func (c *Client) failure(message string, transport model.Mode) (*Reply, error) {
	msg := c.appendMessage(model.RoleAssistant, "Error: "+message, nil)
	return &Reply{Message: msg, Transport: transport}, &GenerationError{Message: message}
}

// SwitchModel selects the backend used by the next prompts.
func (c *Client) SwitchModel(b model.Backend) error {
	if _, err := model.ParseBackend(string(b)); err != nil {
		return err
	}
	c.mu.Lock()
	c.backend = b
	c.mu.Unlock()
	c.appendMessage(model.RoleAssistant, fmt.Sprintf("Switched to %s model", b), nil)
	return nil
}

// Clear drops the conversation and starts a new session. The old session is
// deleted on the server on a best-effort basis.
func (c *Client) Clear(ctx context.Context) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	old := c.sessionID
	c.sessionID = newSessionID()
	c.messages = nil
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		strings.TrimSuffix(c.opts.BaseURL, "/")+"/api/session/"+url.PathEscape(old), nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debugf("Failed to clear session %s: %v", old, err)
		return
	}
	resp.Body.Close()
}

// Close shuts the realtime channel down.
func (c *Client) Close() error {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.mode = model.ModeFallback
	c.mu.Unlock()
	if ws == nil {
		return nil
	}
	ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return ws.Close()
}
