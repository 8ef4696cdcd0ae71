package model

import "time"

const (
	FrameStatus    = "status"
	FrameComponent = "component"
	FrameError     = "error"
)

// Frame is a message sent to the caller, over the realtime channel or as an SSE event.
type Frame struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	Model     string `json:"model,omitempty"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type ComponentPayload struct {
	Code      string `json:"code"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Timestamp string `json:"timestamp"`
}

type GenerateResponse struct {
	Success   bool              `json:"success"`
	Component *ComponentPayload `json:"component,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

type CompileResponse struct {
	Success      bool   `json:"success"`
	CompiledCode string `json:"compiledCode,omitempty"`
	OriginalCode string `json:"originalCode,omitempty"`
	CleanCode    string `json:"cleanCode,omitempty"`
	Error        string `json:"error,omitempty"`
}

type RenderResponse struct {
	Success    bool     `json:"success"`
	HTML       string   `json:"html"`
	Template   string   `json:"template,omitempty"`
	Fallback   bool     `json:"fallback"`
	States     []string `json:"states"`
	Diagnostic string   `json:"diagnostic,omitempty"`
	CleanCode  string   `json:"cleanCode,omitempty"`
}

type SessionResponse struct {
	SessionID    string    `json:"sessionId"`
	Mode         Mode      `json:"mode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

type Mode string

const (
	ModeRealtime Mode = "realtime"
	ModeFallback Mode = "fallback"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Model         string    `json:"model,omitempty"`
	ComponentCode string    `json:"componentCode,omitempty"` // fence-free snippet
	Timestamp     time.Time `json:"timestamp"`
}

type Session struct {
	ID        string    `json:"id"`
	Mode      Mode      `json:"mode"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone copies the session including its message slice.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return &c
}
