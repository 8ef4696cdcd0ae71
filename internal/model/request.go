package model

// GenerateRequest is the body of the fallback transport.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	SessionID string `json:"sessionId"`
}

type CompileRequest struct {
	Code string `json:"code"`
}

type RenderRequest struct {
	Code string `json:"code"`
}

// InboundFrame is a message sent by the caller over the realtime channel.
type InboundFrame struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Model     string `json:"model,omitempty"`
}

const (
	FrameHello  = "hello"
	FramePrompt = "prompt"
)
