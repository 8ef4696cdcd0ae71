package gateway

import (
	"encoding/json"
	"time"

	"genesis-backend/internal/model"
)

const (
	unknownSession = "unknown"

	msgProcessing    = "Processing your request..."
	msgGenerated     = "Component generated successfully"
	msgConnected     = "Connected"
	msgInvalidFormat = "Invalid message format"
	msgUnparseable   = "Error processing your request"
	msgQueueFull     = "Too many pending requests"
)

// ProtocolError is a malformed or unsupported inbound frame. It is answered with
// an error frame and never closes the connection.
type ProtocolError struct {
	SessionID string
	Message   string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// Frame converts the error into the outbound error frame.
func (e *ProtocolError) Frame() model.Frame {
	return errorFrame(e.SessionID, e.Message)
}

// Parse decodes and validates one inbound frame.
func Parse(data []byte) (model.InboundFrame, error) {
	var in model.InboundFrame
	if err := json.Unmarshal(data, &in); err != nil {
		return in, &ProtocolError{SessionID: unknownSession, Message: msgUnparseable}
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = unknownSession
	}

	if in.Type == model.FrameHello {
		return in, nil
	}
	// every other frame needs the full envelope before its type is looked at
	if in.Type == "" || in.Prompt == "" || in.SessionID == "" {
		return in, &ProtocolError{SessionID: sessionID, Message: msgInvalidFormat}
	}
	if in.Type != model.FramePrompt {
		return in, &ProtocolError{SessionID: sessionID, Message: "Unsupported message type: " + in.Type}
	}
	if _, err := model.ParseBackend(in.Model); err != nil {
		return in, &ProtocolError{SessionID: in.SessionID, Message: err.Error()}
	}
	return in, nil
}

func statusFrame(sessionID, message string) model.Frame {
	return model.Frame{Type: model.FrameStatus, Message: message, SessionID: sessionID, Timestamp: time.Now().UnixMilli()}
}

func errorFrame(sessionID, message string) model.Frame {
	return model.Frame{Type: model.FrameError, Message: message, SessionID: sessionID, Timestamp: time.Now().UnixMilli()}
}

func componentFrame(sessionID, code string, backend model.Backend) model.Frame {
	return model.Frame{
		Type:      model.FrameComponent,
		Message:   msgGenerated,
		Code:      code,
		Model:     string(backend),
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
	}
}
