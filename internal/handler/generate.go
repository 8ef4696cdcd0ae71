package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"genesis-backend/internal/gateway"
	"genesis-backend/internal/model"
	"genesis-backend/internal/service"
	"genesis-backend/internal/utils"
	"genesis-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	isoMillis         = "2006-01-02T15:04:05.000Z07:00"
	errPromptRequired = "Prompt is required and must be a string"
)

var heartbeatInterval = 15 * time.Second

// GenerateHandler serves the fallback transport: one HTTP request per prompt.
type GenerateHandler struct {
	generator gateway.Generator
	sessions  *service.SessionService
	gateway   *gateway.Gateway
}

func NewGenerateHandler(generator gateway.Generator, sessions *service.SessionService, gw *gateway.Gateway) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		sessions:  sessions,
		gateway:   gw,
	}
}

func timestamp() string {
	return time.Now().UTC().Format(isoMillis)
}

func failure(c *gin.Context, status int, msg string) {
	c.JSON(status, model.GenerateResponse{Success: false, Error: msg, Timestamp: timestamp()})
}

// bind validates a generate request and opens its session in fallback mode.
func (h *GenerateHandler) bind(c *gin.Context) (model.GenerateRequest, model.Backend, bool) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		failure(c, http.StatusBadRequest, errPromptRequired)
		return req, "", false
	}
	backend, err := model.ParseBackend(req.Model)
	if err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return req, "", false
	}
	req.Model = string(backend)

	if req.SessionID == "" {
		req.SessionID = service.NewSessionID()
	}
	if _, err := h.sessions.Ensure(req.SessionID, model.ModeFallback); err != nil {
		logger.Errorf("Failed to open session %s: %v", req.SessionID, err)
	} else if err := h.sessions.MarkFallback(req.SessionID); err != nil {
		logger.Errorf("Failed to mark session %s as fallback: %v", req.SessionID, err)
	}
	return req, backend, true
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	req, backend, ok := h.bind(c)
	if !ok {
		return
	}
	if _, err := h.sessions.RecordPrompt(req.SessionID, req.Prompt); err != nil {
		logger.Warnf("Failed to record prompt: %v", err)
	}

	code, err := h.generator.Generate(c.Request.Context(), req.Prompt, backend)
	if err != nil {
		logger.Errorf("Component generation error: %v", err)
		if _, rerr := h.sessions.RecordFailure(req.SessionID, backend, err); rerr != nil {
			logger.Warnf("Failed to record failure: %v", rerr)
		}
		failure(c, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := h.sessions.RecordComponent(req.SessionID, code, backend); err != nil {
		logger.Warnf("Failed to record component: %v", err)
	}

	c.JSON(http.StatusOK, model.GenerateResponse{
		Success: true,
		Component: &model.ComponentPayload{
			Code:      code,
			Model:     req.Model,
			Prompt:    req.Prompt,
			Timestamp: timestamp(),
		},
		SessionID: req.SessionID,
	})
}

func (h *GenerateHandler) GenerateInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":         "Component generation API",
		"methods":         []string{"POST"},
		"requiredFields":  []string{"prompt"},
		"optionalFields":  []string{"model", "sessionId"},
		"supportedModels": []string{string(model.DeepSeek), string(model.Gemini)},
	})
}

// Stream answers one prompt with the realtime frames sent as Server-Sent Events.
func (h *GenerateHandler) Stream(c *gin.Context) {
	req, _, ok := h.bind(c)
	if !ok {
		return
	}

	sseWriter := utils.NewSSEWriter(c.Writer)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	heartbeatDone := make(chan struct{})
	go func() {
		defer close(heartbeatDone)
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sseWriter.WriteJSON("heartbeat", gin.H{"type": "heartbeat", "timestamp": time.Now().Unix()}); err != nil {
					logger.Warnf("Heartbeat failed: %v", err)
					return
				}
			}
		}
	}()

	in := model.InboundFrame{
		Type:      model.FramePrompt,
		Prompt:    req.Prompt,
		SessionID: req.SessionID,
		Model:     req.Model,
	}
	h.gateway.Process(ctx, in, func(f model.Frame) error {
		return sseWriter.WriteJSON(f.Type, f)
	})
	// no heartbeat may follow [DONE]
	cancel()
	<-heartbeatDone
	sseWriter.Close()
}
