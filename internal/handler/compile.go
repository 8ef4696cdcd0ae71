package handler

import (
	"net/http"

	"genesis-backend/internal/model"
	"genesis-backend/internal/render"
	"genesis-backend/internal/transpile"
	"genesis-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CompileHandler struct {
	pipeline *render.Pipeline
}

func NewCompileHandler(pipeline *render.Pipeline) *CompileHandler {
	return &CompileHandler{pipeline: pipeline}
}

// Compile runs the normalizer and the transpiler and reports every stage's output.
func (h *CompileHandler) Compile(c *gin.Context) {
	var req model.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, model.CompileResponse{Error: "Code is required and must be a string"})
		return
	}

	result, err := transpile.Compile(req.Code)
	if err != nil {
		logger.Debugf("Compilation error: %v", err)
		c.JSON(http.StatusInternalServerError, model.CompileResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.CompileResponse{
		Success:      true,
		CompiledCode: result.CompiledCode,
		OriginalCode: result.OriginalCode,
		CleanCode:    result.CleanCode,
	})
}

func (h *CompileHandler) CompileInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":        "Component compilation API",
		"methods":        []string{"POST"},
		"requiredFields": []string{"code"},
	})
}

// Render drives the snippet through the whole pipeline. It only fails on a
// body that is not a JSON object with a string code.
func (h *CompileHandler) Render(c *gin.Context) {
	var req model.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Code must be a string"})
		return
	}

	a := h.pipeline.Render(c.Request.Context(), req.Code)
	c.JSON(http.StatusOK, model.RenderResponse{
		Success:    true,
		HTML:       a.HTML,
		Template:   a.Template,
		Fallback:   a.Fallback,
		States:     a.StateNames(),
		Diagnostic: a.Diagnostic,
		CleanCode:  a.CleanCode,
	})
}
