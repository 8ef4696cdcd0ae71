// Package tools exposes generation, compilation and rendering as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"genesis-backend/internal/model"
	"genesis-backend/internal/render"
	"genesis-backend/internal/transpile"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolGenerate = "generate_component"
	ToolCompile  = "compile_snippet"
	ToolRender   = "render_snippet"
)

var errMissingArgument = errors.New("missing argument")

// Generator produces a snippet for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, b model.Backend) (string, error)
}

type Toolset struct {
	generator Generator
	pipeline  *render.Pipeline
}

func NewToolset(gen Generator, pipeline *render.Pipeline) *Toolset {
	if pipeline == nil {
		pipeline = render.NewPipeline(nil)
	}
	return &Toolset{generator: gen, pipeline: pipeline}
}

// Register adds every tool to s. The generate tool is only offered when a
// generator is configured.
func (t *Toolset) Register(s *server.MCPServer) {
	if t.generator != nil {
		s.AddTool(mcp.NewTool(ToolGenerate,
			mcp.WithDescription("Generate a React landing page component from a description and render it to HTML"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("What the component should show")),
			mcp.WithString("model", mcp.Description(`Backend to use, "deepseek" (default) or "gemini"`)),
		), t.Generate)
	}
	s.AddTool(mcp.NewTool(ToolCompile,
		mcp.WithDescription("Compile a JSX/TSX snippet to plain JavaScript"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Snippet source, optionally fenced")),
	), t.Compile)
	s.AddTool(mcp.NewTool(ToolRender,
		mcp.WithDescription("Render a JSX/TSX snippet to sanitised HTML, falling back to a template when it cannot run"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Snippet source, optionally fenced")),
	), t.Render)
}

func requireString(req mcp.CallToolRequest, name string) (string, error) {
	v := req.GetString(name, "")
	if v == "" {
		return "", fmt.Errorf("%w: %s is required and must be a string", errMissingArgument, name)
	}
	return v, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(body)), nil
}

type generateResult struct {
	Code     string           `json:"code"`
	Model    string           `json:"model"`
	Artifact *render.Artifact `json:"render"`
}

func (t *Toolset) Generate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := requireString(req, "prompt")
	if err != nil {
		return errorResult(ToolGenerate, err), nil
	}
	backend, err := model.ParseBackend(req.GetString("model", ""))
	if err != nil {
		return errorResult(ToolGenerate, err), nil
	}

	code, err := t.generator.Generate(ctx, prompt, backend)
	if err != nil {
		return errorResult(ToolGenerate, err), nil
	}
	return jsonResult(generateResult{
		Code:     code,
		Model:    string(backend),
		Artifact: t.pipeline.Render(ctx, code),
	})
}

func (t *Toolset) Compile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := requireString(req, "code")
	if err != nil {
		return errorResult(ToolCompile, err), nil
	}
	result, err := transpile.Compile(code)
	if err != nil {
		return errorResult(ToolCompile, err), nil
	}
	return jsonResult(model.CompileResponse{
		Success:      true,
		CompiledCode: result.CompiledCode,
		OriginalCode: result.OriginalCode,
		CleanCode:    result.CleanCode,
	})
}

// Render never reports a tool error for a bad snippet; the fallback template
// and the diagnostic are part of the result.
func (t *Toolset) Render(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("code", "")
	return jsonResult(t.pipeline.Render(ctx, code))
}
