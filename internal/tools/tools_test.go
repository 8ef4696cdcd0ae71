package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"genesis-backend/internal/generator"
	"genesis-backend/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
)

type stubGenerator struct {
	err     error
	backend model.Backend
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, b model.Backend) (string, error) {
	s.backend = b
	if s.err != nil {
		return "", s.err
	}
	return "const Hero = () => <h1>" + prompt + "</h1>;\nexport default Hero;", nil
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v", res.Content)
	}
	switch tc := res.Content[0].(type) {
	case mcp.TextContent:
		return tc.Text
	case *mcp.TextContent:
		return tc.Text
	}
	t.Fatalf("content type %T", res.Content[0])
	return ""
}

func TestGenerateTool(t *testing.T) {
	gen := &stubGenerator{}
	ts := NewToolset(gen, nil)

	res, err := ts.Generate(context.Background(), call(map[string]interface{}{"prompt": "Hello", "model": "gemini"}))
	if err != nil || res.IsError {
		t.Fatalf("Generate = %+v, %v", res, err)
	}
	var out struct {
		Code   string `json:"code"`
		Model  string `json:"model"`
		Render struct {
			HTML     string `json:"html"`
			Fallback bool   `json:"fallback"`
		} `json:"render"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Model != "gemini" || gen.backend != model.Gemini {
		t.Errorf("model = %q, generator saw %q", out.Model, gen.backend)
	}
	if out.Render.Fallback || !strings.Contains(out.Render.HTML, "<h1>Hello</h1>") {
		t.Errorf("render = %+v", out.Render)
	}
}

func TestToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		gen      *stubGenerator
		tool     string
		args     map[string]interface{}
		wantKind string
	}{
		{"missing prompt", &stubGenerator{}, ToolGenerate, map[string]interface{}{}, "invalid_argument"},
		{"bad model", &stubGenerator{}, ToolGenerate, map[string]interface{}{"prompt": "x", "model": "claude"}, "invalid_argument"},
		{"timeout", &stubGenerator{err: &generator.TimeoutError{Backend: "deepseek", After: 30 * time.Second}}, ToolGenerate, map[string]interface{}{"prompt": "x"}, "timeout"},
		{"truncated", &stubGenerator{err: &generator.TruncatedOutputError{Length: 12}}, ToolGenerate, map[string]interface{}{"prompt": "x"}, "truncated_output"},
		{"missing code", &stubGenerator{}, ToolCompile, map[string]interface{}{}, "invalid_argument"},
		{"broken code", &stubGenerator{}, ToolCompile, map[string]interface{}{"code": "const A = () => <div>"}, "compile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewToolset(tt.gen, nil)
			handle := ts.Generate
			if tt.tool == ToolCompile {
				handle = ts.Compile
			}
			res, err := handle(context.Background(), call(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("IsError = false")
			}
			ok, er := isErrorResult(text(t, res))
			if !ok {
				t.Fatalf("not an error result: %s", text(t, res))
			}
			if er.ErrorKind != tt.wantKind || er.ToolName != tt.tool {
				t.Errorf("result = %+v, want kind %q", er, tt.wantKind)
			}
		})
	}
}

func TestCompileTool(t *testing.T) {
	ts := NewToolset(nil, nil)
	res, err := ts.Compile(context.Background(), call(map[string]interface{}{"code": "const A = () => <p>x</p>;\nexport default A;"}))
	if err != nil || res.IsError {
		t.Fatalf("Compile = %+v, %v", res, err)
	}
	var out model.CompileResponse
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || !strings.Contains(out.CompiledCode, "React.createElement") {
		t.Errorf("compile = %+v", out)
	}
}

func TestRenderToolFallsBack(t *testing.T) {
	ts := NewToolset(nil, nil)
	res, err := ts.Render(context.Background(), call(map[string]interface{}{"code": "const Shop = () => (<div className=\"shop\">"}))
	if err != nil || res.IsError {
		t.Fatalf("Render = %+v, %v", res, err)
	}
	var out struct {
		Template string `json:"template"`
		Fallback bool   `json:"fallback"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Fallback || out.Template != "commerce" {
		t.Errorf("render = %+v", out)
	}
}

func TestIsErrorResultIgnoresPlainText(t *testing.T) {
	if ok, _ := isErrorResult(`{"success":true}`); ok {
		t.Error("success body reported as error")
	}
	if ok, _ := isErrorResult("<h1>hi</h1>"); ok {
		t.Error("non-JSON reported as error")
	}
}
