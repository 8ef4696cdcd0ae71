package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"genesis-backend/internal/generator"
	"genesis-backend/internal/model"
	"genesis-backend/internal/transpile"
	"genesis-backend/pkg/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorResult is the body of every failed tool call, so callers can tell a
// tool failure from a successful result by shape alone.
type ErrorResult struct {
	Success      bool   `json:"success"`
	Error        bool   `json:"error"`
	ErrorMessage string `json:"error_message"`
	ErrorKind    string `json:"error_kind"`
	ToolName     string `json:"tool_name"`
}

func errorResult(tool string, err error) *mcp.CallToolResult {
	res := ErrorResult{
		Success:      false,
		Error:        true,
		ErrorMessage: err.Error(),
		ErrorKind:    classify(err),
		ToolName:     tool,
	}
	logger.Warnf("Tool %s failed (%s): %v", tool, res.ErrorKind, err)

	body, merr := json.Marshal(res)
	if merr != nil {
		body = []byte(fmt.Sprintf(`{"success":false,"error":true,"error_message":%q,"tool_name":%q}`, err.Error(), tool))
	}
	return mcp.NewToolResultError(string(body))
}

func classify(err error) string {
	var (
		timeout   *generator.TimeoutError
		truncated *generator.TruncatedOutputError
		backend   *generator.BackendError
		compile   *transpile.TranspileError
	)
	switch {
	case errors.Is(err, model.ErrInvalidBackend), errors.Is(err, errMissingArgument):
		return "invalid_argument"
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &truncated):
		return "truncated_output"
	case errors.As(err, &backend):
		return "backend"
	case errors.As(err, &compile):
		return "compile"
	default:
		return "internal"
	}
}

// isErrorResult reports whether text is the body of a failed tool call.
func isErrorResult(text string) (bool, *ErrorResult) {
	var res ErrorResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return false, nil
	}
	if res.Error && !res.Success {
		return true, &res
	}
	return false, nil
}
