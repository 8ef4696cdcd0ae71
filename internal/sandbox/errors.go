package sandbox

import (
	"errors"
	"fmt"
)

var (
	ErrNoComponentFound = errors.New("no component found")
	ErrInvalidComponent = errors.New("invalid component")
	ErrExecution        = errors.New("execution failed")
	ErrTimeout          = errors.New("execution timed out")
	ErrEmptyRender      = errors.New("component rendered nothing")
)

// NoComponentFoundError means neither an export marker nor a component declaration exists.
type NoComponentFoundError struct{}

func (e *NoComponentFoundError) Error() string {
	return "no component found: expected `export default Name` or a capitalised function or const declaration"
}

func (e *NoComponentFoundError) Unwrap() error {
	return ErrNoComponentFound
}

// InvalidComponentError means the located export is not callable.
type InvalidComponentError struct {
	Name string
	Kind string
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("invalid component %s: got %s, want a function", e.Name, e.Kind)
}

func (e *InvalidComponentError) Unwrap() error {
	return ErrInvalidComponent
}

// ExecutionError wraps a script failure at one stage: construct, invoke or render.
type ExecutionError struct {
	Stage string
	Name  string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error [%s] %s: %v", e.Stage, e.Name, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}
