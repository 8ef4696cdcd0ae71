package generator

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBackend   = errors.New("backend error")
	ErrTimeout   = errors.New("generation timed out")
	ErrTruncated = errors.New("response was truncated")
)

// ServiceError wraps every failure Generate returns.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return "AI service error: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// BackendError is a non-success reply. Status is zero when no HTTP status was received.
type BackendError struct {
	Backend string
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s API error: %s", e.Backend, e.Message)
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Backend, e.Status, e.Message)
}

func (e *BackendError) Unwrap() error {
	return ErrBackend
}

type TimeoutError struct {
	Backend string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Backend, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

type TruncatedOutputError struct {
	Length int
}

func (e *TruncatedOutputError) Error() string {
	return "Response was truncated - please try a simpler prompt"
}

func (e *TruncatedOutputError) Unwrap() error {
	return ErrTruncated
}
