package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured signals missing credentials, endpoint, or model name.
	// Detected at client construction or first call, never mid-pipeline.
	ErrNotConfigured = errors.New("not configured")
	// ErrRemoteService signals a non-success status from a remote service.
	ErrRemoteService = errors.New("remote service error")
	// ErrProtocol signals a success status whose body violates the expected
	// response contract (missing result container, missing message content).
	ErrProtocol = errors.New("unexpected response format")
	// ErrConnection signals transport-level unreachability. Unlike
	// ErrRemoteService the request was never executed by the service.
	ErrConnection = errors.New("connection failed")
	// ErrChatNotFound signals a missing chat session.
	ErrChatNotFound = errors.New("chat not found")
	// ErrInvalidArgument signals a caller-supplied value that fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteError wraps ErrRemoteService with the HTTP status and raw body
// captured for diagnostics.
type RemoteError struct {
	Service string
	Status  int
	Body    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s: status %d: %s", e.Service, ErrRemoteService.Error(), e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error { return ErrRemoteService }

// NewRemoteError creates a remote service error carrying status and body.
func NewRemoteError(service string, status int, body []byte) error {
	return &RemoteError{Service: service, Status: status, Body: string(body)}
}
