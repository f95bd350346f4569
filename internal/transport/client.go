// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the planner backend's chunk streams.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeBackendDown
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeStream
)

// Sentinel errors for easy checking.
var (
	ErrBackendDown = &ClientError{Type: ErrTypeBackendDown, Message: "planner backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// StreamTimeout for establishing streaming connections (default: 10s)
	StreamTimeout time.Duration

	// RequestsPerSecond caps how fast new requests may start (default: 2)
	RequestsPerSecond float64

	// ConversationID tags every request so the backend keeps one session
	ConversationID string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           30 * time.Second,
		StreamTimeout:     10 * time.Second,
		RequestsPerSecond: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// StreamFunc is called once per decoded chunk, in strict stream order.
// Returning an error aborts the stream and surfaces the error to the caller.
type StreamFunc func(c chunk.Chunk) error

// Client talks to the planner backend. Every endpoint answers with an
// NDJSON stream of chunks which the client decodes and delivers through a
// StreamFunc, preserving arrival order.
//
// The Client is safe for concurrent use, though the orchestrator only ever
// has one request in flight.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 10 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// STREAMING ENDPOINTS
// =============================================================================

// chatRequest is the request body for POST /chat.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// selectionsRequest is the request body for POST /submit-selections.
type selectionsRequest struct {
	PeopleTree     []chunk.SerializedNode `json:"people_tree"`
	PlaceTree      []chunk.SerializedNode `json:"place_tree"`
	ConversationID string                 `json:"conversation_id,omitempty"`
}

// formRequest is the request body for POST /submit-form.
type formRequest struct {
	Form           chunk.TextForm `json:"form"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

// Send posts a user message and streams the backend's response.
func (c *Client) Send(ctx context.Context, text string, fn StreamFunc) error {
	return c.stream(ctx, "/chat", chatRequest{
		Message:        text,
		ConversationID: c.config.ConversationID,
	}, fn)
}

// SubmitTreeSelections posts the combined tree selections and streams the
// backend's next turn. Missing tree types are sent as empty lists.
func (c *Client) SubmitTreeSelections(ctx context.Context, people, place []chunk.SerializedNode, fn StreamFunc) error {
	if people == nil {
		people = []chunk.SerializedNode{}
	}
	if place == nil {
		place = []chunk.SerializedNode{}
	}
	return c.stream(ctx, "/submit-selections", selectionsRequest{
		PeopleTree:     people,
		PlaceTree:      place,
		ConversationID: c.config.ConversationID,
	}, fn)
}

// SubmitForm posts the completed form and streams the backend's next turn.
func (c *Client) SubmitForm(ctx context.Context, form chunk.TextForm, fn StreamFunc) error {
	return c.stream(ctx, "/submit-form", formRequest{
		Form:           form,
		ConversationID: c.config.ConversationID,
	}, fn)
}

// stream issues one POST and pipes the NDJSON body through the reader.
func (c *Client) stream(ctx context.Context, path string, reqBody any, fn StreamFunc) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTimeout, Message: "rate limit wait cancelled", Cause: err}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// Streaming uses a client without a global timeout; lifetime is
	// bounded by the request context instead.
	streamClient := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Try to read a structured error message
		var backendErr struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&backendErr); err == nil && backendErr.Detail != "" {
			return &ClientError{
				Type:    ErrTypeInvalidResponse,
				Message: backendErr.Detail,
			}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "stream request failed: " + resp.Status,
		}
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, fn)
}
