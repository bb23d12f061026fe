// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/morganforge/loom/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// SendRequest is the body of POST /api/chat/send.
type SendRequest struct {
	Messages []WireMessage `json:"messages"`
}

// WireMessage is a transcript turn on the wire. IDs stay client-side.
type WireMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SendResponse is the success body of POST /api/chat/send.
type SendResponse struct {
	Response Reply `json:"response"`
}

// ErrorResponse is the failure body of POST /api/chat/send.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// HTTP RESPONDER
// =============================================================================

// HTTPConfig holds configuration options for the HTTP responder.
type HTTPConfig struct {
	// BaseURL of the loom server (default: http://127.0.0.1:8098)
	BaseURL string

	// Timeout for send requests (default: 30s)
	Timeout time.Duration
}

// DefaultHTTPConfig returns the default responder configuration.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL: "http://127.0.0.1:8098",
		Timeout: 30 * time.Second,
	}
}

// HTTPResponder obtains replies from a loom server over HTTP.
//
// The responder is safe for concurrent use.
type HTTPResponder struct {
	config     *HTTPConfig
	httpClient *http.Client
}

// NewHTTPResponder creates an HTTP responder with custom configuration.
// A nil config uses DefaultHTTPConfig.
func NewHTTPResponder(config *HTTPConfig) *HTTPResponder {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8098"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPResponder{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Respond posts the transcript to /api/chat/send and decodes the reply.
func (r *HTTPResponder) Respond(ctx context.Context, messages []*model.Message) (Reply, error) {
	wire := make([]WireMessage, 0, len(messages))
	for _, msg := range messages {
		wire = append(wire, WireMessage{
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	body, err := json.Marshal(SendRequest{Messages: wire})
	if err != nil {
		return Reply{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL+"/api/chat/send", bytes.NewReader(body))
	if err != nil {
		return Reply{}, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Reply{}, ErrTimeout
		}
		return Reply{}, &ClientError{Type: ErrTypeConnection, Message: "server unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Prefer the server's own error string when the body carries one.
		var fail ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &fail) == nil && fail.Error != "" {
			return Reply{}, &ClientError{Type: ErrTypeRequestFailed, Message: fail.Error}
		}
		return Reply{}, &ClientError{Type: ErrTypeRequestFailed, Message: "unexpected status: " + resp.Status}
	}

	var result SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Reply{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.Response.Content == "" {
		return Reply{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "empty response from server"}
	}

	return result.Response, nil
}
