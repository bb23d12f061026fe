// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client produces assistant replies for the session layer,
// either locally with a canned delay or over HTTP to a loom server.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/morganforge/loom/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a failure to obtain a reply.
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
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeRequestFailed
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrRequestFailed = &ClientError{Type: ErrTypeRequestFailed, Message: "request failed"}
)

// =============================================================================
// RESPONDER
// =============================================================================

// Reply is an assistant turn produced by a Responder.
type Reply struct {
	Role      model.Role `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

// Responder produces an assistant reply for a transcript. The final
// message in messages is the user turn being answered. Implementations
// must honor ctx cancellation.
type Responder interface {
	Respond(ctx context.Context, messages []*model.Message) (Reply, error)
}

// =============================================================================
// STUB RESPONDER
// =============================================================================

// StubDelay is the simulated thinking time of the local responder.
const StubDelay = 3 * time.Second

// StubResponder produces canned replies locally after a fixed delay,
// with no network involved.
type StubResponder struct {
	delay time.Duration
}

// NewStubResponder creates a local responder. A zero or negative delay
// falls back to StubDelay.
func NewStubResponder(delay time.Duration) *StubResponder {
	if delay <= 0 {
		delay = StubDelay
	}
	return &StubResponder{delay: delay}
}

// Respond waits the configured delay and echoes the last user message
// in a canned template.
func (r *StubResponder) Respond(ctx context.Context, messages []*model.Message) (Reply, error) {
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Reply{}, &ClientError{Type: ErrTypeRequestFailed, Message: "request canceled", Cause: ctx.Err()}
	case <-timer.C:
	}

	return Reply{
		Role:      model.RoleAssistant,
		Content:   canned(lastUserContent(messages)),
		Timestamp: time.Now(),
	}, nil
}

// canned formats the fixed mock reply around the echoed input.
func canned(input string) string {
	return fmt.Sprintf("This is a mock response to: \"%s\". The AI would process this in a real application.", input)
}

// lastUserContent returns the content of the most recent user message,
// or "" when the transcript has none.
func lastUserContent(messages []*model.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
