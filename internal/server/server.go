// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/config"
	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// MaxMessageCount is the maximum number of messages in a request.
	MaxMessageCount = 100

	// MaxContentLength is the maximum length of a single message.
	MaxContentLength = 100000

	// MaxRequestBodySize is the maximum request body size (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// EchoLimit caps the echoed prompt length, in runes.
	EchoLimit = 200

	// Version is the server version.
	Version = "1.0.0"
)

// validRoles defines the set of acceptable message roles.
var validRoles = map[string]bool{
	"user":      true,
	"assistant": true,
	"system":    true,
}

// validateMessages validates that all message roles are acceptable.
func validateMessages(messages []client.WireMessage) error {
	for i, msg := range messages {
		if !validRoles[msg.Role] {
			return fmt.Errorf("invalid role '%s' at message %d: must be one of user, assistant, system", msg.Role, i)
		}
	}
	return nil
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the mock backend HTTP server.
type Server struct {
	cfg     config.ServerConfig
	router  *http.ServeMux
	server  *http.Server
	limiter *RateLimiter

	startTime time.Time
	requests  atomic.Int64
}

// NewServer creates a server from the given configuration.
func NewServer(cfg config.ServerConfig) *Server {
	s := &Server{
		cfg:       cfg,
		router:    http.NewServeMux(),
		limiter:   NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /api/chat/send", s.handleSend)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the full middleware-wrapped handler. Exposed for
// tests driving the server through httptest.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(s.limiter),
	)(s.router)
}

// ============================================================================
// SEND HANDLER
// ============================================================================

// handleSend handles POST /api/chat/send.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req client.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("BAD_REQUEST | error=%v", err)
		s.writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if len(req.Messages) > MaxMessageCount {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("too many messages: maximum is %d", MaxMessageCount))
		return
	}
	if err := validateMessages(req.Messages); err != nil {
		log.Printf("INVALID_ROLE | error=%v", err)
		s.writeError(w, http.StatusBadRequest, "messages must have valid roles (user, assistant, system)")
		return
	}
	for i, msg := range req.Messages {
		if len(msg.Content) > MaxContentLength {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("message %d exceeds maximum length of %d", i, MaxContentLength))
			return
		}
	}

	// Simulated model latency, cancellable by client disconnect.
	if s.cfg.LatencyMS > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(time.Duration(s.cfg.LatencyMS) * time.Millisecond):
		}
	}

	reply := composeReply(req.Messages)
	s.writeJSON(w, http.StatusOK, client.SendResponse{Response: client.Reply{
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}})
}

// composeReply builds the canned reply from the transcript: the last
// user message, trimmed and quoted, plus the conversation length.
func composeReply(messages []client.WireMessage) string {
	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			prompt = strings.TrimSpace(messages[i].Content)
			break
		}
	}
	prompt = util.TruncateRunes(prompt, EchoLimit)

	return fmt.Sprintf(
		"This is a mock response to: \"%s\". Your conversation has %d messages. The AI would process this in a real application.",
		prompt, len(messages),
	)
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	TotalRequests int64  `json:"total_requests"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		TotalRequests: s.requests.Load(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.cfg.Addr()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s latency_ms=%d", addr, Version, s.cfg.LatencyMS)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and stops the rate
// limiter's eviction goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | requests_served=%d", s.requests.Load())
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response in the shape the HTTP
// responder expects.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, client.ErrorResponse{Error: message})
}
