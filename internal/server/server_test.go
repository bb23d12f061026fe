// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/config"
)

func testConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.LatencyMS = 0
	cfg.RateLimitRPS = 0
	return cfg
}

func sendBody(t *testing.T, contents ...string) *bytes.Buffer {
	t.Helper()
	var msgs []client.WireMessage
	for _, content := range contents {
		msgs = append(msgs, client.WireMessage{Role: "user", Content: content, Timestamp: time.Now()})
	}
	data, err := json.Marshal(client.SendRequest{Messages: msgs})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestHandleSend_CannedReply(t *testing.T) {
	srv := httptest.NewServer(NewServer(testConfig()).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat/send", "application/json", sendBody(t, "  why is the sky blue?  "))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out client.SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Response.Role != "assistant" {
		t.Errorf("role = %q", out.Response.Role)
	}
	want := `This is a mock response to: "why is the sky blue?". Your conversation has 1 messages. The AI would process this in a real application.`
	if out.Response.Content != want {
		t.Errorf("content = %q\nwant      %q", out.Response.Content, want)
	}
	if out.Response.Timestamp.IsZero() {
		t.Error("reply has no timestamp")
	}
}

func TestHandleSend_ReplyReferencesConversationLength(t *testing.T) {
	srv := httptest.NewServer(NewServer(testConfig()).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat/send", "application/json", sendBody(t, "one", "two", "three"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var out client.SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.Response.Content, `"three"`) {
		t.Errorf("reply does not echo the last user message: %q", out.Response.Content)
	}
	if !strings.Contains(out.Response.Content, "3 messages") {
		t.Errorf("reply does not state the conversation length: %q", out.Response.Content)
	}
}

func TestHandleSend_Validation(t *testing.T) {
	srv := httptest.NewServer(NewServer(testConfig()).Handler())
	defer srv.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{not json`, http.StatusBadRequest},
		{"empty messages", `{"messages":[]}`, http.StatusBadRequest},
		{"invalid role", `{"messages":[{"role":"wizard","content":"hi"}]}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/chat/send", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			var fail client.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if fail.Error == "" {
				t.Error("error body has no message")
			}
		})
	}
}

func TestHandleSend_TooManyMessages(t *testing.T) {
	srv := httptest.NewServer(NewServer(testConfig()).Handler())
	defer srv.Close()

	contents := make([]string, MaxMessageCount+1)
	for i := range contents {
		contents[i] = fmt.Sprintf("message %d", i)
	}
	resp, err := http.Post(srv.URL+"/api/chat/send", "application/json", sendBody(t, contents...))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSend_SimulatedLatency(t *testing.T) {
	cfg := testConfig()
	cfg.LatencyMS = 100
	srv := httptest.NewServer(NewServer(cfg).Handler())
	defer srv.Close()

	start := time.Now()
	resp, err := http.Post(srv.URL+"/api/chat/send", "application/json", sendBody(t, "hi"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("request returned in %v, want at least the simulated latency", elapsed)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := httptest.NewServer(NewServer(testConfig()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" || health.Version != Version {
		t.Errorf("health = %+v", health)
	}

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 2
	s := NewServer(cfg)
	defer s.limiter.Stop()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	var limited bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("burst of requests was never rate limited")
	}
}

func TestRateLimiter_ZeroDisables(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	defer rl.Stop()
	for i := 0; i < 100; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRateLimiter_Stop(t *testing.T) {
	rl := NewRateLimiter(5, 10)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("fresh limiter rejected a request")
	}

	rl.Stop()
	rl.Stop() // second call must be a no-op

	if !rl.Allow("10.0.0.1") {
		t.Error("Allow stopped working after Stop")
	}
}

func TestServer_ShutdownStopsLimiter(t *testing.T) {
	s := NewServer(testConfig())

	// Handler reuses the server's limiter rather than building one per
	// call, so repeated calls do not accumulate eviction goroutines.
	s.Handler()
	s.Handler()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case <-s.limiter.done:
	default:
		t.Error("Shutdown did not stop the rate limiter")
	}
}
