// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the loom mock backend.
//
// Endpoints:
//   - POST /api/chat/send - produce a canned assistant reply
//   - GET  /health        - health check
//
// The server never talks to a real model; it exists so the TUI's HTTP
// responder mode has something deterministic to call. Requests pass
// through a middleware chain of panic recovery, security headers,
// request logging, and per-IP rate limiting.
package server
