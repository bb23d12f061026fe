// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence port for loom.
//
// The stores persist their state as opaque JSON snapshots under fixed
// keys (KeyChats, KeySettings). Three interchangeable backends implement
// the KV port:
//
//   - FileKV: one JSON file per key with atomic writes (default)
//   - SQLiteKV: a single-table SQLite database
//   - MemoryKV: map-backed, for tests and degraded operation
//
// A backend failure surfaces as ErrUnavailable; callers fall back to
// in-memory operation instead of crashing.
package storage
