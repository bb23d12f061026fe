// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the application's state containers: the
// persisted chat collection, the persisted user settings, and the
// transient UI state.
//
// ChatStore and SettingsStore write through to a storage.KV on every
// mutation. Persistence failures never abort the mutation; the
// in-memory state stays authoritative and the failure is surfaced via
// LastError so the UI can show a degraded-mode notice.
package store
