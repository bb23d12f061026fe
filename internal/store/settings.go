// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state containers.
package store

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/storage"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings holds the user-tunable chat settings. SelectedModel accepts
// any string; the UI restricts input to the model catalog but the store
// does not validate.
type Settings struct {
	SelectedModel string `json:"selected_model"`
	SystemPrompt  string `json:"system_prompt"`
}

// DefaultSettings returns the fixed defaults restored by Reset.
func DefaultSettings() Settings {
	return Settings{
		SelectedModel: model.DefaultModelID,
		SystemPrompt:  "You are a helpful AI assistant.",
	}
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// SettingsStore is the singleton container for Settings, persisted on
// every mutation under its own storage key.
type SettingsStore struct {
	mu       sync.RWMutex
	settings Settings
	kv       storage.KV
	lastErr  string
}

// NewSettingsStore creates a settings store backed by kv, loading any
// persisted snapshot and falling back to defaults otherwise.
func NewSettingsStore(kv storage.KV) *SettingsStore {
	s := &SettingsStore{kv: kv, settings: DefaultSettings()}
	s.load()
	return s
}

func (s *SettingsStore) load() {
	data, ok, err := s.kv.Get(storage.KeySettings)
	if err != nil {
		log.Printf("STORE_LOAD_FAILED | key=%s error=%v", storage.KeySettings, err)
		s.lastErr = "settings could not be loaded; using defaults"
		return
	}
	if !ok {
		return
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("STORE_CORRUPT | key=%s error=%v", storage.KeySettings, err)
		s.lastErr = "settings were corrupt and have been reset"
		return
	}

	// Merge over defaults so a partial snapshot never blanks a field.
	if loaded.SelectedModel != "" {
		s.settings.SelectedModel = loaded.SelectedModel
	}
	if loaded.SystemPrompt != "" {
		s.settings.SystemPrompt = loaded.SystemPrompt
	}
}

func (s *SettingsStore) persist() {
	data, err := json.Marshal(s.settings)
	if err != nil {
		log.Printf("STORE_MARSHAL_FAILED | key=%s error=%v", storage.KeySettings, err)
		return
	}
	if err := s.kv.Set(storage.KeySettings, data); err != nil {
		log.Printf("STORE_SAVE_FAILED | key=%s error=%v", storage.KeySettings, err)
		s.lastErr = "settings could not be saved; changes are in-memory only"
		return
	}
	s.lastErr = ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Get returns a copy of the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update merges the non-empty fields of partial into the settings and
// persists the result.
func (s *SettingsStore) Update(partial Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if partial.SelectedModel != "" {
		s.settings.SelectedModel = partial.SelectedModel
	}
	if partial.SystemPrompt != "" {
		s.settings.SystemPrompt = partial.SystemPrompt
	}
	s.persist()
}

// Reset restores the fixed defaults and persists them.
func (s *SettingsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = DefaultSettings()
	s.persist()
}

// LastError returns the readable error surface for the view layer.
func (s *SettingsStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
