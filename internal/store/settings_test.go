// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"

	"github.com/morganforge/loom/internal/storage"
)

func TestSettingsStore_Defaults(t *testing.T) {
	s := NewSettingsStore(storage.NewMemoryKV())

	got := s.Get()
	if got.SelectedModel != "gpt-4" {
		t.Errorf("SelectedModel = %q, want gpt-4", got.SelectedModel)
	}
	if got.SystemPrompt != "You are a helpful AI assistant." {
		t.Errorf("SystemPrompt = %q", got.SystemPrompt)
	}
}

func TestSettingsStore_UpdateMergesNonEmpty(t *testing.T) {
	s := NewSettingsStore(storage.NewMemoryKV())

	s.Update(Settings{SelectedModel: "claude-3"})
	got := s.Get()
	if got.SelectedModel != "claude-3" {
		t.Errorf("SelectedModel = %q, want claude-3", got.SelectedModel)
	}
	if got.SystemPrompt != DefaultSettings().SystemPrompt {
		t.Errorf("partial update blanked SystemPrompt: %q", got.SystemPrompt)
	}

	s.Update(Settings{SystemPrompt: "Answer in French."})
	got = s.Get()
	if got.SelectedModel != "claude-3" || got.SystemPrompt != "Answer in French." {
		t.Errorf("got %+v after second update", got)
	}
}

func TestSettingsStore_RoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()

	s := NewSettingsStore(kv)
	s.Update(Settings{SelectedModel: "llama-3", SystemPrompt: "Be terse."})

	reloaded := NewSettingsStore(kv)
	got := reloaded.Get()
	if got.SelectedModel != "llama-3" || got.SystemPrompt != "Be terse." {
		t.Errorf("got %+v after reload", got)
	}
}

func TestSettingsStore_Reset(t *testing.T) {
	kv := storage.NewMemoryKV()

	s := NewSettingsStore(kv)
	s.Update(Settings{SelectedModel: "llama-3", SystemPrompt: "Be terse."})
	s.Reset()

	if got := s.Get(); got != DefaultSettings() {
		t.Errorf("got %+v after reset", got)
	}
	if got := NewSettingsStore(kv).Get(); got != DefaultSettings() {
		t.Errorf("reset not persisted: %+v", got)
	}
}

func TestSettingsStore_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(storage.KeySettings, []byte("][")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := NewSettingsStore(kv)
	if got := s.Get(); got != DefaultSettings() {
		t.Errorf("got %+v from corrupt snapshot, want defaults", got)
	}
	if s.LastError() == "" {
		t.Error("corrupt snapshot should surface a readable error")
	}
}

func TestSettingsStore_PartialSnapshotMergesOverDefaults(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(storage.KeySettings, []byte(`{"selected_model":"gpt-3.5-turbo"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := NewSettingsStore(kv).Get()
	if got.SelectedModel != "gpt-3.5-turbo" {
		t.Errorf("SelectedModel = %q", got.SelectedModel)
	}
	if got.SystemPrompt != DefaultSettings().SystemPrompt {
		t.Errorf("partial snapshot blanked SystemPrompt: %q", got.SystemPrompt)
	}
}

func TestUIState_Defaults(t *testing.T) {
	ui := NewUIState()

	if ui.ActiveChatID() != "" {
		t.Error("fresh UI state has an active chat")
	}
	if ui.Loading() {
		t.Error("fresh UI state is loading")
	}
	if ui.ActiveTab() != TabChat {
		t.Errorf("ActiveTab = %q, want chat", ui.ActiveTab())
	}
	if ui.SidebarCollapsed() {
		t.Error("fresh UI state has a collapsed sidebar")
	}

	ui.ToggleSidebar()
	if !ui.SidebarCollapsed() {
		t.Error("ToggleSidebar did not collapse")
	}
	ui.SetActiveTab(TabSettings)
	if ui.ActiveTab() != TabSettings {
		t.Errorf("ActiveTab = %q after switch", ui.ActiveTab())
	}
}
