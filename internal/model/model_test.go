// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short content unchanged",
			content: "Hello there, this is a test message",
			want:    "Hello there, this is a test message",
		},
		{
			name:    "exactly at limit unchanged",
			content: strings.Repeat("a", 50),
			want:    strings.Repeat("a", 50),
		},
		{
			name:    "over limit truncated with ellipsis",
			content: strings.Repeat("a", 51),
			want:    strings.Repeat("a", 50) + "...",
		},
		{
			name:    "newlines flattened",
			content: "line one\nline two",
			want:    "line one line two",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTitle(tc.content)
			if got != tc.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tc.want)
			}
			if len([]rune(got)) > TitleLimit+3 {
				t.Errorf("title length %d exceeds limit %d plus ellipsis", len([]rune(got)), TitleLimit)
			}
		})
	}
}

func TestChat_TitleFromFirstUserMessage(t *testing.T) {
	chat := NewChat("New Chat")

	chat.AddMessage(NewMessage(RoleUser, "Hello there, this is a test message"))
	if chat.Title != "Hello there, this is a test message" {
		t.Errorf("Title = %q, want first user message", chat.Title)
	}
	if chat.MessageCount() != 1 {
		t.Errorf("MessageCount() = %d, want 1", chat.MessageCount())
	}

	// Appending to a non-empty chat never changes the title
	chat.AddMessage(NewMessage(RoleAssistant, "A very different reply about something else"))
	chat.AddMessage(NewMessage(RoleUser, "Second question"))
	if chat.Title != "Hello there, this is a test message" {
		t.Errorf("Title changed after later appends: %q", chat.Title)
	}
}

func TestChat_FirstMessageFromAssistantKeepsTitle(t *testing.T) {
	chat := NewChat("New Chat")
	chat.AddMessage(NewMessage(RoleAssistant, "Welcome!"))
	if chat.Title != "New Chat" {
		t.Errorf("Title = %q, want %q", chat.Title, "New Chat")
	}
}

func TestChat_RenamedTitleSticks(t *testing.T) {
	chat := NewChat("New Chat")
	chat.SetTitle("My project notes")
	chat.AddMessage(NewMessage(RoleUser, "Hello"))
	if chat.Title != "My project notes" {
		t.Errorf("Title = %q, want explicit rename to stick", chat.Title)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_OrderingIsInsertionOrder(t *testing.T) {
	chat := NewChat("t")
	contents := []string{"one", "two", "three"}
	for _, c := range contents {
		chat.AddMessage(NewMessage(RoleUser, c))
	}
	for i, msg := range chat.Messages {
		if msg.Content != contents[i] {
			t.Errorf("Messages[%d] = %q, want %q", i, msg.Content, contents[i])
		}
	}
}

func TestChat_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c := NewChat("x")
		if seen[c.ID] {
			t.Fatalf("duplicate chat ID %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestChat_Clone(t *testing.T) {
	chat := NewChat("t")
	chat.AddMessage(NewMessage(RoleUser, "hi"))

	clone := chat.Clone()
	clone.Messages[0].Content = "changed"

	if chat.Messages[0].Content != "hi" {
		t.Error("Clone() shares message memory with original")
	}
}

func TestChat_Preview(t *testing.T) {
	chat := NewChat("t")
	if chat.Preview(80) != "" {
		t.Error("empty chat should have empty preview")
	}
	chat.AddMessage(NewMessage(RoleUser, "a question\nwith newlines"))
	if strings.Contains(chat.Preview(80), "\n") {
		t.Error("preview should be single line")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(RoleUser, strings.Repeat("x", 100))
	got := msg.Preview(10)
	if got != strings.Repeat("x", 7)+"..." {
		t.Errorf("Preview(10) = %q", got)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant, RoleSystem} {
		if !r.Valid() {
			t.Errorf("Role %q should be valid", r)
		}
	}
	if Role("tool").Valid() {
		t.Error("unknown role should be invalid")
	}
}

// =============================================================================
// MODEL CATALOG TESTS
// =============================================================================

func TestModels_Catalog(t *testing.T) {
	if !IsCatalogModel(DefaultModelID) {
		t.Errorf("default model %q missing from catalog", DefaultModelID)
	}

	for _, m := range Models {
		if m.ID == "" || m.Name == "" {
			t.Errorf("catalog entry %+v missing required fields", m)
		}
	}
}

func TestGetModelInfo_UnknownID(t *testing.T) {
	info := GetModelInfo("custom-model")
	if info.ID != "custom-model" || info.Name != "custom-model" {
		t.Errorf("GetModelInfo(unknown) = %+v, want bare entry", info)
	}
}
