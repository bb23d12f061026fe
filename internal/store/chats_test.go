// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/storage"
)

// failingKV wraps a backend that refuses all writes.
type failingKV struct{}

func (failingKV) Get(key string) ([]byte, bool, error) { return nil, false, nil }
func (failingKV) Set(key string, value []byte) error   { return storage.ErrUnavailable }
func (failingKV) Delete(key string) error              { return storage.ErrUnavailable }
func (failingKV) Close() error                         { return nil }

// =============================================================================
// COLLECTION SEMANTICS
// =============================================================================

func TestChatStore_CreateDeleteSetSemantics(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())

	created := make(map[string]bool)
	var ids []string
	for i := 0; i < 10; i++ {
		id := s.CreateChat("New Chat")
		if created[id] {
			t.Fatalf("duplicate chat ID %q", id)
		}
		created[id] = true
		ids = append(ids, id)
	}

	// Delete every other chat, plus a nonexistent ID (no-op).
	for i := 0; i < len(ids); i += 2 {
		s.DeleteChat(ids[i])
		delete(created, ids[i])
	}
	s.DeleteChat("chat_does-not-exist")

	chats := s.Chats()
	if len(chats) != len(created) {
		t.Fatalf("got %d chats, want %d", len(chats), len(created))
	}
	for _, chat := range chats {
		if !created[chat.ID] {
			t.Errorf("unexpected chat %q in collection", chat.ID)
		}
	}
}

func TestChatStore_NewChatsArePrepended(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())

	first := s.CreateChat("first")
	second := s.CreateChat("second")

	chats := s.Chats()
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}
	if chats[0].ID != second || chats[1].ID != first {
		t.Errorf("newest chat not first: got [%s %s]", chats[0].ID, chats[1].ID)
	}
}

func TestChatStore_AppendMessage(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())
	id := s.CreateChat("New Chat")

	msg, err := s.AppendMessage(id, model.RoleUser, "How do goroutines work?")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if msg.ID == "" || msg.Role != model.RoleUser {
		t.Errorf("bad message: %+v", msg)
	}

	chat := s.Get(id)
	if chat.MessageCount() != 1 {
		t.Fatalf("got %d messages, want 1", chat.MessageCount())
	}
	if chat.Title != "How do goroutines work?" {
		t.Errorf("title = %q, want derived from first user message", chat.Title)
	}
}

func TestChatStore_AppendMessage_UnknownChat(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())

	_, err := s.AppendMessage("chat_missing", model.RoleUser, "hello")
	if !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestChatStore_RenameChat(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())
	id := s.CreateChat("New Chat")

	if err := s.RenameChat(id, "Goroutine questions"); err != nil {
		t.Fatalf("RenameChat: %v", err)
	}

	// A later first user message must not overwrite an explicit rename.
	if _, err := s.AppendMessage(id, model.RoleUser, "something else entirely"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if got := s.Get(id).Title; got != "Goroutine questions" {
		t.Errorf("title = %q, want rename to stick", got)
	}

	if err := s.RenameChat("chat_missing", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestChatStore_QueriesReturnCopies(t *testing.T) {
	s := NewChatStore(storage.NewMemoryKV())
	id := s.CreateChat("New Chat")
	if _, err := s.AppendMessage(id, model.RoleUser, "original"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	got := s.Get(id)
	got.Title = "mutated"
	got.Messages[0].Content = "mutated"

	fresh := s.Get(id)
	if fresh.Title == "mutated" || fresh.Messages[0].Content == "mutated" {
		t.Error("query result shares memory with the store")
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestChatStore_RoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()

	s := NewChatStore(kv)
	id := s.CreateChat("New Chat")
	if _, err := s.AppendMessage(id, model.RoleUser, "What is dependency injection?"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := s.AppendMessage(id, model.RoleAssistant, "It is a technique where..."); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	// A second store over the same backend sees the identical collection.
	reloaded := NewChatStore(kv)
	if reloaded.Len() != 1 {
		t.Fatalf("got %d chats after reload, want 1", reloaded.Len())
	}
	chat := reloaded.Get(id)
	if chat == nil {
		t.Fatal("chat missing after reload")
	}
	if chat.Title != "What is dependency injection?" {
		t.Errorf("title = %q after reload", chat.Title)
	}
	if chat.MessageCount() != 2 {
		t.Errorf("got %d messages after reload, want 2", chat.MessageCount())
	}
	if chat.Messages[0].Role != model.RoleUser || chat.Messages[1].Role != model.RoleAssistant {
		t.Error("message roles lost in round trip")
	}
}

func TestChatStore_CorruptSnapshotResets(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(storage.KeyChats, []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := NewChatStore(kv)
	if s.Len() != 0 {
		t.Errorf("got %d chats from corrupt snapshot, want 0", s.Len())
	}
	if s.LastError() == "" {
		t.Error("corrupt snapshot should surface a readable error")
	}

	// The store stays usable and the next persist heals the backend.
	s.CreateChat("New Chat")
	if s.LastError() != "" {
		t.Errorf("lastErr = %q after successful persist", s.LastError())
	}
}

func TestChatStore_UnavailableBackendDegradesToMemory(t *testing.T) {
	s := NewChatStore(failingKV{})

	id := s.CreateChat("New Chat")
	if s.LastError() == "" {
		t.Error("failed persist should surface a readable error")
	}

	// Mutations still succeed in memory.
	if _, err := s.AppendMessage(id, model.RoleUser, "still works"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if s.Get(id).MessageCount() != 1 {
		t.Error("in-memory state lost when backend is unavailable")
	}
}

// =============================================================================
// SCENARIO: FIRST MESSAGE IN A FRESH SESSION
// =============================================================================

func TestChatStore_FreshSessionFirstMessage(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := NewChatStore(kv)
	if s.Len() != 0 {
		t.Fatalf("fresh store has %d chats, want 0", s.Len())
	}

	long := strings.Repeat("x", model.TitleLimit+20)
	id := s.CreateChat("New Chat")
	if _, err := s.AppendMessage(id, model.RoleUser, long); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	chat := s.Get(id)
	want := strings.Repeat("x", model.TitleLimit) + "..."
	if chat.Title != want {
		t.Errorf("title = %q, want %q", chat.Title, want)
	}

	if _, err := s.AppendMessage(id, model.RoleAssistant, fmt.Sprintf("reply to %q", long)); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	chat = s.Get(id)
	if chat.MessageCount() != 2 {
		t.Fatalf("got %d messages, want 2", chat.MessageCount())
	}
	if chat.Title != want {
		t.Errorf("assistant reply changed title to %q", chat.Title)
	}

	// Everything above survives a restart.
	if got := NewChatStore(kv).Get(id); got == nil || got.MessageCount() != 2 {
		t.Error("fresh session state not persisted")
	}
}
