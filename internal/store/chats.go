// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state containers.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrChatNotFound is returned when operating on a chat ID that does not
// exist. Use errors.Is(err, ErrChatNotFound) to check for this error.
var ErrChatNotFound = errors.New("chat not found")

// =============================================================================
// CHAT STORE
// =============================================================================

// ChatStore is the single source of truth for all conversations.
//
// Every mutation persists the full collection to the KV port as one JSON
// snapshot. A failing backend degrades the store to in-memory operation
// and records a readable error instead of propagating to the view layer.
type ChatStore struct {
	mu      sync.RWMutex
	chats   []*model.Chat
	kv      storage.KV
	lastErr string
}

// chatSnapshot is the persisted shape of the collection.
type chatSnapshot struct {
	Chats []*model.Chat `json:"chats"`
}

// NewChatStore creates a chat store backed by kv and loads any existing
// snapshot. A missing or corrupt snapshot initializes an empty
// collection; it never fails construction.
func NewChatStore(kv storage.KV) *ChatStore {
	s := &ChatStore{kv: kv, chats: make([]*model.Chat, 0)}
	s.load()
	return s
}

// load reads the persisted snapshot, tolerating absence and corruption.
func (s *ChatStore) load() {
	data, ok, err := s.kv.Get(storage.KeyChats)
	if err != nil {
		log.Printf("STORE_LOAD_FAILED | key=%s error=%v", storage.KeyChats, err)
		s.lastErr = "chat history could not be loaded; running in-memory"
		return
	}
	if !ok {
		return
	}

	var snap chatSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("STORE_CORRUPT | key=%s error=%v", storage.KeyChats, err)
		s.lastErr = "chat history was corrupt and has been reset"
		return
	}
	if snap.Chats != nil {
		s.chats = snap.Chats
	}
}

// persist writes the full collection. Called with the lock held.
func (s *ChatStore) persist() {
	data, err := json.Marshal(chatSnapshot{Chats: s.chats})
	if err != nil {
		log.Printf("STORE_MARSHAL_FAILED | key=%s error=%v", storage.KeyChats, err)
		s.lastErr = "chat history could not be saved"
		return
	}
	if err := s.kv.Set(storage.KeyChats, data); err != nil {
		log.Printf("STORE_SAVE_FAILED | key=%s error=%v", storage.KeyChats, err)
		s.lastErr = "chat history could not be saved; changes are in-memory only"
		return
	}
	s.lastErr = ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CreateChat prepends a new empty chat and returns its ID. Never fails.
func (s *ChatStore) CreateChat(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := model.NewChat(title)
	s.chats = append([]*model.Chat{chat}, s.chats...)
	s.persist()
	return chat.ID
}

// DeleteChat removes the chat with the given ID. No-op if absent.
func (s *ChatStore) DeleteChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, chat := range s.chats {
		if chat.ID == id {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			s.persist()
			return
		}
	}
}

// AppendMessage constructs a message and appends it to the target chat,
// updating LastUpdated and deriving the title on a first user message.
// Returns ErrChatNotFound for unknown chat IDs; callers are expected to
// guarantee existence before sending.
func (s *ChatStore) AppendMessage(chatID string, role model.Role, content string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.find(chatID)
	if chat == nil {
		return nil, ErrChatNotFound
	}

	msg := model.NewMessage(role, content)
	chat.AddMessage(msg)
	s.persist()
	return msg, nil
}

// RenameChat overwrites the title and bumps LastUpdated.
func (s *ChatStore) RenameChat(chatID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.find(chatID)
	if chat == nil {
		return ErrChatNotFound
	}
	chat.SetTitle(title)
	s.persist()
	return nil
}

// find returns the chat with the given ID. Called with the lock held.
func (s *ChatStore) find(id string) *model.Chat {
	for _, chat := range s.chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Chats returns the collection in display order (newest first).
// The returned chats are deep copies; mutations go through the store.
func (s *ChatStore) Chats() []*model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Chat, len(s.chats))
	for i, chat := range s.chats {
		out[i] = chat.Clone()
	}
	return out
}

// Get returns a copy of one chat, or nil if absent.
func (s *ChatStore) Get(id string) *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if chat := s.find(id); chat != nil {
		return chat.Clone()
	}
	return nil
}

// Exists reports whether a chat with the given ID is present.
func (s *ChatStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id) != nil
}

// Len returns the number of chats.
func (s *ChatStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}

// LastError returns the readable error surface for the view layer.
// Empty when the last persistence round-trip succeeded.
func (s *ChatStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
