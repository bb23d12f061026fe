// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TitleLimit is how many leading runes of the first user message make
// up a derived title; "..." is appended when content was cut.
const TitleLimit = 50

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds one conversation thread: an ordered transcript plus metadata.
type Chat struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Messages    []*Message `json:"messages"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`

	// renamed marks a title as user-chosen so message appends never
	// overwrite it.
	Renamed bool `json:"renamed,omitempty"`
}

// NewChat creates a new empty chat with a generated ID.
func NewChat(title string) *Chat {
	now := time.Now()
	return &Chat{
		ID:          "chat_" + uuid.NewString(),
		Title:       title,
		Messages:    make([]*Message, 0),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the transcript and bumps LastUpdated.
// If this is the first user message and the title was never explicitly
// set by the user, the title is derived from the message content.
func (c *Chat) AddMessage(msg *Message) {
	first := len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	c.LastUpdated = time.Now()

	if first && msg.Role == RoleUser && !c.Renamed {
		c.Title = DeriveTitle(msg.Content)
	}
}

// SetTitle sets a user-chosen title. Subsequent appends keep it.
func (c *Chat) SetTitle(title string) {
	c.Title = title
	c.Renamed = true
	c.LastUpdated = time.Now()
}

// LastMessage returns the most recent message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// FirstUserMessage returns the earliest user message, or nil.
func (c *Chat) FirstUserMessage() *Message {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short single-line preview for list display.
func (c *Chat) Preview(maxLen int) string {
	first := c.FirstUserMessage()
	if first == nil {
		return ""
	}
	line := strings.ReplaceAll(first.Content, "\n", " ")
	runes := []rune(line)
	if len(runes) <= maxLen {
		return line
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clone creates a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := *c
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return &clone
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a chat title from a message: the first TitleLimit
// runes of the content, with "..." appended iff something was cut,
// newlines flattened to spaces.
func DeriveTitle(content string) string {
	content = strings.ReplaceAll(content, "\r", "")
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= TitleLimit {
		return content
	}
	return string(runes[:TitleLimit]) + "..."
}
