// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat threads, messages, and the model catalog.
//
// # Key Types
//
//   - Chat: one conversation thread with an ordered transcript and metadata
//   - Message: single turn with role, content and timestamp (immutable)
//   - Role: message role enumeration (user, assistant, system)
//   - ModelInfo: one selectable entry in the model picker catalog
//
// # Usage
//
// Create a chat and append a message:
//
//	chat := model.NewChat("New Chat")
//	chat.AddMessage(model.NewMessage(model.RoleUser, "Hello!"))
//
// The first user message derives the chat title (50 runes, ellipsis if
// truncated) unless the user renamed the chat explicitly.
package model
