// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the loom TUI:
// message bubbles, the sidebar with chat list and settings, the workflow
// progress strip, header, status bar, spinners, and syntax-highlighted
// code blocks.
//
// Components are pure render helpers. They hold no application state of
// their own beyond display configuration; the chat model feeds them
// current data each frame.
package components
