// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// KeyHint is one shortcut shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// DefaultKeyHints are the shortcuts shown when the chat view is idle.
var DefaultKeyHints = []KeyHint{
	{Key: "enter", Desc: "send"},
	{Key: "ctrl+n", Desc: "new chat"},
	{Key: "ctrl+b", Desc: "sidebar"},
	{Key: "tab", Desc: "menu"},
	{Key: "ctrl+c", Desc: "quit"},
}

// StatusBar renders the bottom line: active model, session state, and key
// hints.
type StatusBar struct {
	Width int
	Model string
	State string
	Hints []KeyHint

	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		Hints: DefaultKeyHints,
		theme: theme,
	}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar line.
func (s *StatusBar) View() string {
	left := s.theme.StatusModel.Render(s.Model)
	if s.State != "" {
		left += s.theme.ShortcutDesc.Render(" | ") + s.theme.ShortcutDesc.Render(s.State)
	}

	hints := s.Hints
	if s.theme.GetLayoutMode() == styles.LayoutNarrow && len(hints) > 2 {
		hints = hints[:2]
	}

	var hintParts []string
	for _, hint := range hints {
		hintParts = append(hintParts,
			s.theme.ShortcutKey.Render(hint.Key)+" "+s.theme.ShortcutDesc.Render(hint.Desc))
	}
	right := strings.Join(hintParts, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return s.theme.StatusBar.Render(left + spacer + right)
}
