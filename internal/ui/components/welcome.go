// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// WELCOME / EMPTY STATE
// =============================================================================

// Suggestions are the prompt starters shown on an empty chat. Selecting
// one fills the input box.
var Suggestions = []string{
	"Explain how React hooks work",
	"Write a function to find prime numbers",
	"Help me debug my CSS flexbox layout",
	"Create a simple Node.js server",
}

// Welcome renders the empty-chat state: a greeting plus the suggestion
// cards.
type Welcome struct {
	Width  int
	Height int

	// Cursor indexes Suggestions; -1 means none selected.
	Cursor int

	theme *styles.Theme
}

// NewWelcome creates a welcome view bound to the theme.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		Width:  80,
		Height: 24,
		Cursor: -1,
		theme:  theme,
	}
}

// SetSize sets the render dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// MoveCursor moves the suggestion selection by delta, clamped.
func (w *Welcome) MoveCursor(delta int) {
	w.Cursor += delta
	if w.Cursor < -1 {
		w.Cursor = -1
	}
	if w.Cursor >= len(Suggestions) {
		w.Cursor = len(Suggestions) - 1
	}
}

// Selected returns the suggestion under the cursor, or "".
func (w *Welcome) Selected() string {
	if w.Cursor < 0 || w.Cursor >= len(Suggestions) {
		return ""
	}
	return Suggestions[w.Cursor]
}

// View renders the welcome screen centered in the available area.
func (w *Welcome) View() string {
	title := w.theme.WelcomeTitle.Width(w.Width).Render("How can I help you today?")
	hint := w.theme.WelcomeHint.Width(w.Width).Render("Pick a suggestion or start typing")

	var cards []string
	for i, suggestion := range Suggestions {
		card := w.theme.Suggestion.Render(suggestion)
		if i == w.Cursor {
			card = w.theme.Suggestion.
				BorderForeground(styles.FocusRing).
				Render(suggestion)
		}
		cards = append(cards, card)
	}

	centered := lipgloss.NewStyle().
		Width(w.Width).
		Align(lipgloss.Center)

	body := strings.Join([]string{
		title,
		hint,
		"",
		centered.Render(lipgloss.JoinVertical(lipgloss.Center, cards...)),
	}, "\n")

	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, body)
}
