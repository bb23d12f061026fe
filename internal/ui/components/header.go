// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/ui/styles"
	"github.com/morganforge/loom/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the top bar: wordmark, active chat title, and the
// responder mode badge.
type Header struct {
	Width     int
	ChatTitle string
	Badge     string

	theme *styles.Theme
}

// NewHeader creates a header bound to the theme.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the render width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header line.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render("loom")

	left := title
	if h.ChatTitle != "" {
		chatTitle := util.TruncateWidth(h.ChatTitle, h.Width/2)
		left += " " + h.theme.HeaderSubtitle.Render(chatTitle)
	}

	right := ""
	if h.Badge != "" {
		right = h.theme.HeaderBadge.Render(h.Badge)
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return h.theme.Header.Render(left + spacer + right)
}
