// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/styles"
	"github.com/morganforge/loom/internal/util"
)

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar renders the left column: the Chat/Settings menu tabs, the New
// Chat action, and the chat list ordered newest first. It is fed fresh
// data each frame and holds only display state.
type Sidebar struct {
	Width  int
	Height int

	Tab          store.Tab
	Chats        []*model.Chat
	ActiveChatID string

	// Cursor is the keyboard selection index into Chats. -1 selects the
	// New Chat action.
	Cursor  int
	Focused bool

	theme *styles.Theme
}

// NewSidebar creates a sidebar bound to the theme.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  32,
		Height: 24,
		Tab:    store.TabChat,
		Cursor: -1,
		theme:  theme,
	}
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// MoveCursor moves the keyboard selection by delta, clamped to the range
// [-1, len(Chats)-1].
func (s *Sidebar) MoveCursor(delta int) {
	s.Cursor += delta
	if s.Cursor < -1 {
		s.Cursor = -1
	}
	if s.Cursor >= len(s.Chats) {
		s.Cursor = len(s.Chats) - 1
	}
}

// SelectedChatID returns the chat under the cursor, or "" when the New
// Chat action is selected.
func (s *Sidebar) SelectedChatID() string {
	if s.Cursor < 0 || s.Cursor >= len(s.Chats) {
		return ""
	}
	return s.Chats[s.Cursor].ID
}

// View renders the sidebar column.
func (s *Sidebar) View() string {
	if s.Width <= 0 {
		return ""
	}

	innerWidth := s.Width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	var lines []string
	lines = append(lines, s.renderTabs())
	lines = append(lines, "")
	lines = append(lines, s.renderNewChat())
	lines = append(lines, s.theme.SidebarSection.Render("CHATS"))
	lines = append(lines, s.renderChatList(innerWidth)...)

	content := strings.Join(lines, "\n")

	return s.theme.Sidebar.
		Width(s.Width - 2).
		Height(s.Height - 2).
		Render(content)
}

// renderTabs renders the Chat / Settings menu row.
func (s *Sidebar) renderTabs() string {
	chatTab := s.theme.MenuTab.Render("Chat")
	settingsTab := s.theme.MenuTab.Render("Settings")

	if s.Tab == store.TabSettings {
		settingsTab = s.theme.MenuTabActive.Render("Settings")
	} else {
		chatTab = s.theme.MenuTabActive.Render("Chat")
	}

	return chatTab + " " + settingsTab
}

// renderNewChat renders the New Chat action, highlighted when the cursor
// sits on it.
func (s *Sidebar) renderNewChat() string {
	label := "+ New Chat"
	if s.Focused && s.Cursor == -1 {
		return s.theme.ChatItemActive.Render(label)
	}
	return s.theme.NewChatButton.Render(label)
}

// renderChatList renders one row per chat: truncated title and relative
// timestamp, active chat highlighted.
func (s *Sidebar) renderChatList(innerWidth int) []string {
	if len(s.Chats) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("no chats yet")
		return []string{empty}
	}

	now := time.Now()
	var rows []string
	for i, chat := range s.Chats {
		when := RelativeTime(chat.LastUpdated, now)

		titleWidth := innerWidth - util.StringWidth(when) - 1
		if titleWidth < 4 {
			titleWidth = 4
		}
		title := util.TruncateWidth(chat.Title, titleWidth)

		padTo := innerWidth - util.StringWidth(when)
		if padTo < util.StringWidth(title)+1 {
			padTo = util.StringWidth(title) + 1
		}
		row := util.PadRight(title, padTo) + s.theme.ChatItemTime.Render(when)

		switch {
		case s.Focused && i == s.Cursor:
			rows = append(rows, s.theme.ChatItemActive.Render(row))
		case chat.ID == s.ActiveChatID:
			rows = append(rows, s.theme.ChatItemActive.Render(row))
		default:
			rows = append(rows, s.theme.ChatItem.Render(row))
		}
	}
	return rows
}
