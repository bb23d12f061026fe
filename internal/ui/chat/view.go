// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole frame.
func (m *Model) View() string {
	if !m.ready {
		return "Starting loom..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// renderHeader syncs the header with the active chat and responder badge.
func (m *Model) renderHeader() string {
	m.header.Badge = m.Badge
	m.header.ChatTitle = ""
	if chat := m.activeChat(); chat != nil {
		m.header.ChatTitle = chat.Title
	}
	return m.header.View()
}

// renderBody renders the sidebar column next to the active tab's panel.
func (m *Model) renderBody() string {
	content := m.renderContent()

	if m.ui.SidebarCollapsed() || m.theme.SidebarWidth() == 0 {
		return content
	}

	m.sidebar.Tab = m.ui.ActiveTab()
	m.sidebar.Chats = m.chats.Chats()
	m.sidebar.ActiveChatID = m.ui.ActiveChatID()

	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), content)
}

// renderContent renders the chat column or the settings panel, depending
// on the active tab.
func (m *Model) renderContent() string {
	if m.ui.ActiveTab() == store.TabSettings {
		return m.renderSettings()
	}
	return m.renderChatColumn()
}

// renderChatColumn stacks the transcript, the workflow strip, and the
// input box.
func (m *Model) renderChatColumn() string {
	chat := m.activeChat()

	var transcript string
	if chat == nil || chat.IsEmpty() {
		transcript = m.welcome.View()
	} else {
		transcript = m.viewport.View()
	}

	var sections []string
	sections = append(sections, transcript)

	m.strip.SetProgress(m.ui.WorkflowStep(), m.ui.Loading())
	if strip := m.strip.View(); strip != "" {
		sections = append(sections, strip)
	}
	if spin := m.spinner.View(); spin != "" {
		sections = append(sections, spin)
	}

	sections = append(sections, m.renderInput())

	if lastErr := m.chats.LastError(); lastErr != "" {
		sections = append(sections, m.theme.ErrorBox.Render(lastErr))
	}

	return strings.Join(sections, "\n")
}

// renderInput renders the message input box, dimmed while a send is in
// flight.
func (m *Model) renderInput() string {
	width := m.contentWidth() - 4
	if width < 20 {
		width = 20
	}

	box := m.theme.InputBox
	switch {
	case m.controller.Busy():
		box = m.theme.InputBoxDisabled
	case m.focus == focusInput:
		box = m.theme.InputBoxFocused
	}

	return box.Width(width).Render(m.input.View())
}

// renderSettings syncs and renders the settings panel.
func (m *Model) renderSettings() string {
	m.settingsPanel.Settings = m.settings.Get()
	if m.promptInput.Focused() {
		m.settingsPanel.Draft = m.promptInput.Value()
	}

	panel := m.settingsPanel.View()

	if lastErr := m.settings.LastError(); lastErr != "" {
		panel += "\n" + m.theme.ErrorBox.Render(lastErr)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(panel)
}

// renderStatusBar syncs the status bar with the selected model and
// session state.
func (m *Model) renderStatusBar() string {
	info := model.GetModelInfo(m.settings.Get().SelectedModel)
	m.statusBar.Model = info.Name
	m.statusBar.State = m.stateLabel()

	if m.focus == focusSidebar {
		m.statusBar.Hints = []components.KeyHint{
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+d", Desc: "delete"},
			{Key: "esc", Desc: "back"},
		}
	} else {
		m.statusBar.Hints = components.DefaultKeyHints
	}
	return m.statusBar.View()
}
