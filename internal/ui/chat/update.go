// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/loom/internal/session"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/components"
	"github.com/morganforge/loom/internal/workflow"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent by the config watcher when the file on disk
// changes. Only display settings are applied live.
type ConfigReloadedMsg struct {
	// Theme is the new background mode: "dark", "light", or "auto".
	Theme string

	// SidebarCollapsed is the new sidebar state.
	SidebarCollapsed bool
}

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update routes messages to the controller and the focused panel.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case workflow.TickMsg:
		cmd := m.controller.HandleTick(msg)
		return m, cmd

	case session.SendResultMsg:
		m.controller.HandleResult(msg)
		m.spinner.Stop()
		m.refreshViewport()
		return m, nil

	case ConfigReloadedMsg:
		m.theme.ApplyMode(msg.Theme)
		m.ui.SetSidebarCollapsed(msg.SidebarCollapsed)
		m.initRenderer(m.contentWidth() - 8)
		if m.ready {
			m.resize(m.width, m.height)
			m.refreshViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize recomputes every size-dependent piece of the layout.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.sidebar.SetSize(m.theme.SidebarWidth(), height-4)

	contentWidth := m.contentWidth()
	m.strip.SetWidth(contentWidth)
	m.welcome.SetSize(contentWidth, height-10)
	m.settingsPanel.SetSize(contentWidth, height-4)
	m.input.Width = contentWidth - 6
	m.promptInput.Width = contentWidth - 10

	m.viewport.Width = contentWidth
	m.viewport.Height = m.transcriptHeight()

	m.initRenderer(contentWidth - 8)
	m.refreshViewport()
}

// transcriptHeight returns the rows left for the viewport after the
// header, workflow strip, input box, and status bar take theirs.
func (m *Model) transcriptHeight() int {
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	return h
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings work regardless of focus.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		m.controller.NewChat()
		m.focus = focusInput
		m.input.Focus()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.ui.ToggleSidebar()
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.CycleTab):
		m.cycleFocus()
		return m, nil
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

// cycleFocus advances input -> sidebar -> settings -> input, keeping the
// UI store's active tab in sync.
func (m *Model) cycleFocus() {
	switch m.focus {
	case focusInput:
		m.focus = focusSidebar
		m.input.Blur()
		m.sidebar.Focused = true
		m.ui.SetActiveTab(store.TabChat)
	case focusSidebar:
		m.focus = focusSettings
		m.sidebar.Focused = false
		m.ui.SetActiveTab(store.TabSettings)
	default:
		m.focusInputPanel()
	}
}

// focusInputPanel returns focus to the message input on the chat tab.
func (m *Model) focusInputPanel() {
	m.focus = focusInput
	m.sidebar.Focused = false
	m.promptInput.Blur()
	m.settingsPanel.Editing = false
	m.ui.SetActiveTab(store.TabChat)
	m.input.Focus()
}

// =============================================================================
// INPUT PANEL
// =============================================================================

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chat := m.activeChat()
	onWelcome := chat == nil || chat.IsEmpty()

	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.controller.Busy() {
			return m, nil
		}
		// A highlighted suggestion fills the input instead of sending.
		if onWelcome && m.input.Value() == "" {
			if picked := m.welcome.Selected(); picked != "" {
				m.input.SetValue(picked)
				m.welcome.Cursor = -1
				return m, nil
			}
		}

		cmd := m.controller.Send(m.input.Value())
		if cmd == nil {
			return m, nil
		}
		m.input.SetValue("")
		m.welcome.Cursor = -1
		m.refreshViewport()
		return m, tea.Batch(cmd, m.spinner.Start())

	case key.Matches(msg, m.keys.Up):
		if onWelcome {
			m.welcome.MoveCursor(-1)
		} else {
			m.viewport.LineUp(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if onWelcome {
			m.welcome.MoveCursor(1)
		} else {
			m.viewport.LineDown(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m, nil
	}

	// The input box is read-only while a send is in flight.
	if m.controller.Busy() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SIDEBAR PANEL
// =============================================================================

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveCursor(1)

	case key.Matches(msg, m.keys.Submit):
		if id := m.sidebar.SelectedChatID(); id != "" {
			m.controller.SelectChat(id)
		} else {
			m.controller.NewChat()
		}
		m.focusInputPanel()
		m.refreshViewport()

	case key.Matches(msg, m.keys.Delete):
		if id := m.sidebar.SelectedChatID(); id != "" {
			m.controller.DeleteChat(id)
			m.sidebar.MoveCursor(-1)
			m.refreshViewport()
		}

	case key.Matches(msg, m.keys.Back):
		m.focusInputPanel()
	}

	return m, nil
}

// =============================================================================
// SETTINGS PANEL
// =============================================================================

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptInput.Focused() {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.settings.Update(store.Settings{SystemPrompt: m.promptInput.Value()})
			m.promptInput.Blur()
			m.settingsPanel.Editing = false
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.promptInput.Blur()
			m.settingsPanel.Editing = false
			return m, nil
		}

		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		m.settingsPanel.Draft = m.promptInput.Value()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.settingsPanel.MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.settingsPanel.MoveCursor(1)

	case key.Matches(msg, m.keys.Submit):
		switch {
		case m.settingsPanel.SelectedModelID() != "":
			m.settings.Update(store.Settings{SelectedModel: m.settingsPanel.SelectedModelID()})

		case m.settingsPanel.Cursor == m.settingsPanel.PromptRow():
			m.promptInput.SetValue(m.settings.Get().SystemPrompt)
			m.promptInput.Focus()
			m.settingsPanel.Editing = true
			m.settingsPanel.Draft = m.promptInput.Value()
			return m, textinput.Blink

		case m.settingsPanel.Cursor == m.settingsPanel.ResetRow():
			m.settings.Reset()
		}

	case key.Matches(msg, m.keys.Back):
		m.focusInputPanel()
	}

	return m, nil
}

// =============================================================================
// VIEWPORT REFRESH
// =============================================================================

// refreshViewport re-renders the active transcript and scrolls to the
// bottom.
func (m *Model) refreshViewport() {
	chat := m.activeChat()
	if chat == nil || chat.IsEmpty() {
		m.viewport.SetContent("")
		return
	}

	list := components.NewMessageList(m.theme)
	list.SetWidth(m.viewport.Width)
	list.SetMessages(chat.Messages)
	list.RenderAssistant = m.renderMarkdown

	m.viewport.SetContent(list.View())
	m.viewport.GotoBottom()
}
