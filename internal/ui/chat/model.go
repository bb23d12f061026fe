// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main TUI view: the transcript viewport,
// input box, sidebar, settings panel, and the staged progress strip, all
// driven by the session controller.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/session"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/components"
	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// FOCUS AREAS
// =============================================================================

// focusArea identifies which panel receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
	focusSettings
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the root bubbletea model for the chat TUI.
type Model struct {
	controller *session.Controller
	chats      *store.ChatStore
	settings   *store.SettingsStore
	ui         *store.UIState

	theme *styles.Theme
	keys  KeyMap

	// Components
	header        *components.Header
	sidebar       *components.Sidebar
	settingsPanel *components.SettingsPanel
	strip         *components.WorkflowStrip
	spinner       components.Spinner
	welcome       *components.Welcome
	statusBar     *components.StatusBar

	// Input and transcript
	input       textinput.Model
	promptInput textinput.Model
	viewport    viewport.Model
	renderer    *glamour.TermRenderer

	focus  focusArea
	width  int
	height int
	ready  bool

	// Badge shown in the header, e.g. "STUB" or "HTTP".
	Badge string
}

// New creates the chat model wired to its controller and stores.
func New(controller *session.Controller, chats *store.ChatStore, settings *store.SettingsStore, ui *store.UIState, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	promptInput := textinput.New()
	promptInput.Placeholder = "System prompt"
	promptInput.CharLimit = 2000

	m := &Model{
		controller:    controller,
		chats:         chats,
		settings:      settings,
		ui:            ui,
		theme:         theme,
		keys:          DefaultKeyMap(),
		header:        components.NewHeader(theme),
		sidebar:       components.NewSidebar(theme),
		settingsPanel: components.NewSettingsPanel(theme),
		strip:         components.NewWorkflowStrip(theme),
		spinner:       components.NewSpinner(theme),
		welcome:       components.NewWelcome(theme),
		statusBar:     components.NewStatusBar(theme),
		input:         input,
		promptInput:   promptInput,
		viewport:      viewport.New(80, 20),
	}

	m.initRenderer(80)
	return m
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// initRenderer builds the glamour renderer for the given wrap width.
func (m *Model) initRenderer(width int) {
	if width < 20 {
		width = 20
	}

	style := "dark"
	if !m.theme.IsDark {
		style = "light"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// renderMarkdown converts assistant markdown to terminal output, falling
// back to the raw text when glamour is unavailable.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// activeChat returns the active chat snapshot, or nil.
func (m *Model) activeChat() *model.Chat {
	return m.controller.ActiveChat()
}

// contentWidth returns the width available to the chat column.
func (m *Model) contentWidth() int {
	width := m.width
	if !m.ui.SidebarCollapsed() {
		width -= m.theme.SidebarWidth()
	}
	if width < 20 {
		width = 20
	}
	return width
}

// stateLabel maps the controller phase to the status bar label.
func (m *Model) stateLabel() string {
	switch m.controller.Phase() {
	case session.PhaseSending:
		return "sending"
	case session.PhaseAwaitingResponse:
		return "waiting for reply"
	default:
		return "idle"
	}
}
