// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/session"
	"github.com/morganforge/loom/internal/storage"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/components"
	"github.com/morganforge/loom/internal/ui/styles"
)

type fakeResponder struct {
	reply client.Reply
	err   error
}

func (f *fakeResponder) Respond(ctx context.Context, messages []*model.Message) (client.Reply, error) {
	return f.reply, f.err
}

func newTestModel(t *testing.T) (*Model, *session.Controller) {
	t.Helper()

	kv := storage.NewMemoryKV()
	chats := store.NewChatStore(kv)
	settings := store.NewSettingsStore(kv)
	ui := store.NewUIState()

	responder := &fakeResponder{
		reply: client.Reply{Role: model.RoleAssistant, Content: "sure thing", Timestamp: time.Now()},
	}
	controller := session.NewController(chats, settings, ui, responder, session.Config{
		WorkflowInterval: time.Millisecond,
		RequestTimeout:   time.Second,
	})

	m := New(controller, chats, settings, ui, styles.NewTheme())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, controller
}

// collectMsgs resolves a command tree into the messages it produces.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	var out []tea.Msg
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			out = append(out, collectMsgs(t, sub)...)
		}
		return out
	}
	return append(out, msg)
}

func findSendResult(msgs []tea.Msg) (session.SendResultMsg, bool) {
	for _, msg := range msgs {
		if result, ok := msg.(session.SendResultMsg); ok {
			return result, true
		}
	}
	return session.SendResultMsg{}, false
}

func TestViewBeforeResizeShowsPlaceholder(t *testing.T) {
	kv := storage.NewMemoryKV()
	chats := store.NewChatStore(kv)
	settings := store.NewSettingsStore(kv)
	ui := store.NewUIState()
	controller := session.NewController(chats, settings, ui, &fakeResponder{}, session.DefaultConfig())

	m := New(controller, chats, settings, ui, styles.NewTheme())
	assert.Contains(t, m.View(), "Starting loom")
}

func TestEnterSendsAndResultSettles(t *testing.T) {
	m, controller := newTestModel(t)

	m.input.SetValue("hello there")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.True(t, controller.Busy())
	assert.Equal(t, "", m.input.Value())

	chat := controller.ActiveChat()
	require.NotNil(t, chat)
	require.Equal(t, 1, chat.MessageCount())
	assert.Equal(t, model.RoleUser, chat.Messages[0].Role)
	assert.Equal(t, "hello there", chat.Messages[0].Content)

	msgs := collectMsgs(t, cmd)
	result, ok := findSendResult(msgs)
	require.True(t, ok, "send command must yield a result")

	m.Update(result)
	assert.False(t, controller.Busy())

	chat = controller.ActiveChat()
	require.Equal(t, 2, chat.MessageCount())
	assert.Equal(t, model.RoleAssistant, chat.Messages[1].Role)
	assert.Equal(t, "sure thing", chat.Messages[1].Content)
}

func TestTypingBlockedWhileBusy(t *testing.T) {
	m, controller := newTestModel(t)

	m.input.SetValue("first")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, controller.Busy())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "", m.input.Value())

	// Enter while busy is dropped too.
	m.input.SetValue("second")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	chat := controller.ActiveChat()
	assert.Equal(t, 1, chat.MessageCount())
}

func TestTabCyclesFocusAndTab(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, focusInput, m.focus)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusSidebar, m.focus)
	assert.Equal(t, store.TabChat, m.ui.ActiveTab())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusSettings, m.focus)
	assert.Equal(t, store.TabSettings, m.ui.ActiveTab())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusInput, m.focus)
	assert.Equal(t, store.TabChat, m.ui.ActiveTab())
}

func TestSuggestionFillsInput(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, components.Suggestions[0], m.input.Value())
}

func TestSettingsPanelSelectsModel(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusSettings, m.focus)

	// Move to the second catalog entry and select it.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, model.Models[1].ID, m.settings.Get().SelectedModel)
}

func TestSettingsPromptEditRoundTrip(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	// Move cursor onto the prompt row and start editing.
	for i := 0; i < m.settingsPanel.PromptRow(); i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.promptInput.Focused())

	m.promptInput.SetValue("Answer briefly.")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.promptInput.Focused())
	assert.Equal(t, "Answer briefly.", m.settings.Get().SystemPrompt)
}

func TestNewChatShortcut(t *testing.T) {
	m, controller := newTestModel(t)

	before := m.chats.Len()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, before+1, m.chats.Len())
	assert.NotNil(t, controller.ActiveChat())
	assert.Equal(t, focusInput, m.focus)
}

func TestSidebarToggle(t *testing.T) {
	m, _ := newTestModel(t)

	assert.False(t, m.ui.SidebarCollapsed())
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.True(t, m.ui.SidebarCollapsed())
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, m.ui.SidebarCollapsed())
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
