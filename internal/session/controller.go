// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates the send lifecycle across the stores, the
// responder, and the workflow animation.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/workflow"
)

// =============================================================================
// PHASES
// =============================================================================

// Phase is the controller's send state. At most one send is in flight,
// and every transition out of PhaseAwaitingResponse returns to PhaseIdle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseAwaitingResponse
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// SendResultMsg settles a send. ChatID is the chat captured when the
// send started, so a reply lands in the right transcript even if the
// user switched chats while waiting.
type SendResultMsg struct {
	ChatID string
	Reply  client.Reply
	Err    error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Config holds configuration for the session controller.
type Config struct {
	// WorkflowInterval is the time per progress stage (default: 1s)
	WorkflowInterval time.Duration

	// RequestTimeout bounds a single send (default: 60s)
	RequestTimeout time.Duration
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		WorkflowInterval: workflow.DefaultInterval,
		RequestTimeout:   60 * time.Second,
	}
}

// Controller owns the send state machine. It never renders; the view
// layer reads the stores and the UI state it updates.
type Controller struct {
	mu sync.Mutex

	chats     *store.ChatStore
	settings  *store.SettingsStore
	ui        *store.UIState
	responder client.Responder
	ticker    *workflow.Ticker

	phase          Phase
	requestTimeout time.Duration
}

// NewController wires the controller to its stores and responder.
func NewController(chats *store.ChatStore, settings *store.SettingsStore, ui *store.UIState, responder client.Responder, cfg Config) *Controller {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	return &Controller{
		chats:          chats,
		settings:       settings,
		ui:             ui,
		responder:      responder,
		ticker:         workflow.NewTicker(cfg.WorkflowInterval),
		requestTimeout: cfg.RequestTimeout,
	}
}

// Phase returns the current send phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Busy reports whether a send is in flight.
func (c *Controller) Busy() bool {
	return c.Phase() != PhaseIdle
}

// =============================================================================
// SEND LIFECYCLE
// =============================================================================

// Send starts a send for the given input. Blank input and sends issued
// while one is already in flight are dropped. The user message is
// appended synchronously; the returned command resolves the reply and
// drives the progress animation.
func (c *Controller) Send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseIdle {
		return nil
	}
	c.phase = PhaseSending

	chatID := c.ensureActiveChatLocked()
	if _, err := c.chats.AppendMessage(chatID, model.RoleUser, text); err != nil {
		// The active chat vanished between ensure and append; give up.
		log.Printf("SEND_ABORTED | chat=%s error=%v", chatID, err)
		c.phase = PhaseIdle
		return nil
	}

	c.ui.SetLoading(true)
	c.ui.SetWorkflowStep(0)
	c.phase = PhaseAwaitingResponse

	transcript := c.chats.Get(chatID).Messages
	return tea.Batch(c.respondCmd(chatID, transcript), c.ticker.Start())
}

// respondCmd resolves the reply off the update loop.
func (c *Controller) respondCmd(chatID string, transcript []*model.Message) tea.Cmd {
	timeout := c.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := c.responder.Respond(ctx, transcript)
		return SendResultMsg{ChatID: chatID, Reply: reply, Err: err}
	}
}

// HandleTick advances the progress animation and mirrors the new stage
// into the UI state.
func (c *Controller) HandleTick(msg workflow.TickMsg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := c.ticker.Advance(msg)
	c.ui.SetWorkflowStep(c.ticker.Step())
	return cmd
}

// HandleResult settles the in-flight send, dispatching to Complete or
// Fail.
func (c *Controller) HandleResult(msg SendResultMsg) {
	if msg.Err != nil {
		c.Fail(msg.ChatID, msg.Err)
		return
	}
	c.Complete(msg.ChatID, msg.Reply)
}

// Complete appends the assistant reply to the captured chat and returns
// to idle. If the chat was deleted while waiting, the reply is
// discarded.
func (c *Controller) Complete(chatID string, reply client.Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settleLocked()
	if !c.chats.Exists(chatID) {
		log.Printf("SEND_DISCARDED | chat=%s reason=deleted", chatID)
		return
	}
	if _, err := c.chats.AppendMessage(chatID, reply.Role, reply.Content); err != nil {
		log.Printf("REPLY_LOST | chat=%s error=%v", chatID, err)
	}
}

// Fail records a responder failure as a system notice in the captured
// chat and returns to idle, so the failure is visible in the
// transcript.
func (c *Controller) Fail(chatID string, sendErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settleLocked()
	log.Printf("SEND_FAILED | chat=%s error=%v", chatID, sendErr)
	if !c.chats.Exists(chatID) {
		log.Printf("SEND_DISCARDED | chat=%s reason=deleted", chatID)
		return
	}
	content := "The assistant did not respond: " + sendErr.Error()
	if _, err := c.chats.AppendMessage(chatID, model.RoleSystem, content); err != nil {
		log.Printf("SEND_NOTICE_LOST | chat=%s error=%v", chatID, err)
	}
}

// settleLocked resets the in-flight state. Called with the lock held.
func (c *Controller) settleLocked() {
	c.ticker.Stop()
	c.ui.SetLoading(false)
	c.ui.SetWorkflowStep(0)
	c.phase = PhaseIdle
}

// =============================================================================
// CHAT COORDINATION
// =============================================================================

// NewChat creates an empty chat and makes it active.
func (c *Controller) NewChat() string {
	id := c.chats.CreateChat("New Chat")
	c.ui.SetActiveChat(id)
	c.ui.SetActiveTab(store.TabChat)
	return id
}

// SelectChat activates the given chat if it exists.
func (c *Controller) SelectChat(id string) bool {
	if !c.chats.Exists(id) {
		return false
	}
	c.ui.SetActiveChat(id)
	return true
}

// DeleteChat removes a chat. Deleting the active chat activates the
// most recent remaining one, or clears the selection.
func (c *Controller) DeleteChat(id string) {
	c.chats.DeleteChat(id)
	if c.ui.ActiveChatID() != id {
		return
	}
	if chats := c.chats.Chats(); len(chats) > 0 {
		c.ui.SetActiveChat(chats[0].ID)
	} else {
		c.ui.SetActiveChat("")
	}
}

// ActiveChat returns a copy of the active chat, or nil when none is
// active.
func (c *Controller) ActiveChat() *model.Chat {
	id := c.ui.ActiveChatID()
	if id == "" {
		return nil
	}
	return c.chats.Get(id)
}

// WorkflowStage returns the stage currently displayed by the progress
// strip.
func (c *Controller) WorkflowStage() workflow.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker.Stage()
}

// ensureActiveChatLocked returns the active chat ID, creating and
// activating a fresh chat when none is active or the active one is
// gone. Called with the lock held.
func (c *Controller) ensureActiveChatLocked() string {
	id := c.ui.ActiveChatID()
	if id != "" && c.chats.Exists(id) {
		return id
	}
	id = c.chats.CreateChat("New Chat")
	c.ui.SetActiveChat(id)
	return id
}
