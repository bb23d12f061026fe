// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state containers.
package store

import "sync"

// =============================================================================
// MENU TABS
// =============================================================================

// Tab identifies the active sidebar menu section.
type Tab string

const (
	TabChat     Tab = "chat"
	TabSettings Tab = "settings"
)

// =============================================================================
// UI STATE
// =============================================================================

// UIState holds transient view state. It is never persisted and is
// reinitialized on every program start.
//
// Invariants: ActiveChatID is non-empty only while that chat exists in
// the ChatStore; WorkflowStep is only meaningful while Loading is true
// and is reset to 0 at the start of each send.
type UIState struct {
	mu sync.RWMutex

	activeChatID     string
	loading          bool
	workflowStep     int
	sidebarCollapsed bool
	activeTab        Tab
}

// NewUIState creates the transient view state with its defaults.
func NewUIState() *UIState {
	return &UIState{activeTab: TabChat}
}

// ActiveChatID returns the active chat ID, or "" when none is active.
func (s *UIState) ActiveChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeChatID
}

// SetActiveChat switches the active chat. Pass "" to deactivate.
func (s *UIState) SetActiveChat(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeChatID = chatID
}

// Loading reports whether a send is in flight.
func (s *UIState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetLoading sets the in-flight flag.
func (s *UIState) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// WorkflowStep returns the current cosmetic progress stage index.
func (s *UIState) WorkflowStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workflowStep
}

// SetWorkflowStep sets the cosmetic progress stage index.
func (s *UIState) SetWorkflowStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflowStep = step
}

// SidebarCollapsed reports whether the sidebar is collapsed.
func (s *UIState) SidebarCollapsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarCollapsed
}

// ToggleSidebar flips the sidebar collapse state.
func (s *UIState) ToggleSidebar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarCollapsed = !s.sidebarCollapsed
}

// SetSidebarCollapsed sets the sidebar collapse state directly.
func (s *UIState) SetSidebarCollapsed(collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarCollapsed = collapsed
}

// ActiveTab returns the active menu tab.
func (s *UIState) ActiveTab() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTab
}

// SetActiveTab switches the active menu tab.
func (s *UIState) SetActiveTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = tab
}
