// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workflow drives the cosmetic progress animation shown while a
// send is in flight.
package workflow

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STAGES
// =============================================================================

// Stage is one entry in the fixed progress sequence.
type Stage struct {
	Label       string
	Description string
}

// Stages is the fixed sequence displayed during a send. The animation
// advances one stage per tick and holds at the last stage until the
// response settles.
var Stages = []Stage{
	{Label: "Receiving", Description: "Processing your request"},
	{Label: "Analyzing", Description: "Understanding context"},
	{Label: "Retrieving", Description: "Accessing knowledge"},
	{Label: "Generating", Description: "Creating response"},
	{Label: "Verifying", Description: "Checking accuracy"},
	{Label: "Finalizing", Description: "Optimizing answer"},
}

// DefaultInterval is the time spent on each stage.
const DefaultInterval = time.Second

// =============================================================================
// TICK MESSAGES
// =============================================================================

// TickMsg advances the workflow animation by one stage. Generation ties
// the tick to the send that scheduled it so ticks from an abandoned send
// cannot advance a newer one.
type TickMsg struct {
	Generation int
	Time       time.Time
}

// =============================================================================
// TICKER
// =============================================================================

// Ticker is the workflow animation state machine. It is driven entirely
// from the bubbletea update loop and is not safe for concurrent use.
type Ticker struct {
	interval   time.Duration
	generation int
	step       int
	running    bool
}

// NewTicker creates a ticker that advances every interval. A zero or
// negative interval falls back to DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{interval: interval}
}

// Start resets the animation to the first stage for a new send and
// returns the command scheduling its first tick.
func (t *Ticker) Start() tea.Cmd {
	t.generation++
	t.step = 0
	t.running = true
	return t.tickCmd()
}

// Advance applies a tick. Stale ticks, from a generation other than the
// current one or arriving after Stop, are dropped. The returned command
// schedules the next tick, or is nil once the last stage is reached.
func (t *Ticker) Advance(msg TickMsg) tea.Cmd {
	if !t.running || msg.Generation != t.generation {
		return nil
	}
	if t.step >= len(Stages)-1 {
		return nil
	}
	t.step++
	if t.step >= len(Stages)-1 {
		return nil
	}
	return t.tickCmd()
}

// Stop ends the animation; any in-flight ticks become stale.
func (t *Ticker) Stop() {
	t.running = false
}

// Step returns the current stage index.
func (t *Ticker) Step() int {
	return t.step
}

// Stage returns the current stage.
func (t *Ticker) Stage() Stage {
	return Stages[t.step]
}

// Running reports whether the animation is active.
func (t *Ticker) Running() bool {
	return t.running
}

// Generation returns the current animation generation.
func (t *Ticker) Generation() int {
	return t.generation
}

func (t *Ticker) tickCmd() tea.Cmd {
	gen := t.generation
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return TickMsg{Generation: gen, Time: now}
	})
}
