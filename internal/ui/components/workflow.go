// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/ui/styles"
	"github.com/morganforge/loom/internal/workflow"
)

// =============================================================================
// WORKFLOW STRIP
// =============================================================================

// WorkflowStrip renders the staged progress indicator shown while a send
// is in flight. Completed stages get a done marker, the current stage an
// active marker, remaining stages stay dim.
type WorkflowStrip struct {
	Width  int
	Step   int
	Active bool

	theme *styles.Theme
}

// NewWorkflowStrip creates a strip bound to the theme.
func NewWorkflowStrip(theme *styles.Theme) *WorkflowStrip {
	return &WorkflowStrip{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the render width.
func (w *WorkflowStrip) SetWidth(width int) {
	w.Width = width
}

// SetProgress updates the current stage index and whether a send is
// running. Step is clamped into the valid stage range.
func (w *WorkflowStrip) SetProgress(step int, active bool) {
	if step < 0 {
		step = 0
	}
	if step >= len(workflow.Stages) {
		step = len(workflow.Stages) - 1
	}
	w.Step = step
	w.Active = active
}

// View renders the strip, or "" when no send is in flight.
func (w *WorkflowStrip) View() string {
	if !w.Active {
		return ""
	}

	if w.theme.GetLayoutMode() == styles.LayoutNarrow {
		return w.renderCompact()
	}
	return w.renderFull()
}

// renderFull renders every stage label with its marker on one line, plus
// the current stage description below.
func (w *WorkflowStrip) renderFull() string {
	var parts []string
	for i, stage := range workflow.Stages {
		var marker, label string
		switch {
		case i < w.Step:
			marker = w.theme.StageDone.Render(styles.StageMarkers.Done)
			label = w.theme.StageDone.Render(stage.Label)
		case i == w.Step:
			marker = w.theme.StageActive.Render(styles.StageMarkers.Active)
			label = w.theme.StageActive.Render(stage.Label)
		default:
			marker = w.theme.StagePending.Render(styles.StageMarkers.Pending)
			label = w.theme.StagePending.Render(stage.Label)
		}
		parts = append(parts, marker+" "+label)
	}

	strip := strings.Join(parts, "  ")
	description := w.theme.StageDescription.Render(workflow.Stages[w.Step].Description + "...")

	return lipgloss.JoinVertical(lipgloss.Left, strip, description)
}

// renderCompact renders only the current stage for narrow terminals.
func (w *WorkflowStrip) renderCompact() string {
	stage := workflow.Stages[w.Step]
	marker := w.theme.StageActive.Render(styles.StageMarkers.Active)
	label := w.theme.StageActive.Render(stage.Label)
	description := w.theme.StageDescription.Render(stage.Description + "...")

	return marker + " " + label + " " + description
}
