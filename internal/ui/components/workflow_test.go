// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morganforge/loom/internal/ui/styles"
	"github.com/morganforge/loom/internal/workflow"
)

func TestWorkflowStripHiddenWhenInactive(t *testing.T) {
	strip := NewWorkflowStrip(styles.NewTheme())
	strip.SetProgress(2, false)

	assert.Equal(t, "", strip.View())
}

func TestWorkflowStripShowsAllStages(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(120, 40)

	strip := NewWorkflowStrip(theme)
	strip.SetWidth(120)
	strip.SetProgress(2, true)

	out := strip.View()
	for _, stage := range workflow.Stages {
		assert.Contains(t, out, stage.Label)
	}
	assert.Contains(t, out, workflow.Stages[2].Description)
}

func TestWorkflowStripCompactOnNarrowTerminal(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(50, 24)

	strip := NewWorkflowStrip(theme)
	strip.SetWidth(50)
	strip.SetProgress(1, true)

	out := strip.View()
	assert.Contains(t, out, workflow.Stages[1].Label)
	// Narrow mode shows only the current stage.
	assert.NotContains(t, out, workflow.Stages[0].Label)
	assert.False(t, strings.Contains(out, "\n"))
}

func TestWorkflowStripClampsStep(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(120, 40)

	strip := NewWorkflowStrip(theme)
	strip.SetProgress(99, true)
	assert.Equal(t, len(workflow.Stages)-1, strip.Step)

	strip.SetProgress(-5, true)
	assert.Equal(t, 0, strip.Step)
}
