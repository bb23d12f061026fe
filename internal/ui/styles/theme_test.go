// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestSidebarWidth(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(50, 24)
	assert.Equal(t, 0, theme.SidebarWidth())

	theme.SetSize(80, 24)
	assert.Equal(t, 24, theme.SidebarWidth())

	theme.SetSize(140, 40)
	assert.Equal(t, 32, theme.SidebarWidth())
}

func TestNewThemeWithMode(t *testing.T) {
	dark := NewThemeWithMode("dark")
	assert.True(t, dark.IsDark)

	light := NewThemeWithMode("light")
	assert.False(t, light.IsDark)
}

func TestStageMarkersAreASCII(t *testing.T) {
	for _, marker := range []string{
		StageMarkers.Done,
		StageMarkers.Active,
		StageMarkers.Pending,
		StageMarkers.Failed,
	} {
		for _, r := range marker {
			assert.Less(t, r, rune(128), "marker %q must be ASCII", marker)
		}
	}
}

func TestRenderErrorIncludesMessage(t *testing.T) {
	out := RenderError("send failed")
	assert.True(t, strings.Contains(out, "send failed"))
	assert.True(t, strings.Contains(out, StageMarkers.Failed))
}
