// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// SETTINGS PANEL
// =============================================================================

// SettingsPanel renders the settings tab: the model picker over the fixed
// catalog, the system prompt, and the reset action.
type SettingsPanel struct {
	Width  int
	Height int

	Settings store.Settings

	// Cursor indexes the picker rows: 0..len(model.Models)-1 select a
	// model, len(model.Models) is the system prompt field, one past that
	// is the reset action.
	Cursor  int
	Editing bool
	Draft   string

	theme *styles.Theme
}

// NewSettingsPanel creates a settings panel bound to the theme.
func NewSettingsPanel(theme *styles.Theme) *SettingsPanel {
	return &SettingsPanel{
		Width:  60,
		Height: 24,
		theme:  theme,
	}
}

// RowCount returns the total number of selectable rows.
func (p *SettingsPanel) RowCount() int {
	return len(model.Models) + 2
}

// PromptRow returns the cursor index of the system prompt field.
func (p *SettingsPanel) PromptRow() int {
	return len(model.Models)
}

// ResetRow returns the cursor index of the reset action.
func (p *SettingsPanel) ResetRow() int {
	return len(model.Models) + 1
}

// MoveCursor moves the selection by delta, clamped to the row range.
func (p *SettingsPanel) MoveCursor(delta int) {
	p.Cursor += delta
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.Cursor >= p.RowCount() {
		p.Cursor = p.RowCount() - 1
	}
}

// SelectedModelID returns the model under the cursor, or "" when the
// cursor is not on a picker row.
func (p *SettingsPanel) SelectedModelID() string {
	if p.Cursor < 0 || p.Cursor >= len(model.Models) {
		return ""
	}
	return model.Models[p.Cursor].ID
}

// SetSize sets the panel dimensions.
func (p *SettingsPanel) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// View renders the settings panel.
func (p *SettingsPanel) View() string {
	var sections []string

	sections = append(sections, p.theme.SettingLabel.Render("MODEL"))
	sections = append(sections, p.renderModelPicker())
	sections = append(sections, "")
	sections = append(sections, p.theme.SettingLabel.Render("SYSTEM PROMPT"))
	sections = append(sections, p.renderPrompt())
	sections = append(sections, "")
	sections = append(sections, p.renderReset())

	return strings.Join(sections, "\n")
}

// renderModelPicker renders one row per catalog model with the stored
// selection marked.
func (p *SettingsPanel) renderModelPicker() string {
	var rows []string
	for i, m := range model.Models {
		marker := styles.StageMarkers.Pending
		if m.ID == p.Settings.SelectedModel {
			marker = styles.StageMarkers.Active
		}

		row := marker + " " + m.Name + "  " +
			p.theme.ShortcutDesc.Render(m.Description)

		if i == p.Cursor {
			rows = append(rows, p.theme.SettingSelected.Render(row))
		} else {
			rows = append(rows, p.theme.SettingValue.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

// renderPrompt renders the system prompt, or the edit draft while the
// field is being edited.
func (p *SettingsPanel) renderPrompt() string {
	maxWidth := p.Width - 6
	if maxWidth < 20 {
		maxWidth = 20
	}

	if p.Editing {
		content := wordWrap(p.Draft+"_", maxWidth)
		return p.theme.InputBoxFocused.Width(maxWidth).Render(content)
	}

	content := wordWrap(p.Settings.SystemPrompt, maxWidth)
	box := p.theme.InputBox.Width(maxWidth)
	if p.Cursor == p.PromptRow() {
		box = p.theme.InputBoxFocused.Width(maxWidth)
	}
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("enter to edit")
	return box.Render(content) + "\n" + hint
}

// renderReset renders the reset-to-defaults action.
func (p *SettingsPanel) renderReset() string {
	label := "Reset to defaults"
	if p.Cursor == p.ResetRow() {
		return p.theme.SettingSelected.Render(label)
	}
	return lipgloss.NewStyle().Foreground(styles.Rose).Render(label)
}
