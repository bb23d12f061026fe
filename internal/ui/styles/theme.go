// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// LAYOUT MODES
// =============================================================================

// LayoutMode describes how much horizontal room the terminal offers.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 cols: sidebar hidden
	LayoutMedium                   // < 100 cols: compact sidebar
	LayoutWide                     // full layout
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds every style the TUI renders with, built once at startup and
// resized as the terminal changes.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Current dimensions
	Width  int
	Height int

	// =========================================================================
	// APP CHROME
	// =========================================================================
	App    lipgloss.Style
	Header lipgloss.Style

	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBadge    lipgloss.Style

	// =========================================================================
	// SIDEBAR
	// =========================================================================
	Sidebar        lipgloss.Style
	SidebarSection lipgloss.Style
	MenuTab        lipgloss.Style
	MenuTabActive  lipgloss.Style
	NewChatButton  lipgloss.Style
	ChatItem       lipgloss.Style
	ChatItemActive lipgloss.Style
	ChatItemTime   lipgloss.Style

	// =========================================================================
	// SETTINGS PANEL
	// =========================================================================
	SettingLabel    lipgloss.Style
	SettingValue    lipgloss.Style
	SettingSelected lipgloss.Style

	// =========================================================================
	// TRANSCRIPT
	// =========================================================================
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	BubbleMeta      lipgloss.Style

	WelcomeTitle lipgloss.Style
	WelcomeHint  lipgloss.Style
	Suggestion   lipgloss.Style

	// =========================================================================
	// WORKFLOW STRIP
	// =========================================================================
	StageDone        lipgloss.Style
	StageActive      lipgloss.Style
	StagePending     lipgloss.Style
	StageDescription lipgloss.Style

	// =========================================================================
	// INPUT AREA
	// =========================================================================
	InputBox         lipgloss.Style
	InputBoxFocused  lipgloss.Style
	InputBoxDisabled lipgloss.Style
	InputPlaceholder lipgloss.Style

	// =========================================================================
	// STATUS BAR
	// =========================================================================
	StatusBar    lipgloss.Style
	StatusModel  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// =========================================================================
	// MISC
	// =========================================================================
	Spinner         lipgloss.Style
	ErrorBox        lipgloss.Style
	CodeBlock       lipgloss.Style
	CodeBlockHeader lipgloss.Style
}

// NewTheme creates a theme by detecting the terminal's capabilities.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		Width:        80,
		Height:       24,
	}

	t.initStyles()
	return t
}

// NewThemeWithMode creates a theme with a forced background mode. Mode is
// "dark", "light", or anything else for auto-detection.
func NewThemeWithMode(mode string) *Theme {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	t := NewTheme()
	switch mode {
	case "dark":
		t.IsDark = true
	case "light":
		t.IsDark = false
	}
	return t
}

// ApplyMode switches an existing theme to a new background mode in
// place, so components holding the pointer pick up the change.
func (t *Theme) ApplyMode(mode string) {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		t.IsDark = true
	case "light":
		lipgloss.SetHasDarkBackground(false)
		t.IsDark = false
	default:
		t.IsDark = termenv.HasDarkBackground()
	}
	t.initStyles()
}

// SetSize updates dimensions and recomputes the size-dependent styles.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
	t.initStyles()
}

// GetLayoutMode returns the layout tier for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutMedium
	default:
		return LayoutWide
	}
}

// SidebarWidth returns the column width the sidebar should take in the
// current layout mode.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 24
	default:
		return 32
	}
}

// initStyles builds all lipgloss styles from the palette.
func (t *Theme) initStyles() {
	// =========================================================================
	// APP CHROME
	// =========================================================================
	t.App = lipgloss.NewStyle().
		Background(Surface)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1).
		Width(t.Width)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(GradientStart).
		Bold(true)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.HeaderBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1).
		Bold(true)

	// =========================================================================
	// SIDEBAR
	// =========================================================================
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 1)

	t.SidebarSection = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true).
		MarginTop(1)

	t.MenuTab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.MenuTabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1).
		Bold(true)

	t.NewChatButton = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ChatItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ChatItemActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Padding(0, 1).
		Bold(true)

	t.ChatItemTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// SETTINGS PANEL
	// =========================================================================
	t.SettingLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.SettingValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SettingSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	// =========================================================================
	// TRANSCRIPT
	// =========================================================================
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2)

	t.BubbleMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true).
		Align(lipgloss.Center)

	t.WelcomeHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Center)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	// =========================================================================
	// WORKFLOW STRIP
	// =========================================================================
	t.StageDone = lipgloss.NewStyle().
		Foreground(Emerald)

	t.StageActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StagePending = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StageDescription = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// =========================================================================
	// INPUT AREA
	// =========================================================================
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputBoxFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)

	t.InputBoxDisabled = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Foreground(TextMuted).
		Padding(0, 1)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// STATUS BAR
	// =========================================================================
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1).
		Width(t.Width)

	t.StatusModel = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// MISC
	// =========================================================================
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceBright).
		Foreground(TextPrimary).
		Padding(0, 1)

	t.CodeBlockHeader = lipgloss.NewStyle().
		Background(OverlayDim).
		Foreground(TextSecondary).
		Padding(0, 1)
}
