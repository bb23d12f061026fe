// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript message as a styled bubble. User
// messages align right in blue, assistant messages align left in indigo,
// system notices center in amber.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool

	// Rendered, when non-empty, replaces the raw content for assistant
	// bubbles. The chat view fills it with glamour-rendered markdown.
	Rendered string

	theme *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleSystem}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	case model.RoleSystem:
		return b.renderSystemBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrappedContent)

	header := b.theme.BubbleMeta.Render("you")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(
		lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - Indigo tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Rendered
	if content == "" {
		maxContentWidth := b.Width - 12
		if maxContentWidth < 20 {
			maxContentWidth = 20
		}
		raw := b.Message.Content
		if strings.Contains(raw, "```") {
			// No glamour output: highlight fenced code directly.
			content = ParseCodeBlocks(raw, maxContentWidth)
		} else {
			content = wordWrap(raw, maxContentWidth)
		}
	}
	if content == "" {
		content = "..."
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubble := b.theme.AssistantBubble.
		Width(contentWidth).
		MarginRight(4).
		Render(content)

	header := b.theme.BubbleMeta.Render("assistant")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// SYSTEM BUBBLE - Amber tones, centered; carries failed-send notices
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "System message"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-16)

	bubble := b.theme.SystemBubble.
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(wrappedContent)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	header := b.theme.BubbleMeta.Render("system")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// GENERIC BUBBLE - Fallback for unknown roles
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2)

	return bubbleStyle.Render(wrappedContent)
}

// renderTimestamp renders a dimmed timestamp, or "" when disabled.
func (b *MessageBubble) renderTimestamp() string {
	if !b.ShowTimestamp {
		return ""
	}

	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = formatTime(ts)
	} else {
		formatted = formatDate(ts) + ", " + formatTime(ts)
	}

	return b.theme.BubbleMeta.Render(formatted)
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a whole transcript as stacked bubbles.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool

	// RenderAssistant, when set, converts assistant markdown to terminal
	// output before the bubble is built.
	RenderAssistant func(content string) string

	theme *styles.Theme
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages separated by blank lines.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("No messages yet. Start a conversation!")
	}

	var bubbles []string
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		if msg.Role == model.RoleAssistant && ml.RenderAssistant != nil {
			bubble.Rendered = strings.TrimRight(ml.RenderAssistant(msg.Content), "\n")
		}
		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}
