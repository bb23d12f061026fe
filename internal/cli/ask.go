// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI entry points: the "ask" REPL with
// input history and markdown rendering, driven by the same responder
// interface as the TUI.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/config"
	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/ui/components"
	"github.com/morganforge/loom/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// newMarkdownRenderer builds a glamour renderer sized to the terminal.
// Returns nil when glamour fails; callers fall back to plain text.
func newMarkdownRenderer() *glamour.TermRenderer {
	width := TerminalWidth(80)
	if width > 100 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return renderer
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// inputReader wraps liner with persistent history under the config dir.
type inputReader struct {
	line        *liner.State
	historyFile string
}

func newInputReader() *inputReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "ask_history")

	r := &inputReader{line: line, historyFile: historyFile}
	r.loadHistory()
	return r
}

func (r *inputReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// Read reads one line, appending non-blank input to the history.
func (r *inputReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and releases the terminal.
func (r *inputReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// ASK SESSION
// =============================================================================

// askSession holds the REPL conversation state.
type askSession struct {
	cfg        *config.Config
	responder  client.Responder
	renderer   *glamour.TermRenderer
	transcript []*model.Message

	startTime time.Time
	turns     int
}

// Ask runs the ask command. With a question it answers once and exits;
// without one it starts an interactive REPL with history.
func Ask(cfg *config.Config, responder client.Responder, question string) error {
	s := &askSession{
		cfg:       cfg,
		responder: responder,
		renderer:  newMarkdownRenderer(),
		startTime: time.Now(),
	}

	if strings.TrimSpace(question) != "" {
		return s.oneShot(question)
	}
	return s.repl()
}

// oneShot answers a single question and exits.
func (s *askSession) oneShot(question string) error {
	reply, err := s.ask(question)
	if err != nil {
		return err
	}
	s.display(reply.Content)
	return nil
}

// repl runs the interactive loop until EOF, Ctrl+C, or exit.
func (s *askSession) repl() error {
	reader := newInputReader()
	defer reader.Close()

	fmt.Println(infoStyle.Render("loom ask - type a question, \"exit\" to quit"))

	for {
		input, err := reader.Read(promptStyle.Render("loom> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C; anything else is EOF.
			fmt.Println()
			s.printSummary()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			s.printSummary()
			return nil
		}
		if strings.HasPrefix(input, "/") {
			if done := s.handleCommand(input); done {
				s.printSummary()
				return nil
			}
			continue
		}

		reply, err := s.ask(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			continue
		}
		s.display(reply.Content)
	}
}

// ask appends the question to the transcript and resolves a reply.
func (s *askSession) ask(question string) (client.Reply, error) {
	s.transcript = append(s.transcript, model.NewMessage(model.RoleUser, question))

	timeout := time.Duration(s.cfg.Chat.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reply, err := s.responder.Respond(ctx, s.transcript)
	if err != nil {
		// Drop the failed turn so a retry starts clean.
		s.transcript = s.transcript[:len(s.transcript)-1]
		return client.Reply{}, err
	}

	s.transcript = append(s.transcript, model.NewMessage(reply.Role, reply.Content))
	s.turns++
	return reply, nil
}

// handleCommand processes slash commands. Returns true when the REPL
// should exit.
func (s *askSession) handleCommand(input string) bool {
	switch strings.Fields(input)[0] {
	case "/new":
		s.transcript = nil
		fmt.Println(infoStyle.Render("conversation cleared"))
	case "/help":
		fmt.Println(infoStyle.Render("/new   clear the conversation"))
		fmt.Println(infoStyle.Render("/help  show this help"))
		fmt.Println(infoStyle.Render("/quit  exit"))
	case "/quit", "/exit":
		return true
	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n",
			errorStyle.Render("[Error]"), input)
	}
	return false
}

// display prints a reply, markdown-rendered on a TTY and raw otherwise.
func (s *askSession) display(content string) {
	if !IsStdoutTTY() {
		fmt.Println(content)
		return
	}
	if s.renderer != nil {
		if rendered, err := s.renderer.Render(content); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	// Glamour unavailable: still highlight fenced code blocks.
	fmt.Println(components.ParseCodeBlocks(content, TerminalWidth(80)))
}

// printSummary shows a short session footer.
func (s *askSession) printSummary() {
	if s.turns == 0 {
		return
	}
	fmt.Println(separatorStyle.Render(strings.Repeat("-", 40)))
	fmt.Printf("%s %d | %s %s\n",
		infoStyle.Render("turns:"), s.turns,
		infoStyle.Render("elapsed:"), time.Since(s.startTime).Round(time.Second))
}
