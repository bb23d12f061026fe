// loom - A terminal front-end for AI chat, with a built-in mock server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/loom/internal/cli"
	"github.com/morganforge/loom/internal/client"
	"github.com/morganforge/loom/internal/config"
	"github.com/morganforge/loom/internal/server"
	"github.com/morganforge/loom/internal/session"
	"github.com/morganforge/loom/internal/storage"
	"github.com/morganforge/loom/internal/store"
	"github.com/morganforge/loom/internal/ui/chat"
	"github.com/morganforge/loom/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "serve":
		runServe(args[1:])
	case "ask":
		runAsk(args[1:])
	case "version", "-v", "--version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	case "":
		runTUI()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

// runServe starts the mock chat server and blocks until interrupted.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "listen port (overrides config)")
	latency := fs.Int("latency", -1, "simulated latency in ms (overrides config)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *latency >= 0 {
		cfg.Server.LatencyMS = *latency
	}

	srv := server.NewServer(cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		timeout := time.Duration(cfg.Server.ShutdownTimeoutSecs) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// runAsk answers one question (or opens a REPL) without the TUI.
func runAsk(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	responder := newResponder(cfg)
	question := strings.Join(args, " ")

	if err := cli.Ask(cfg, responder, question); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the full-screen chat interface.
func runTUI() {
	if !cli.IsStdinTTY() || !cli.IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, "loom requires a terminal; use 'loom ask' for scripted use")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the screen, so logs go to a file instead of stderr.
	if logFile := openLogFile(); logFile != nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	kv := openKV(cfg)
	defer kv.Close()

	chats := store.NewChatStore(kv)
	settings := store.NewSettingsStore(kv)
	ui := store.NewUIState()
	ui.SetSidebarCollapsed(cfg.UI.SidebarCollapsed)

	responder := newResponder(cfg)
	controller := session.NewController(chats, settings, ui, responder, session.Config{
		WorkflowInterval: time.Duration(cfg.Workflow.StageIntervalMS) * time.Millisecond,
		RequestTimeout:   time.Duration(cfg.Chat.RequestTimeoutSecs) * time.Second,
	})

	theme := styles.NewThemeWithMode(cfg.UI.Theme)
	m := chat.New(controller, chats, settings, ui, theme)
	m.Badge = strings.ToUpper(cfg.Chat.ResponderMode)

	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher := watchConfig(p)
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running loom: %v\n", err)
		os.Exit(1)
	}
}

// watchConfig pushes display settings into the running program whenever
// the config file changes. Returns nil when there is nothing to watch.
func watchConfig(p *tea.Program) *config.Watcher {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	watcher, err := config.NewWatcher(path, 0, func(cfg *config.Config) {
		p.Send(chat.ConfigReloadedMsg{
			Theme:            cfg.UI.Theme,
			SidebarCollapsed: cfg.UI.SidebarCollapsed,
		})
	})
	if err != nil {
		log.Printf("CONFIG_WATCH_FAILED | err=%v", err)
		return nil
	}
	if err := watcher.Watch(); err != nil {
		log.Printf("CONFIG_WATCH_FAILED | err=%v", err)
		watcher.Close()
		return nil
	}
	return watcher
}

// =============================================================================
// WIRING HELPERS
// =============================================================================

// openKV opens the configured storage backend, degrading to in-memory
// when the backend cannot be opened.
func openKV(cfg *config.Config) storage.KV {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryKV()

	case "sqlite":
		path := cfg.Storage.SQLitePath
		if path == "" {
			dir, err := config.ConfigDir()
			if err != nil {
				log.Printf("STORAGE_FALLBACK | backend=sqlite err=%v", err)
				return storage.NewMemoryKV()
			}
			path = filepath.Join(dir, "loom.db")
		}
		kv, err := storage.NewSQLiteKV(path)
		if err != nil {
			log.Printf("STORAGE_FALLBACK | backend=sqlite err=%v", err)
			return storage.NewMemoryKV()
		}
		return kv

	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			d, err := storage.DefaultDir()
			if err != nil {
				log.Printf("STORAGE_FALLBACK | backend=file err=%v", err)
				return storage.NewMemoryKV()
			}
			dir = d
		}
		kv, err := storage.NewFileKV(dir)
		if err != nil {
			log.Printf("STORAGE_FALLBACK | backend=file err=%v", err)
			return storage.NewMemoryKV()
		}
		return kv
	}
}

// newResponder builds the responder selected by the configuration.
func newResponder(cfg *config.Config) client.Responder {
	if cfg.Chat.ResponderMode == "http" {
		return client.NewHTTPResponder(&client.HTTPConfig{
			BaseURL: cfg.Chat.ServerURL,
			Timeout: time.Duration(cfg.Chat.RequestTimeoutSecs) * time.Second,
		})
	}
	return client.NewStubResponder(time.Duration(cfg.Chat.StubDelayMS) * time.Millisecond)
}

// openLogFile opens ~/.loom/loom.log for TUI-mode logging.
func openLogFile() *os.File {
	if err := config.EnsureConfigDir(); err != nil {
		return nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "loom.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	return f
}

// =============================================================================
// HELP AND VERSION
// =============================================================================

func printVersion() {
	fmt.Printf("loom %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

func printUsage() {
	fmt.Print(`loom - terminal AI chat

Usage:
  loom                 Start the chat TUI
  loom serve           Run the mock chat server
      --port N         Listen port (overrides config)
      --latency N      Simulated latency in ms (overrides config)
  loom ask [question]  Answer one question, or open a REPL with no question
  loom version         Print version information
  loom help            Show this help

Configuration is read from ~/.loom/config.toml (or config.json).
`)
}
