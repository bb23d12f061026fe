// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for loom.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.loom/config.toml
//   - ~/.loom/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/loom/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete loom configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Workflow animation configuration
	Workflow WorkflowConfig `toml:"workflow" json:"workflow"`

	// Chat / responder configuration
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Mock server configuration
	Server ServerConfig `toml:"server" json:"server"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// SidebarCollapsed starts the sidebar collapsed
	SidebarCollapsed bool `toml:"sidebar_collapsed" json:"sidebar_collapsed"`
	// ShowSuggestions displays prompt suggestions on an empty chat
	ShowSuggestions bool `toml:"show_suggestions" json:"show_suggestions"`
}

// WorkflowConfig contains progress animation configuration.
type WorkflowConfig struct {
	// StageIntervalMS is the time per progress stage in milliseconds.
	// Valid range is 100-5000; values outside are clamped.
	StageIntervalMS int `toml:"stage_interval_ms" json:"stage_interval_ms"`
}

// ChatConfig contains responder configuration.
type ChatConfig struct {
	// ResponderMode selects where replies come from: "stub" or "http"
	ResponderMode string `toml:"responder_mode" json:"responder_mode"`
	// ServerURL is the loom server base URL for "http" mode
	ServerURL string `toml:"server_url" json:"server_url"`
	// StubDelayMS is the simulated thinking time for "stub" mode.
	// Valid range is 0-30000; values outside are clamped.
	StubDelayMS int `toml:"stub_delay_ms" json:"stub_delay_ms"`
	// RequestTimeoutSecs bounds a single send
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
}

// ServerConfig contains the mock server configuration.
type ServerConfig struct {
	// Host to bind (default: 127.0.0.1)
	Host string `toml:"host" json:"host"`
	// Port to listen on (default: 8098)
	Port int `toml:"port" json:"port"`
	// LatencyMS is the simulated processing delay per request
	LatencyMS int `toml:"latency_ms" json:"latency_ms"`
	// RateLimitRPS is the per-client request rate limit (0 disables)
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
	// RateLimitBurst is the per-client burst allowance
	RateLimitBurst int `toml:"rate_limit_burst" json:"rate_limit_burst"`
	// ShutdownTimeoutSecs bounds graceful shutdown
	ShutdownTimeoutSecs int `toml:"shutdown_timeout_secs" json:"shutdown_timeout_secs"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// Backend selects the KV backend: "file", "sqlite", "memory"
	Backend string `toml:"backend" json:"backend"`
	// Dir is the state directory for the file backend (empty = ~/.loom/state)
	Dir string `toml:"dir" json:"dir"`
	// SQLitePath is the database path for the sqlite backend (empty = ~/.loom/loom.db)
	SQLitePath string `toml:"sqlite_path" json:"sqlite_path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		UI: UIConfig{
			Theme:            "dark",
			CompactMode:      false,
			SidebarCollapsed: false,
			ShowSuggestions:  true,
		},

		Workflow: WorkflowConfig{
			StageIntervalMS: 1000,
		},

		Chat: ChatConfig{
			ResponderMode:      "stub",
			ServerURL:          "http://127.0.0.1:8098",
			StubDelayMS:        3000,
			RequestTimeoutSecs: 60,
		},

		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8098,
			LatencyMS:           1000,
			RateLimitRPS:        5,
			RateLimitBurst:      10,
			ShutdownTimeoutSecs: 5,
		},

		Storage: StorageConfig{
			Backend: "file",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the loom configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".loom"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Try JSON as fallback
	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.Workflow.StageIntervalMS == 0 {
		cfg.Workflow.StageIntervalMS = defaults.Workflow.StageIntervalMS
	}

	if cfg.Chat.ResponderMode == "" {
		cfg.Chat.ResponderMode = defaults.Chat.ResponderMode
	}
	if cfg.Chat.ServerURL == "" {
		cfg.Chat.ServerURL = defaults.Chat.ServerURL
	}
	if cfg.Chat.StubDelayMS == 0 {
		cfg.Chat.StubDelayMS = defaults.Chat.StubDelayMS
	}
	if cfg.Chat.RequestTimeoutSecs == 0 {
		cfg.Chat.RequestTimeoutSecs = defaults.Chat.RequestTimeoutSecs
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = defaults.Server.RateLimitBurst
	}
	if cfg.Server.ShutdownTimeoutSecs == 0 {
		cfg.Server.ShutdownTimeoutSecs = defaults.Server.ShutdownTimeoutSecs
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML config file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# loom configuration file")
	fmt.Fprintln(file, "# Generated by loom - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration, clamping soft ranges and
// returning errors for values that cannot be fixed up.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Stage interval is clamped to 500ms-1s, not rejected.
	if c.Workflow.StageIntervalMS < 500 {
		c.Workflow.StageIntervalMS = 500
	}
	if c.Workflow.StageIntervalMS > 1000 {
		c.Workflow.StageIntervalMS = 1000
	}

	validModes := map[string]bool{"stub": true, "http": true}
	if !validModes[strings.ToLower(c.Chat.ResponderMode)] {
		errs = append(errs, ValidationError{
			Field:   "chat.responder_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: stub, http", c.Chat.ResponderMode),
		})
	}
	if c.Chat.StubDelayMS < 0 {
		c.Chat.StubDelayMS = 0
	}
	if c.Chat.StubDelayMS > 30000 {
		c.Chat.StubDelayMS = 30000
	}
	if c.Chat.RequestTimeoutSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "chat.request_timeout_secs",
			Message: "must be at least 1",
		})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("invalid port %d, must be 1-65535", c.Server.Port),
		})
	}
	if c.Server.LatencyMS < 0 {
		c.Server.LatencyMS = 0
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_rps",
			Message: "cannot be negative",
		})
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "memory": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - LOOM_THEME: overrides ui.theme
//   - LOOM_MODE: overrides chat.responder_mode
//   - LOOM_SERVER_URL: overrides chat.server_url
//   - LOOM_PORT: overrides server.port
//   - LOOM_BACKEND: overrides storage.backend
//   - LOOM_STATE_DIR: overrides storage.dir
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("LOOM_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if mode := os.Getenv("LOOM_MODE"); mode != "" {
		c.Chat.ResponderMode = mode
	}

	if url := os.Getenv("LOOM_SERVER_URL"); url != "" {
		c.Chat.ServerURL = url
	}

	if port := os.Getenv("LOOM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if backend := os.Getenv("LOOM_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}

	if dir := os.Getenv("LOOM_STATE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
}

// =============================================================================
// UTILITIES
// =============================================================================

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Addr returns the server's listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + util.IntToString(s.Port)
}
