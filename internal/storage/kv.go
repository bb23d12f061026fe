// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence port for loom.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/morganforge/loom/internal/util"
)

// =============================================================================
// STORAGE KEYS
// =============================================================================

// Fixed keys for the two persisted snapshots. Each store owns one blob;
// the contents are opaque JSON written and reloaded verbatim.
const (
	KeyChats    = "chat-storage"
	KeySettings = "settings-storage"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnavailable is returned when the backing store cannot be read or
// written. Callers degrade to in-memory operation rather than failing.
var ErrUnavailable = errors.New("storage unavailable")

// =============================================================================
// KV PORT
// =============================================================================

// KV is the persistence port: an opaque snapshot per key.
// Implementations must be safe for concurrent use.
type KV interface {
	// Get returns the blob for key. The second return is false when the
	// key has never been written (which is not an error).
	Get(key string) ([]byte, bool, error)

	// Set writes the blob for key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileKV stores each key as one JSON file under a base directory,
// written atomically so a crash never leaves a torn snapshot.
type FileKV struct {
	baseDir string
	mu      sync.Mutex
}

// NewFileKV creates a file-backed store rooted at baseDir.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &FileKV{baseDir: baseDir}, nil
}

// DefaultDir returns the default storage directory, ~/.loom/state.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".loom", "state"), nil
}

func (s *FileKV) path(key string) string {
	// Keys are fixed constants, but sanitize anyway so a stray separator
	// cannot escape the base directory.
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.baseDir, key+".json")
}

// Get reads the blob for key.
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Join(ErrUnavailable, err)
	}
	return data, true, nil
}

// Set writes the blob for key atomically.
func (s *FileKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := util.AtomicWriteFile(s.path(key), value, 0644); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileKV) Close() error { return nil }

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryKV is a map-backed store used in tests and as the degraded mode
// when a durable backend is unavailable.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns the blob for key.
func (s *MemoryKV) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores a copy of the blob for key.
func (s *MemoryKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes the key.
func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryKV) Close() error { return nil }
