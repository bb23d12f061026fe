// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
)

// backends returns one fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	dir := t.TempDir()
	fileKV, err := NewFileKV(filepath.Join(dir, "file"))
	if err != nil {
		t.Fatalf("NewFileKV() error = %v", err)
	}
	sqliteKV, err := NewSQLiteKV(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}

	return map[string]KV{
		"file":   fileKV,
		"sqlite": sqliteKV,
		"memory": NewMemoryKV(),
	}
}

func TestKV_GetMissingKey(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			value, ok, err := kv.Get("never-written")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() ok = true for missing key")
			}
			if value != nil {
				t.Errorf("Get() value = %v, want nil", value)
			}
		})
	}
}

func TestKV_SetGetRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			blob := []byte(`{"chats":[{"id":"chat_1"}]}`)
			if err := kv.Set(KeyChats, blob); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, ok, err := kv.Get(KeyChats)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok {
				t.Fatal("Get() ok = false after Set")
			}
			if string(got) != string(blob) {
				t.Errorf("Get() = %q, want %q", got, blob)
			}
		})
	}
}

func TestKV_SetReplaces(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			kv.Set("k", []byte("first"))
			kv.Set("k", []byte("second"))

			got, _, _ := kv.Get("k")
			if string(got) != "second" {
				t.Errorf("Get() = %q, want %q", got, "second")
			}
		})
	}
}

func TestKV_Delete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			kv.Set("k", []byte("v"))
			if err := kv.Delete("k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, _ := kv.Get("k"); ok {
				t.Error("key still present after Delete")
			}

			// Deleting a missing key is a no-op
			if err := kv.Delete("k"); err != nil {
				t.Errorf("Delete() missing key error = %v", err)
			}
		})
	}
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	blob := []byte("abc")
	kv.Set("k", blob)
	blob[0] = 'z'

	got, _, _ := kv.Get("k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
}
