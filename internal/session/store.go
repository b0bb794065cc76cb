// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides session-scoped persistence: the thread identity
// and the append-only message transcript.
//
// State lives in a flat key/value store. The file-backed implementation maps
// each key to one file under the session directory, so a transcript written
// here survives process restarts until the session is reset. Loss of either
// key is non-fatal: a new thread id is minted and an empty transcript shown.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/trends-tui/internal/util"
)

// Store is session-scoped key/value storage.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists each key as one file in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// Keys are fixed identifiers, but sanitize anyway so a hostile key
	// cannot escape the session directory.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe)
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key atomically.
func (s *FileStore) Set(key, value string) error {
	return util.AtomicWriteFile(s.path(key), []byte(value), 0600)
}

// Remove deletes key.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore is an in-memory Store for tests and storage-less contexts.
type MemoryStore struct {
	values map[string]string
	// FailWrites makes Set return an error, simulating unavailable storage.
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

var errStoreUnavailable = errors.New("session storage unavailable")

// Get returns the stored value for key.
func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	if m.FailWrites {
		return errStoreUnavailable
	}
	m.values[key] = value
	return nil
}

// Remove deletes key.
func (m *MemoryStore) Remove(key string) error {
	delete(m.values, key)
	return nil
}
