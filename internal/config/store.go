// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/devconsole/internal/util"
)

// DefaultExtension is appended to config names without one.
const DefaultExtension = ".cfg"

// ErrInvalidConfigName is returned for names that would leave the config
// directory.
var ErrInvalidConfigName = errors.New("invalid config name")

// FileStore keeps console config files in a directory. It implements
// commands.ConfigStore.
type FileStore struct {
	dir string

	mu      sync.Mutex
	written map[string][sha256.Size]byte
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, written: make(map[string][sha256.Size]byte)}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file path of a config name, adding DefaultExtension when
// the name has none.
func (s *FileStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidConfigName, name)
	}
	if filepath.Ext(name) == "" {
		name += DefaultExtension
	}
	return filepath.Join(s.dir, name), nil
}

// ReadText implements commands.ConfigStore.
func (s *FileStore) ReadText(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText implements commands.ConfigStore. Writes are atomic.
func (s *FileStore) WriteText(name, text string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, []byte(text), 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.written[path] = sha256.Sum256([]byte(text))
	s.mu.Unlock()
	return nil
}

// WroteContent reports whether data is exactly what this store last wrote
// to path. The watcher uses it to skip its own writes.
func (s *FileStore) WroteContent(path string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, ok := s.written[path]
	return ok && sum == sha256.Sum256(data)
}
