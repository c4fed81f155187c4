// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reports config files changed on disk by something other than
// its FileStore. Changed names arrive on Changes, debounced, without the
// .cfg extension. The host drains them on its own goroutine and re-executes
// the configs it cares about.
type Watcher struct {
	store    *FileStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]time.Time

	changes chan string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the structured logger.
func WithWatcherLogger(logger *log.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce sets how long a file must be quiet before it is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for the directory of store.
func NewWatcher(store *FileStore, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: 250 * time.Millisecond,
		logger:   log.New(io.Discard),
		pending:  make(map[string]time.Time),
		changes:  make(chan string, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts watching. The config directory is created if missing; the
// directory is watched rather than single files so atomic replacements
// are seen.
func (w *Watcher) Watch() error {
	if err := os.MkdirAll(w.store.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir(), err)
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()

	w.logger.Debug("WATCH_START", "dir", w.store.Dir())
	return nil
}

// Changes returns the channel of changed config names.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(event.Name) != DefaultExtension {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("WATCH_ERROR", "err", err)
		}
	}
}

func (w *Watcher) processPending() {
	defer w.wg.Done()

	interval := min(w.debounce, 100*time.Millisecond)
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changedAt := range w.pending {
				if now.Sub(changedAt) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				w.report(path)
			}
		}
	}
}

func (w *Watcher) report(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Replaced or removed before we got to it
		return
	}
	if w.store.WroteContent(path, data) {
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), DefaultExtension)
	select {
	case w.changes <- name:
		w.logger.Debug("CONFIG_CHANGED", "name", name)
	default:
		w.logger.Warn("CONFIG_CHANGE_DROPPED", "name", name)
	}
}
