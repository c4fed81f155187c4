// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/devconsole/internal/commands"
)

// =============================================================================
// AUTOSAVE
// =============================================================================

// AutoSaver writes the active config after manual changes to cvars, aliases
// or bindings. A write happens once no change has been seen for the delay,
// and never more often than the minimum interval.
type AutoSaver struct {
	proc    *commands.Processor
	delay   time.Duration
	limiter *rate.Limiter
	logger  *log.Logger

	mu        sync.Mutex
	dirty     bool
	changedAt time.Time
	now       func() time.Time
}

// AutoSaveOption configures an AutoSaver.
type AutoSaveOption func(*AutoSaver)

// WithAutoSaveLogger sets the structured logger.
func WithAutoSaveLogger(logger *log.Logger) AutoSaveOption {
	return func(a *AutoSaver) { a.logger = logger }
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) AutoSaveOption {
	return func(a *AutoSaver) { a.now = now }
}

// NewAutoSaver creates an autosaver writing proc's active config.
func NewAutoSaver(proc *commands.Processor, delay, minInterval time.Duration, opts ...AutoSaveOption) *AutoSaver {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	a := &AutoSaver{
		proc:    proc,
		delay:   delay,
		limiter: rate.NewLimiter(limit, 1),
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Observe receives console notifications. Only manual changes mark the
// config dirty; lines replayed by exec or bindings don't.
func (a *AutoSaver) Observe(name string, data map[string]any) {
	switch name {
	case commands.NotifyCVarChanged, commands.NotifyAliasesChanged, commands.NotifyBindingsChanged:
	default:
		return
	}
	if manual, _ := data[commands.KeyManual].(bool); !manual {
		return
	}
	a.MarkDirty()
}

// MarkDirty schedules a write.
func (a *AutoSaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dirty = true
	a.changedAt = a.now()
}

// Pending reports whether a write is scheduled.
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Tick writes the config if it has been dirty for the delay and the rate
// limit allows. It returns true when a write happened.
func (a *AutoSaver) Tick(now time.Time) (bool, error) {
	a.mu.Lock()
	ready := a.dirty && now.Sub(a.changedAt) >= a.delay
	a.mu.Unlock()

	if !ready || !a.limiter.AllowN(now, 1) {
		return false, nil
	}
	return true, a.write()
}

// Flush writes the config now if a write is pending.
func (a *AutoSaver) Flush() error {
	if !a.Pending() {
		return nil
	}
	return a.write()
}

func (a *AutoSaver) write() error {
	if err := a.proc.WriteConfig(""); err != nil {
		a.logger.Warn("AUTOSAVE_FAILED", "config", a.proc.ConfigName(), "err", err)
		return err
	}

	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()

	a.logger.Debug("AUTOSAVE", "config", a.proc.ConfigName())
	return nil
}
