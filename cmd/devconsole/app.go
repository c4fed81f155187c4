// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"

	"github.com/jeranaias/devconsole/internal/bindings"
	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/config"
	"github.com/jeranaias/devconsole/internal/cvar"
	"github.com/jeranaias/devconsole/internal/history"
	"github.com/jeranaias/devconsole/internal/terminal"
)

// tickInterval is how often bindings, autosave and the watcher are serviced
// while the prompt waits for input.
const tickInterval = 50 * time.Millisecond

// appIO is where the console writes and how it sizes output.
type appIO struct {
	out     io.Writer
	profile termenv.Profile
	width   func() int
}

// app wires a processor to its host collaborators. The processor is not
// safe for concurrent use, so every call into it holds mu.
type app struct {
	mu sync.Mutex

	settings *config.Settings
	logger   *log.Logger
	console  *terminal.Console
	proc     *commands.Processor
	input    *bindings.VirtualInput
	table    *bindings.Table
	store    *config.FileStore

	// Optional, nil when disabled
	autosaver *config.AutoSaver
	watcher   *config.Watcher
	history   *history.Store

	// Set by quit, possibly from a key binding on the tick goroutine
	quit atomic.Bool
}

func newApp(settings *config.Settings, aio appIO, logger *log.Logger) (*app, error) {
	dir, err := settings.ResolveConfigDir()
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settings,
		logger:   logger,
		store:    config.NewFileStore(dir),
		input:    bindings.NewVirtualInput(),
	}

	a.console = terminal.New(aio.out,
		terminal.WithProfile(aio.profile),
		terminal.WithPromptEcho(settings.PromptEcho),
		terminal.WithWidth(aio.width),
		terminal.WithLogger(logger),
	)
	a.proc = commands.NewProcessor(commands.NewRegistry(), a.console,
		commands.WithLogger(logger),
		commands.WithConfigStore(a.store),
		commands.WithConfigName(settings.ConfigName),
		commands.WithDebugMode(settings.DebugMode),
	)
	a.table = bindings.NewTable(a.proc, a.input, bindings.WithLogger(logger))
	bindings.RegisterInputCommands(a.proc.Registry(), a.input)
	config.RegisterCommands(a.proc.Registry(), settings)
	a.registerHostCommands()

	if settings.HistoryEnabled {
		path, err := settings.ResolveHistoryPath()
		if err != nil {
			return nil, err
		}
		a.history, err = history.Open(path, history.WithLimit(settings.HistoryLimit), history.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		history.RegisterCommands(a.proc.Registry(), a.history)
	}

	if err := a.proc.ExecConfig(settings.ConfigName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.console.LogError(err, "startup config")
	}

	// Created after the startup exec so replayed lines can't schedule a save
	if settings.Autosave {
		a.autosaver = config.NewAutoSaver(a.proc,
			settings.AutosaveDelay.Duration,
			settings.AutosaveMinInterval.Duration,
			config.WithAutoSaveLogger(logger))
		a.console.AddObserver(a.autosaver.Observe)
	}

	if settings.WatchConfig {
		a.watcher, err = config.NewWatcher(a.store, config.WithWatcherLogger(logger))
		if err == nil {
			err = a.watcher.Watch()
		}
		if err != nil {
			a.logger.Warn("WATCH_DISABLED", "err", err)
			a.watcher = nil
		}
	}

	a.logger.Debug("CONSOLE_READY", "config_dir", dir, "config", settings.ConfigName)
	return a, nil
}

// registerHostCommands adds the variables and commands only a host can
// serve.
func (a *app) registerHostCommands() {
	r := a.proc.Registry()

	developer := cvar.NewBool("developer", a.settings.DebugMode,
		cvar.WithFlags(cvar.FlagNoArchive),
		cvar.WithDescription("Show debug commands and variables"))
	developer.AddDelegate(func(v *cvar.CVar) { a.proc.SetDebugMode(v.BoolValue()) })
	r.RegisterVar(developer)

	echo := cvar.NewBool("con_echo", a.settings.PromptEcho,
		cvar.WithDescription("Echo typed lines to the console"))
	echo.AddDelegate(func(v *cvar.CVar) { a.console.SetPromptEcho(v.BoolValue()) })
	r.RegisterVar(echo)

	quit := commands.Sig(commands.Action(func(*commands.Context) { a.quit.Store(true) }))
	for _, name := range []string{"quit", "exit"} {
		r.Register(&commands.Command{
			Name:        name,
			Description: "Leave the console",
			Signatures:  []commands.Signature{quit},
			Owner:       a,
		})
	}
}

// runLine executes one manually entered line and services the tick.
func (a *app) runLine(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ok := a.proc.TryExecute(line, true)
	if a.history != nil {
		if err := a.history.Add(line, ok); err != nil {
			a.logger.Warn("HISTORY_ADD_FAILED", "err", err)
		}
	}
	a.tickLocked(time.Now())
}

func (a *app) tick(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tickLocked(now)
}

func (a *app) tickLocked(now time.Time) {
	a.table.Update()
	a.input.EndTick()

	if a.watcher != nil {
	drain:
		for {
			select {
			case name := <-a.watcher.Changes():
				if !strings.EqualFold(name, a.proc.ConfigName()) {
					continue
				}
				a.logger.Info("CONFIG_RELOAD", "name", name)
				if err := a.proc.ExecConfig(name); err != nil {
					a.console.LogError(err, "reload")
				}
			default:
				break drain
			}
		}
	}

	if a.autosaver != nil {
		if _, err := a.autosaver.Tick(now); err != nil {
			a.console.LogError(err, "autosave")
		}
	}
}

// completeLine returns the full-line candidates for a tab press.
func (a *app) completeLine(line string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := a.proc.AutoComplete(line, true)
	if len(res.Candidates) == 0 {
		if res.Completed {
			return []string{res.Line}
		}
		return nil
	}

	current := line[commands.LastCommandStart(line):]
	base := line[:len(line)-len(commands.AutoCompleteToken(current))]
	lines := make([]string, len(res.Candidates))
	for i, c := range res.Candidates {
		lines[i] = base + commands.QuoteToken(c) + " "
	}
	return lines
}

// runScript executes lines from r until EOF, quit or cancellation.
func (a *app) runScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for !a.quit.Load() && scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		a.runLine(scanner.Text())
	}
	return scanner.Err()
}

// runInteractive runs the prompt loop with line editing, history and tab
// completion. Ticks keep running while the prompt waits.
func (a *app) runInteractive(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(a.completeLine)

	if a.history != nil {
		if lines, err := a.history.Lines(a.settings.HistoryLimit); err == nil {
			for _, l := range lines {
				line.AppendHistory(l)
			}
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				a.tick(now)
			}
		}
	}()

	prompt := a.settings.Prompt
	for !a.quit.Load() {
		input, err := line.Prompt(prompt)
		if err != nil {
			// Ctrl+C, Ctrl+D or a closed terminal all end the session
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				return fmt.Errorf("read input: %w", err)
			}
			a.console.LogTerminal("")
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		a.runLine(input)
	}
	return nil
}

// Close flushes a pending autosave and releases resources.
func (a *app) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.autosaver != nil {
		errs = append(errs, a.autosaver.Flush())
	}
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	return errors.Join(errs...)
}
