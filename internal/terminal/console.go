// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/util"
)

// =============================================================================
// CONSOLE
// =============================================================================

// Observer receives every notification the processor posts.
type Observer func(name string, data map[string]any)

// Console writes processor output to a terminal. It implements
// commands.Delegate.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	termOut   *termenv.Output
	styles    Styles
	plain     bool
	echo      bool
	width     func() int
	observers []Observer
	logger    *log.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithProfile sets the color profile. Ascii output is written unstyled.
func WithProfile(profile termenv.Profile) Option {
	return func(c *Console) {
		c.termOut = termenv.NewOutput(c.out, termenv.WithProfile(profile))
		c.styles = NewStyles(c.out, profile)
		c.plain = profile == termenv.Ascii
	}
}

// WithPromptEcho sets whether manual lines are echoed.
func WithPromptEcho(echo bool) Option {
	return func(c *Console) { c.echo = echo }
}

// WithWidth sets the source of the terminal width used for tables.
func WithWidth(width func() int) Option {
	return func(c *Console) { c.width = width }
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Console) { c.logger = logger }
}

// New creates a console writing to out, unstyled and DefaultWidth wide
// unless options say otherwise.
func New(out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:    out,
		echo:   true,
		width:  func() int { return DefaultWidth },
		logger: log.New(io.Discard),
	}
	WithProfile(termenv.Ascii)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Styles returns the console styles.
func (c *Console) Styles() Styles { return c.styles }

// Render applies style unless the console is plain.
func (c *Console) Render(style func(...string) string, text string) string {
	if c.plain {
		return text
	}
	return style(text)
}

// AddObserver registers o for every notification.
func (c *Console) AddObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// SetPromptEcho sets whether manual lines are echoed.
func (c *Console) SetPromptEcho(echo bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.echo = echo
}

func (c *Console) writeln(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// =============================================================================
// DELEGATE
// =============================================================================

func (c *Console) LogTerminal(line string) {
	if strings.HasPrefix(line, "> ") {
		line = c.Render(c.styles.Echo.Render, line)
	}
	c.writeln(line)
}

func (c *Console) LogTable(cells []string) {
	for _, row := range Columns(cells, c.width()) {
		c.writeln(row)
	}
}

func (c *Console) LogError(err error, message string) {
	text := "error: " + err.Error()
	if message != "" {
		text = "error: " + message + ": " + err.Error()
	}
	c.writeln(c.Render(c.styles.Error.Render, text))
}

func (c *Console) ClearTerminal() {
	if c.plain {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.termOut.ClearScreen()
}

func (c *Console) PostNotification(cmd *commands.Command, name string, data map[string]any) {
	source := ""
	if cmd != nil {
		source = cmd.Name
	}
	c.logger.Debug("NOTIFICATION", "name", name, "command", source, "data", data)

	c.mu.Lock()
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o(name, data)
	}
}

func (c *Console) IsPromptEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.echo
}

// =============================================================================
// TABLE LAYOUT
// =============================================================================

// Columns lays cells out row-major in as many equal-width columns as fit
// in width. Cells wider than width are truncated.
func Columns(cells []string, width int) []string {
	if len(cells) == 0 {
		return nil
	}
	width = max(width, MinWidth)

	colWidth := 0
	for _, cell := range cells {
		colWidth = max(colWidth, util.StringWidth(cell))
	}
	colWidth = min(colWidth+2, width)
	perRow := max(width/colWidth, 1)

	var rows []string
	for start := 0; start < len(cells); start += perRow {
		end := min(start+perRow, len(cells))
		var b strings.Builder
		for i, cell := range cells[start:end] {
			cell = util.TruncateWidth(cell, colWidth)
			if i < end-start-1 {
				cell = util.PadRight(cell, colWidth)
			}
			b.WriteString(cell)
		}
		rows = append(rows, b.String())
	}
	return rows
}
