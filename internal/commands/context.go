// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Context is passed to a command handler for one invocation.
//
// Example handler:
//
//	func handleGive(ctx *commands.Context) bool {
//	    item := ctx.String(0)
//	    count := 1
//	    if ctx.Has(1) {
//	        count = ctx.Int(1)
//	    }
//	    if count <= 0 {
//	        return ctx.Errorf("count must be positive")
//	    }
//	    ctx.Printf("gave %d x %s", count, item)
//	    return true
//	}
type Context struct {
	// Command is the command being run
	Command *Command

	// Processor runs nested command lines and owns the delegate
	Processor *Processor

	// Registry is the processor's registry
	Registry *Registry

	// Options holds the bound --name/-s options
	Options *Options

	// Args are the raw positional tokens after option binding
	Args []string

	// Manual is true for direct user input and false for replayed lines
	Manual bool

	values []any
}

// NumArgs returns the number of positional arguments.
func (c *Context) NumArgs() int { return len(c.values) }

// Has reports whether positional argument i was supplied.
func (c *Context) Has(i int) bool { return i >= 0 && i < len(c.values) }

func (c *Context) value(i int) any {
	if !c.Has(i) {
		panic(fmt.Sprintf("%s: argument %d out of range (%d supplied)", c.Command.Name, i, len(c.values)))
	}
	return c.values[i]
}

// String returns argument i. It panics if i is out of range or the matched
// parameter is not a string; both are handler bugs.
func (c *Context) String(i int) string { return c.value(i).(string) }

// StringOr returns argument i, or def if it was not supplied.
func (c *Context) StringOr(i int, def string) string {
	if !c.Has(i) {
		return def
	}
	return c.String(i)
}

func (c *Context) Int(i int) int { return c.value(i).(int) }

func (c *Context) Float(i int) float64 { return c.value(i).(float64) }

func (c *Context) Bool(i int) bool { return c.value(i).(bool) }

func (c *Context) Vector2(i int) cvar.Vector2 { return c.value(i).(cvar.Vector2) }

func (c *Context) Vector3(i int) cvar.Vector3 { return c.value(i).(cvar.Vector3) }

func (c *Context) Vector4(i int) cvar.Vector4 { return c.value(i).(cvar.Vector4) }

// Rest returns the raw tokens from index i on, for variadic parameters.
func (c *Context) Rest(i int) []string {
	if i >= len(c.Args) {
		return nil
	}
	return c.Args[i:]
}

// =============================================================================
// OUTPUT
// =============================================================================

// Println writes one line to the terminal.
func (c *Context) Println(s string) { c.Processor.delegate.LogTerminal(s) }

// Printf writes a formatted line to the terminal.
func (c *Context) Printf(format string, args ...any) {
	c.Processor.delegate.LogTerminal(fmt.Sprintf(format, args...))
}

// PrintTable writes a list of cells the delegate lays out in columns.
func (c *Context) PrintTable(cells []string) { c.Processor.delegate.LogTable(cells) }

// Error reports err to the terminal and returns false so handlers can write
// `return ctx.Error(err)`.
func (c *Context) Error(err error) bool {
	c.Processor.reportError(err)
	return false
}

// Errorf reports a formatted error and returns false.
func (c *Context) Errorf(format string, args ...any) bool {
	return c.Error(fmt.Errorf(format, args...))
}

// Execute runs line as a nested, non-manual command line.
func (c *Context) Execute(line string) bool {
	return c.Processor.TryExecute(line, false)
}

// Notify posts a notification carrying this invocation's manual flag.
func (c *Context) Notify(name string, data map[string]any) {
	c.Processor.postNotification(c.Command, name, c.Manual, data)
}
