// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bindings

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// BINDING
// =============================================================================

// Binding maps a key and an exact modifier set to command lines.
type Binding struct {
	Key       KeyCode
	Modifiers Modifiers

	// Down runs when the key goes down
	Down string

	// Up runs when the key goes up; empty for none
	Up string
}

// Spec returns the key spec, e.g. "ctrl+t".
func (b Binding) Spec() string { return FormatKey(b.Key, b.Modifiers) }

// holdName returns "foo" for the "+foo" convention, or "".
func holdName(line string) string {
	tokens := commands.Tokenize(line)
	if len(tokens) != 1 || len(tokens[0]) < 2 || tokens[0][0] != '+' {
		return ""
	}
	return tokens[0][1:]
}

// UnknownBooleanVarError reports a +name/-name hold command whose variable
// is missing or not boolean.
type UnknownBooleanVarError struct {
	Name string
}

func (e *UnknownBooleanVarError) Error() string {
	return fmt.Sprintf("%s is not a boolean variable", e.Name)
}

// =============================================================================
// TABLE
// =============================================================================

// Table holds the key bindings of a console, at most one per key code.
type Table struct {
	mu       sync.Mutex
	bindings map[KeyCode]*Binding

	// active holds keys whose down line ran and whose up line is owed
	active map[KeyCode]bool

	proc   *commands.Processor
	input  Input
	logger *log.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// NewTable creates a binding table that runs bound lines on proc when Update
// sees transitions on input. It registers the bind, unbind, bindlist and
// unbindall commands and adds a "bindings" section to written configs.
func NewTable(proc *commands.Processor, input Input, opts ...Option) *Table {
	t := &Table{
		bindings: make(map[KeyCode]*Binding),
		active:   make(map[KeyCode]bool),
		proc:     proc,
		input:    input,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.registerCommands(proc.Registry())
	proc.AddConfigSection(t)
	return t
}

// Bind maps key with exactly mods held to down and up, replacing any binding
// of key. A down line of the form "+name" with no up line binds the hold
// pair "+name" and "-name", which set the boolean variable name while the
// key is held.
func (t *Table) Bind(key KeyCode, mods Modifiers, down, up string) {
	if name := holdName(down); name != "" && up == "" {
		t.registerHold(name)
		down, up = "+"+name, "-"+name
	}

	t.mu.Lock()
	t.bindings[key] = &Binding{Key: key, Modifiers: mods, Down: down, Up: up}
	delete(t.active, key)
	t.mu.Unlock()

	t.logger.Debug("KEY_BOUND", "key", FormatKey(key, mods), "down", down, "up", up)
}

// Unbind removes the binding of key. It returns false if key was not bound.
func (t *Table) Unbind(key KeyCode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.bindings[key]; !ok {
		return false
	}
	delete(t.bindings, key)
	delete(t.active, key)
	return true
}

// UnbindAll removes every binding and returns how many there were.
func (t *Table) UnbindAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.bindings)
	t.bindings = make(map[KeyCode]*Binding)
	t.active = make(map[KeyCode]bool)
	return n
}

// Find returns the binding of key.
func (t *Table) Find(key KeyCode) (Binding, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.bindings[key]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// List returns the bindings whose spec starts with prefix, sorted by spec.
func (t *Table) List(prefix string) []Binding {
	prefix = strings.ToLower(prefix)

	t.mu.Lock()
	var out []Binding
	for _, b := range t.bindings {
		if strings.HasPrefix(b.Spec(), prefix) {
			out = append(out, *b)
		}
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Spec() < out[j].Spec() })
	return out
}

// Update runs the bound lines for this tick's key transitions. It is called
// once per tick by the host, before the input clears its transitions.
//
// A down line runs only when the held modifiers match the binding exactly.
// The up line runs on release of a key whose down line ran, whatever is
// held by then, so hold variables can't stick.
func (t *Table) Update() {
	if t.input == nil {
		return
	}
	held := CurrentModifiers(t.input)

	for _, b := range t.List("") {
		if t.input.GetKeyDown(b.Key) {
			// A modifier key doesn't count as its own modifier.
			if held&^b.Key.modifier() == b.Modifiers {
				t.setActive(b.Key, true)
				t.logger.Debug("KEY_DOWN", "key", b.Spec(), "line", b.Down)
				t.proc.TryExecute(b.Down, false)
			}
		}
		if t.input.GetKeyUp(b.Key) && t.setActive(b.Key, false) && b.Up != "" {
			t.logger.Debug("KEY_UP", "key", b.Spec(), "line", b.Up)
			t.proc.TryExecute(b.Up, false)
		}
	}
}

// setActive records whether key owes an up line and returns the previous
// state.
func (t *Table) setActive(key KeyCode, active bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	was := t.active[key]
	if active {
		t.active[key] = true
	} else {
		delete(t.active, key)
	}
	return was
}

// =============================================================================
// HOLD COMMANDS
// =============================================================================

// registerHold adds the +name and -name commands. The variable is looked up
// when the key is pressed, so it may be registered after binding.
func (t *Table) registerHold(name string) {
	reg := t.proc.Registry()
	if reg.FindCommand("+"+name) != nil {
		return
	}

	hold := func(value bool) commands.HandlerFunc {
		return func(ctx *commands.Context) bool {
			v := ctx.Registry.FindVar(name)
			if v == nil || v.Type() != cvar.Boolean {
				return ctx.Error(&UnknownBooleanVarError{Name: name})
			}
			v.SetBool(value)
			return true
		}
	}

	for _, c := range []struct {
		prefix string
		value  bool
	}{{"+", true}, {"-", false}} {
		reg.Register(&commands.Command{
			Name:        c.prefix + name,
			Description: fmt.Sprintf("Hold handler for %s", name),
			Flags:       commands.FlagSystem | commands.FlagHidden,
			Signatures:  []commands.Signature{commands.Sig(hold(c.value))},
			Owner:       t,
		})
	}
}

// =============================================================================
// CONFIG SECTION
// =============================================================================

// SectionName implements commands.ConfigSection.
func (t *Table) SectionName() string { return "bindings" }

// ConfigLines implements commands.ConfigSection.
func (t *Table) ConfigLines() []string {
	var lines []string
	for _, b := range t.List("") {
		lines = append(lines, bindLine(b))
	}
	return lines
}

func bindLine(b Binding) string {
	line := "bind "
	if b.Up != "" && holdName(b.Down) == "" {
		line += "--up " + commands.QuoteToken(b.Up) + " "
	}
	return line + b.Spec() + " " + commands.QuoteToken(b.Down)
}
