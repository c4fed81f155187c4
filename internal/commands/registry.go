// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// ALIAS
// =============================================================================

// Alias is a name that expands to a stored command line.
type Alias struct {
	Name      string
	Expansion string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the commands, variables and aliases known to a console.
// Names are matched case-insensitively. Listings return snapshots, so a
// handler may mutate the registry while walking one.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	vars     map[string]*cvar.CVar
	aliases  map[string]*Alias
}

// builtinOwner tags the commands added by RegisterBuiltins.
type builtinOwner struct{}

// BuiltinOwner is the Owner of every built-in command.
var BuiltinOwner any = &builtinOwner{}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := newEmptyRegistry()
	r.RegisterBuiltins()
	return r
}

func newEmptyRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		vars:     make(map[string]*cvar.CVar),
		aliases:  make(map[string]*Alias),
	}
}

// fold returns the lookup key for name. A cases.Caser keeps state, so one is
// built per call.
func fold(name string) string {
	return cases.Fold().String(name)
}

// Register adds a command, replacing any command with the same name.
// It panics on a malformed definition.
func (r *Registry) Register(cmd *Command) {
	cmd.validate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[fold(cmd.Name)] = cmd
}

// RegisterVar adds a variable, replacing any variable with the same name.
func (r *Registry) RegisterVar(v *cvar.CVar) {
	if v == nil {
		panic("commands: RegisterVar(nil)")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars[fold(v.Name())] = v
}

// RegisterAlias sets name to expand to expansion, replacing any previous
// expansion.
func (r *Registry) RegisterAlias(name, expansion string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\"'") {
		return fmt.Errorf("invalid alias name %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[fold(name)] = &Alias{Name: name, Expansion: expansion}
	return nil
}

// Unregister removes a command. It returns false if none was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fold(name)
	if _, ok := r.commands[key]; !ok {
		return false
	}
	delete(r.commands, key)
	return true
}

// UnregisterVar removes a variable. It returns false if none was registered.
func (r *Registry) UnregisterVar(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fold(name)
	if _, ok := r.vars[key]; !ok {
		return false
	}
	delete(r.vars, key)
	return true
}

// Unalias removes an alias. It returns false if none was registered.
func (r *Registry) Unalias(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fold(name)
	if _, ok := r.aliases[key]; !ok {
		return false
	}
	delete(r.aliases, key)
	return true
}

// UnregisterAll removes every command whose Owner equals owner and returns
// how many were removed.
func (r *Registry) UnregisterAll(owner any) int {
	if owner == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, cmd := range r.commands {
		if cmd.Owner == owner {
			delete(r.commands, key)
			removed++
		}
	}
	return removed
}

// Clear drops every command, variable and alias.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = make(map[string]*Command)
	r.vars = make(map[string]*cvar.CVar)
	r.aliases = make(map[string]*Alias)
}

// FindCommand looks up a command by name.
func (r *Registry) FindCommand(name string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[fold(name)]
}

// FindVar looks up a variable by name.
func (r *Registry) FindVar(name string) *cvar.CVar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vars[fold(name)]
}

// FindAlias looks up an alias by name.
func (r *Registry) FindAlias(name string) *Alias {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aliases[fold(name)]
}

// =============================================================================
// LISTING
// =============================================================================

// ListOptions selects which entries a listing includes.
type ListOptions struct {
	// All includes System, Hidden and Disabled entries
	All bool

	// Debug includes Debug entries
	Debug bool
}

func (o ListOptions) allowCommand(f Flags) bool {
	if o.All {
		return true
	}
	if f&(FlagSystem|FlagHidden|FlagDisabled) != 0 {
		return false
	}
	return o.Debug || f&FlagDebug == 0
}

func (o ListOptions) allowVar(f cvar.Flags) bool {
	if o.All {
		return true
	}
	if f&(cvar.FlagSystem|cvar.FlagHidden) != 0 {
		return false
	}
	return o.Debug || f&cvar.FlagDebug == 0
}

// ListCommands returns the commands whose names start with prefix, sorted by
// name.
func (r *Registry) ListCommands(prefix string, opts ListOptions) []*Command {
	p := fold(prefix)

	r.mu.RLock()
	var out []*Command
	for key, cmd := range r.commands {
		if strings.HasPrefix(key, p) && opts.allowCommand(cmd.Flags) {
			out = append(out, cmd)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return fold(out[i].Name) < fold(out[j].Name)
	})
	return out
}

// ListVars returns the variables whose names start with prefix, sorted by
// name.
func (r *Registry) ListVars(prefix string, opts ListOptions) []*cvar.CVar {
	p := fold(prefix)

	r.mu.RLock()
	var out []*cvar.CVar
	for key, v := range r.vars {
		if strings.HasPrefix(key, p) && opts.allowVar(v.Flags()) {
			out = append(out, v)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return fold(out[i].Name()) < fold(out[j].Name())
	})
	return out
}

// ListAliases returns the aliases whose names start with prefix, sorted by
// name.
func (r *Registry) ListAliases(prefix string) []Alias {
	p := fold(prefix)

	r.mu.RLock()
	var out []Alias
	for key, a := range r.aliases {
		if strings.HasPrefix(key, p) {
			out = append(out, *a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return fold(out[i].Name) < fold(out[j].Name)
	})
	return out
}
