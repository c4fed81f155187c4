// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func noopCommand(name string, flags Flags) *Command {
	return &Command{
		Name:       name,
		Flags:      flags,
		Signatures: []Signature{Sig(Action(func(*Context) {}))},
	}
}

func commandNames(cmds []*Command) []string {
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.Name
	}
	return names
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"cmdlist", "cvarlist", "alias", "unalias", "aliaslist", "reset", "resetAll", "toggle", "exec", "writeconfig", "man", "echo", "clear"} {
		if r.FindCommand(name) == nil {
			t.Errorf("builtin %s not registered", name)
		}
	}
}

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	r := newEmptyRegistry()
	r.Register(noopCommand("Spawn", 0))
	r.RegisterVar(cvar.NewInt("SV_Gravity", 800))
	require.NoError(t, r.RegisterAlias("Go", "spawn"))

	require.NotNil(t, r.FindCommand("spawn"))
	require.NotNil(t, r.FindCommand("SPAWN"))
	require.NotNil(t, r.FindVar("sv_gravity"))
	require.NotNil(t, r.FindAlias("GO"))
	require.Nil(t, r.FindCommand("spawnx"))
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := newEmptyRegistry()
	first := noopCommand("dup", 0)
	second := noopCommand("DUP", 0)
	r.Register(first)
	r.Register(second)
	require.Same(t, second, r.FindCommand("dup"))
	require.Len(t, r.ListCommands("", ListOptions{All: true}), 1)

	v1 := cvar.NewInt("v", 1)
	v2 := cvar.NewInt("v", 2)
	r.RegisterVar(v1)
	r.RegisterVar(v2)
	require.Same(t, v2, r.FindVar("v"))

	require.NoError(t, r.RegisterAlias("a", "one"))
	require.NoError(t, r.RegisterAlias("a", "two"))
	require.Equal(t, "two", r.FindAlias("a").Expansion)
}

func TestRegistry_ListCommandsSortedAndFiltered(t *testing.T) {
	r := newEmptyRegistry()
	r.Register(noopCommand("zeta", 0))
	r.Register(noopCommand("Alpha", 0))
	r.Register(noopCommand("mid", 0))
	r.Register(noopCommand("hidden", FlagHidden))
	r.Register(noopCommand("sys", FlagSystem))
	r.Register(noopCommand("dbg", FlagDebug))
	r.Register(noopCommand("off", FlagDisabled))

	tests := []struct {
		name   string
		prefix string
		opts   ListOptions
		want   []string
	}{
		{"default", "", ListOptions{}, []string{"Alpha", "mid", "zeta"}},
		{"debug", "", ListOptions{Debug: true}, []string{"Alpha", "dbg", "mid", "zeta"}},
		{"all", "", ListOptions{All: true}, []string{"Alpha", "dbg", "hidden", "mid", "off", "sys", "zeta"}},
		{"prefix", "AL", ListOptions{}, []string{"Alpha"}},
		{"no match", "q", ListOptions{All: true}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, commandNames(r.ListCommands(tc.prefix, tc.opts)))
		})
	}
}

func TestRegistry_ListVars(t *testing.T) {
	r := newEmptyRegistry()
	r.RegisterVar(cvar.NewInt("r_width", 640))
	r.RegisterVar(cvar.NewInt("r_height", 480))
	r.RegisterVar(cvar.NewBool("r_debug", false, cvar.WithFlags(cvar.FlagDebug)))
	r.RegisterVar(cvar.NewBool("sys_tick", false, cvar.WithFlags(cvar.FlagSystem)))

	names := func(vars []*cvar.CVar) []string {
		out := make([]string, len(vars))
		for i, v := range vars {
			out[i] = v.Name()
		}
		return out
	}

	require.Equal(t, []string{"r_height", "r_width"}, names(r.ListVars("r_", ListOptions{})))
	require.Equal(t, []string{"r_debug", "r_height", "r_width"}, names(r.ListVars("R_", ListOptions{Debug: true})))
	require.Equal(t, []string{"r_debug", "r_height", "r_width", "sys_tick"}, names(r.ListVars("", ListOptions{All: true})))
}

func TestRegistry_Unregister(t *testing.T) {
	r := newEmptyRegistry()
	r.Register(noopCommand("a", 0))
	r.RegisterVar(cvar.NewInt("v", 0))
	require.NoError(t, r.RegisterAlias("al", "a"))

	require.True(t, r.Unregister("A"))
	require.False(t, r.Unregister("a"))
	require.True(t, r.UnregisterVar("V"))
	require.False(t, r.UnregisterVar("v"))
	require.True(t, r.Unalias("AL"))
	require.False(t, r.Unalias("al"))
}

func TestRegistry_UnregisterAll(t *testing.T) {
	type plugin struct{ name string }
	mine := &plugin{"mine"}
	theirs := &plugin{"theirs"}

	r := newEmptyRegistry()
	for _, name := range []string{"m1", "m2"} {
		cmd := noopCommand(name, 0)
		cmd.Owner = mine
		r.Register(cmd)
	}
	other := noopCommand("t1", 0)
	other.Owner = theirs
	r.Register(other)
	r.Register(noopCommand("free", 0))

	require.Equal(t, 2, r.UnregisterAll(mine))
	require.Equal(t, []string{"free", "t1"}, commandNames(r.ListCommands("", ListOptions{All: true})))
	require.Equal(t, 0, r.UnregisterAll(nil))
}

func TestRegistry_ClearAndBuiltins(t *testing.T) {
	r := NewRegistry()
	r.RegisterVar(cvar.NewInt("v", 0))
	require.NoError(t, r.RegisterAlias("a", "echo"))

	r.Clear()
	require.Empty(t, r.ListCommands("", ListOptions{All: true}))
	require.Empty(t, r.ListVars("", ListOptions{All: true}))
	require.Empty(t, r.ListAliases(""))

	r.RegisterBuiltins()
	require.NotNil(t, r.FindCommand("echo"))
	require.Greater(t, r.UnregisterAll(BuiltinOwner), 10)
}

func TestRegistry_InvalidAliasName(t *testing.T) {
	r := newEmptyRegistry()
	require.Error(t, r.RegisterAlias("", "x"))
	require.Error(t, r.RegisterAlias("two words", "x"))
}

func TestRegistry_MutationDuringListing(t *testing.T) {
	r := newEmptyRegistry()
	for _, name := range []string{"a", "b", "c"} {
		r.Register(noopCommand(name, 0))
	}

	var seen []string
	for _, cmd := range r.ListCommands("", ListOptions{}) {
		seen = append(seen, cmd.Name)
		r.Unregister("c")
		r.Register(noopCommand("d", 0))
	}
	require.Equal(t, []string{"a", "b", "c"}, seen)
	require.Equal(t, []string{"a", "b", "d"}, commandNames(r.ListCommands("", ListOptions{})))
}
