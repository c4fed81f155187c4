// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// AUTOCOMPLETE TESTS
// =============================================================================

func newCompletionProcessor() *Processor {
	r := newEmptyRegistry()
	noop := Action(func(*Context) {})

	r.Register(&Command{
		Name: "spawn",
		Options: []OptionDescriptor{
			{Name: "kind", ShortName: "k", Kind: KindString, Values: []string{"crate", "barrel"}},
			{Name: "quiet", Kind: KindBool},
		},
		Values:     []string{"north", "south", "big crate"},
		Signatures: []Signature{Sig(noop, RestArgs("where", ArgString))},
	})
	r.Register(&Command{
		Name:       "spectate",
		ValuesFunc: func() []string { return []string{"player1", "player2"} },
		Signatures: []Signature{Sig(noop, OptionalArg("target", ArgString))},
	})
	r.Register(&Command{Name: "echo", Signatures: []Signature{Sig(noop, RestArgs("text", ArgString))}})
	r.Register(&Command{Name: "secret", Flags: FlagHidden, Signatures: []Signature{Sig(noop)}})
	r.RegisterVar(cvar.NewBool("sv_cheats", false))
	r.RegisterVar(cvar.NewInt("sv_gravity", 800))
	_ = r.RegisterAlias("quit_all", "echo bye")

	return NewProcessor(r, nil)
}

func TestAutoComplete(t *testing.T) {
	p := newCompletionProcessor()

	tests := []struct {
		name      string
		line      string
		wantLine  string
		completed bool
	}{
		{"unique command", "spa", "spawn ", true},
		{"case insensitive", "SPA", "spawn ", true},
		{"ambiguous keeps prefix", "sp", "sp", false},
		{"common prefix", "sv", "sv_", true},
		{"variable", "sv_c", "sv_cheats ", true},
		{"alias", "qu", "quit_all ", true},
		{"hidden excluded", "sec", "sec", false},
		{"no match", "zzz", "zzz", false},
		{"long option", "spawn --k", "spawn --kind ", true},
		{"option values", "spawn --kind b", "spawn --kind barrel ", true},
		{"short option values", "spawn -k c", "spawn -k crate ", true},
		{"command values", "spawn n", "spawn north ", true},
		{"quoted value", "spawn bi", `spawn "big crate" `, true},
		{"values func", "spectate player", "spectate player", false},
		{"values func unique", "spectate player2", "spectate player2 ", true},
		{"bool variable", "sv_cheats 1", "sv_cheats 1 ", true},
		{"last sub-command", "echo hi && spa", "echo hi && spawn ", true},
		{"unknown command args", "nothing ar", "nothing ar", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := p.AutoComplete(tc.line, false)
			if got.Line != tc.wantLine {
				t.Errorf("AutoComplete(%q).Line = %q, want %q", tc.line, got.Line, tc.wantLine)
			}
			if got.Completed != tc.completed {
				t.Errorf("AutoComplete(%q).Completed = %v, want %v", tc.line, got.Completed, tc.completed)
			}
			if got.Candidates != nil {
				t.Errorf("AutoComplete(%q) listed candidates without double tab", tc.line)
			}
		})
	}
}

func TestAutoComplete_DoubleTab(t *testing.T) {
	p := newCompletionProcessor()

	tests := []struct {
		line     string
		wantLine string
		want     []string
	}{
		{"sp", "sp", []string{"spawn", "spectate"}},
		{"sv_", "sv_", []string{"sv_cheats", "sv_gravity"}},
		{"spawn -", "spawn -", []string{"--kind", "--quiet", "-k"}},
		{"sv_cheats ", "sv_cheats ", []string{"0", "1"}},
		{"spectate ", "spectate player", []string{"player1", "player2"}},
	}

	for _, tc := range tests {
		got := p.AutoComplete(tc.line, true)
		if !equalTokens(got.Candidates, tc.want) {
			t.Errorf("AutoComplete(%q, true).Candidates = %q, want %q", tc.line, got.Candidates, tc.want)
		}
		if got.Line != tc.wantLine {
			t.Errorf("AutoComplete(%q, true).Line = %q, want %q", tc.line, got.Line, tc.wantLine)
		}
	}

	if got := p.AutoComplete("spa", true); got.Candidates != nil {
		t.Errorf("single match listed candidates: %q", got.Candidates)
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"Spawn", "spectate"}, "Sp"},
		{[]string{"abc"}, "abc"},
		{[]string{"abc", "abd", "ab"}, "ab"},
		{[]string{"x", "y"}, ""},
	}

	for _, tc := range tests {
		if got := commonPrefix(tc.values); got != tc.want {
			t.Errorf("commonPrefix(%q) = %q, want %q", tc.values, got, tc.want)
		}
	}
}
