// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// RegisterBuiltins adds the standard console commands. They are owned by
// BuiltinOwner.
func (r *Registry) RegisterBuiltins() {
	allOption := OptionDescriptor{
		Name:        "all",
		ShortName:   "a",
		Kind:        KindBool,
		Description: "include system, hidden and disabled entries",
	}
	shortOption := OptionDescriptor{
		Name:        "short",
		ShortName:   "s",
		Kind:        KindBool,
		Description: "list names only",
	}

	// Listing
	r.Register(&Command{
		Name:        "cmdlist",
		Description: "List commands",
		Options:     []OptionDescriptor{allOption},
		Signatures:  []Signature{Sig(Action(handleCmdList), OptionalArg("prefix", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "cvarlist",
		Description: "List console variables",
		Options:     []OptionDescriptor{shortOption, allOption},
		Signatures:  []Signature{Sig(Action(handleCvarList), OptionalArg("prefix", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "man",
		Description: "Show help for a command, variable or alias",
		ValuesFunc:  r.allNames,
		Signatures:  []Signature{Sig(handleMan, Arg("name", ArgString))},
		Owner:       BuiltinOwner,
	})

	// Aliases
	r.Register(&Command{
		Name:        "alias",
		Description: "Create an alias or show its expansion",
		ValuesFunc:  r.aliasNames,
		Signatures: []Signature{
			Sig(handleAliasShow, Arg("name", ArgString)),
			Sig(handleAlias, Arg("name", ArgString), Arg("command", ArgString), RestArgs("args", ArgString)),
		},
		Owner: BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "unalias",
		Description: "Remove an alias",
		ValuesFunc:  r.aliasNames,
		Signatures:  []Signature{Sig(handleUnalias, Arg("name", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "aliaslist",
		Description: "List aliases",
		Options:     []OptionDescriptor{shortOption},
		Signatures:  []Signature{Sig(Action(handleAliasList), OptionalArg("prefix", ArgString))},
		Owner:       BuiltinOwner,
	})

	// Variables
	r.Register(&Command{
		Name:        "reset",
		Description: "Restore variables to their defaults",
		ValuesFunc:  r.varNames,
		Signatures:  []Signature{Sig(handleReset, Arg("name", ArgString), RestArgs("names", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "resetAll",
		Description: "Restore every variable to its default",
		Signatures:  []Signature{Sig(Action(handleResetAll))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "toggle",
		Description: "Flip a boolean variable",
		ValuesFunc:  r.boolVarNames,
		Signatures:  []Signature{Sig(handleToggle, Arg("name", ArgString))},
		Owner:       BuiltinOwner,
	})

	// Config
	r.Register(&Command{
		Name:        "exec",
		Description: "Run the command lines of a config file",
		Signatures:  []Signature{Sig(handleExec, Arg("file", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "writeconfig",
		Description: "Write variables, aliases and bindings to a config file",
		Signatures:  []Signature{Sig(handleWriteConfig, OptionalArg("file", ArgString))},
		Owner:       BuiltinOwner,
	})

	// Terminal
	r.Register(&Command{
		Name:        "echo",
		Description: "Print text",
		Signatures:  []Signature{Sig(Action(handleEcho), RestArgs("text", ArgString))},
		Owner:       BuiltinOwner,
	})

	r.Register(&Command{
		Name:        "clear",
		Description: "Clear the terminal",
		Signatures:  []Signature{Sig(Action(handleClear))},
		Owner:       BuiltinOwner,
	})
}

func (r *Registry) allNames() []string {
	var names []string
	for _, cmd := range r.ListCommands("", ListOptions{}) {
		names = append(names, cmd.Name)
	}
	names = append(names, r.varNames()...)
	return append(names, r.aliasNames()...)
}

func (r *Registry) varNames() []string {
	var names []string
	for _, v := range r.ListVars("", ListOptions{}) {
		names = append(names, v.Name())
	}
	return names
}

func (r *Registry) boolVarNames() []string {
	var names []string
	for _, v := range r.ListVars("", ListOptions{}) {
		if v.Type() == cvar.Boolean {
			names = append(names, v.Name())
		}
	}
	return names
}

func (r *Registry) aliasNames() []string {
	var names []string
	for _, a := range r.ListAliases("") {
		names = append(names, a.Name)
	}
	return names
}

// =============================================================================
// HANDLERS
// =============================================================================

func listOptions(ctx *Context) ListOptions {
	return ListOptions{
		All:   ctx.Options.Bool("all"),
		Debug: ctx.Processor.DebugMode(),
	}
}

func handleCmdList(ctx *Context) {
	cmds := ctx.Registry.ListCommands(ctx.StringOr(0, ""), listOptions(ctx))
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.Name
	}
	ctx.PrintTable(names)
}

func handleCvarList(ctx *Context) {
	vars := ctx.Registry.ListVars(ctx.StringOr(0, ""), listOptions(ctx))

	if ctx.Options.Bool("short") {
		names := make([]string, len(vars))
		for i, v := range vars {
			names[i] = v.Name()
		}
		ctx.PrintTable(names)
		return
	}

	for _, v := range vars {
		line := fmt.Sprintf("%s %s", v.Name(), QuoteToken(v.Value()))
		if !v.IsDefault() {
			line += fmt.Sprintf(" (default %s)", QuoteToken(v.DefaultValue()))
		}
		ctx.Println(line)
	}
}

func handleMan(ctx *Context) bool {
	name := ctx.String(0)

	if cmd := ctx.Registry.FindCommand(name); cmd != nil {
		if cmd.Description != "" {
			ctx.Println(cmd.Name + " - " + cmd.Description)
		}
		ctx.Println(Usage(cmd))
		return true
	}

	if v := ctx.Registry.FindVar(name); v != nil {
		ctx.Printf("%s (%s) is %s, default %s", v.Name(), v.Type(), QuoteToken(v.Value()), QuoteToken(v.DefaultValue()))
		if lo, hi, ok := v.Range(); ok {
			ctx.Printf("range: %s to %s", cvar.FormatFloat(lo), cvar.FormatFloat(hi))
		}
		if v.Description() != "" {
			ctx.Println(v.Description())
		}
		return true
	}

	if a := ctx.Registry.FindAlias(name); a != nil {
		ctx.Printf("alias %s %s", a.Name, QuoteToken(a.Expansion))
		return true
	}

	return ctx.Error(&CommandNotFoundError{Name: name})
}

func handleAliasShow(ctx *Context) bool {
	name := ctx.String(0)
	a := ctx.Registry.FindAlias(name)
	if a == nil {
		return ctx.Errorf("alias not found: %s", name)
	}
	ctx.Printf("%s is %s", a.Name, QuoteToken(a.Expansion))
	return true
}

func handleAlias(ctx *Context) bool {
	name := ctx.String(0)
	if ctx.Registry.FindCommand(name) != nil {
		return ctx.Errorf("can't alias %s: a command with that name exists", name)
	}
	if ctx.Registry.FindVar(name) != nil {
		return ctx.Errorf("can't alias %s: a variable with that name exists", name)
	}

	// A single token is the expansion itself; several are re-joined.
	expansion := ctx.Args[1]
	if len(ctx.Args) > 2 {
		expansion = JoinTokens(ctx.Args[1:])
	}

	if err := ctx.Registry.RegisterAlias(name, expansion); err != nil {
		return ctx.Error(err)
	}
	ctx.Notify(NotifyAliasesChanged, map[string]any{KeyName: name})
	return true
}

func handleUnalias(ctx *Context) bool {
	name := ctx.String(0)
	if !ctx.Registry.Unalias(name) {
		return ctx.Errorf("alias not found: %s", name)
	}
	ctx.Notify(NotifyAliasesChanged, map[string]any{KeyName: name})
	return true
}

func handleAliasList(ctx *Context) {
	aliases := ctx.Registry.ListAliases(ctx.StringOr(0, ""))

	if ctx.Options.Bool("short") {
		names := make([]string, len(aliases))
		for i, a := range aliases {
			names[i] = a.Name
		}
		ctx.PrintTable(names)
		return
	}

	for _, a := range aliases {
		ctx.Printf("%s %s", a.Name, QuoteToken(a.Expansion))
	}
}

func handleReset(ctx *Context) bool {
	for _, name := range ctx.Args {
		v := ctx.Registry.FindVar(name)
		if v == nil {
			return ctx.Errorf("variable not found: %s", name)
		}
		if v.Reset() {
			ctx.Notify(NotifyCVarChanged, map[string]any{KeyName: v.Name()})
		}
	}
	return true
}

func handleResetAll(ctx *Context) {
	for _, v := range ctx.Registry.ListVars("", ListOptions{All: true, Debug: true}) {
		if v.Reset() {
			ctx.Notify(NotifyCVarChanged, map[string]any{KeyName: v.Name()})
		}
	}
}

func handleToggle(ctx *Context) bool {
	name := ctx.String(0)
	v := ctx.Registry.FindVar(name)
	if v == nil {
		return ctx.Errorf("variable not found: %s", name)
	}
	if v.Type() != cvar.Boolean {
		return ctx.Errorf("%s is not a boolean variable", v.Name())
	}
	v.SetBool(!v.BoolValue())
	ctx.Notify(NotifyCVarChanged, map[string]any{KeyName: v.Name()})
	return true
}

func handleExec(ctx *Context) bool {
	if err := ctx.Processor.ExecConfig(ctx.String(0)); err != nil {
		return ctx.Error(err)
	}
	return true
}

func handleWriteConfig(ctx *Context) bool {
	name := ctx.StringOr(0, ctx.Processor.ConfigName())
	if err := ctx.Processor.WriteConfig(name); err != nil {
		return ctx.Error(err)
	}
	ctx.Printf("wrote %s", name)
	return true
}

func handleEcho(ctx *Context) {
	ctx.Println(strings.Join(ctx.Args, " "))
}

func handleClear(ctx *Context) {
	ctx.Processor.Delegate().ClearTerminal()
}
