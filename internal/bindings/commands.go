// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bindings

import (
	"github.com/jeranaias/devconsole/internal/commands"
)

// =============================================================================
// CONSOLE COMMANDS
// =============================================================================

func (t *Table) registerCommands(r *commands.Registry) {
	keyValues := func() []string { return KeyNames() }

	r.Register(&commands.Command{
		Name:        "bind",
		Description: "Bind a key to a command line, or show a binding",
		Options: []commands.OptionDescriptor{{
			Name:        "up",
			ShortName:   "u",
			Kind:        commands.KindString,
			Description: "command line to run when the key is released",
		}},
		ValuesFunc: keyValues,
		Signatures: []commands.Signature{
			commands.Sig(t.handleBindShow, commands.Arg("key", commands.ArgString)),
			commands.Sig(t.handleBind,
				commands.Arg("key", commands.ArgString),
				commands.Arg("command", commands.ArgString),
				commands.RestArgs("args", commands.ArgString)),
		},
		Owner: t,
	})

	r.Register(&commands.Command{
		Name:        "unbind",
		Description: "Remove a key binding",
		ValuesFunc:  t.boundSpecs,
		Signatures:  []commands.Signature{commands.Sig(t.handleUnbind, commands.Arg("key", commands.ArgString))},
		Owner:       t,
	})

	r.Register(&commands.Command{
		Name:        "bindlist",
		Description: "List key bindings",
		Signatures:  []commands.Signature{commands.Sig(commands.Action(t.handleBindList), commands.OptionalArg("prefix", commands.ArgString))},
		Owner:       t,
	})

	r.Register(&commands.Command{
		Name:        "unbindall",
		Description: "Remove every key binding",
		Signatures:  []commands.Signature{commands.Sig(commands.Action(t.handleUnbindAll))},
		Owner:       t,
	})
}

func (t *Table) boundSpecs() []string {
	var specs []string
	for _, b := range t.List("") {
		specs = append(specs, b.Spec())
	}
	return specs
}

func (t *Table) handleBindShow(ctx *commands.Context) bool {
	key, _, err := ParseKey(ctx.String(0))
	if err != nil {
		return ctx.Error(err)
	}
	b, ok := t.Find(key)
	if !ok {
		ctx.Printf("%s is not bound", key)
		return true
	}
	ctx.Println(bindLine(b))
	return true
}

func (t *Table) handleBind(ctx *commands.Context) bool {
	key, mods, err := ParseKey(ctx.String(0))
	if err != nil {
		return ctx.Error(err)
	}

	// A single token is the line itself; several are re-joined.
	down := ctx.Args[1]
	if len(ctx.Args) > 2 {
		down = commands.JoinTokens(ctx.Args[1:])
	}

	t.Bind(key, mods, down, ctx.Options.String("up"))
	ctx.Notify(commands.NotifyBindingsChanged, map[string]any{commands.KeyName: FormatKey(key, mods)})
	return true
}

func (t *Table) handleUnbind(ctx *commands.Context) bool {
	key, _, err := ParseKey(ctx.String(0))
	if err != nil {
		return ctx.Error(err)
	}
	if !t.Unbind(key) {
		return ctx.Errorf("%s is not bound", key)
	}
	ctx.Notify(commands.NotifyBindingsChanged, map[string]any{commands.KeyName: key.String()})
	return true
}

func (t *Table) handleBindList(ctx *commands.Context) {
	for _, b := range t.List(ctx.StringOr(0, "")) {
		if b.Up != "" && holdName(b.Down) == "" {
			ctx.Printf("%s %s (up %s)", b.Spec(), commands.QuoteToken(b.Down), commands.QuoteToken(b.Up))
			continue
		}
		ctx.Printf("%s %s", b.Spec(), commands.QuoteToken(b.Down))
	}
}

func (t *Table) handleUnbindAll(ctx *commands.Context) {
	if t.UnbindAll() > 0 {
		ctx.Notify(commands.NotifyBindingsChanged, nil)
	}
}
