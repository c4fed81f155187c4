// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
//
// This package tokenizes and splits console command lines, binds --name/-s
// options, resolves names against a registry of commands, variables and
// aliases, and runs &&-chained sub-commands with short-circuiting.
//
// # Key Types
//
//   - Registry: Commands, variables and aliases keyed by case-folded name
//   - Command: A named action with options and positional signatures
//   - Processor: Parses, dispatches and chains command lines
//   - Context: Per-invocation arguments and output helpers for handlers
//   - Delegate: Host boundary for terminal output and notifications
//
// # Built-in Commands
//
//   - cmdlist, cvarlist, aliaslist: Listings
//   - alias, unalias: Alias management
//   - reset, resetAll, toggle: Variable helpers
//   - exec, writeconfig: Config replay and persistence
//   - man, echo, clear: Terminal helpers
//
// # Usage
//
// Register a command and run a chained line:
//
//	registry := commands.NewRegistry()
//	registry.Register(&commands.Command{
//	    Name:       "spawn",
//	    Signatures: []commands.Signature{commands.Sig(handleSpawn, commands.Arg("kind", commands.ArgString))},
//	})
//	proc := commands.NewProcessor(registry, delegate)
//	proc.TryExecute("spawn crate && echo done", true)
//
// Complete a partial line:
//
//	result := proc.AutoComplete("cvarl", false)
//	// result.Line == "cvarlist "
package commands
