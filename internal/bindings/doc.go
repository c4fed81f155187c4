// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bindings maps keys to console command lines.
//
// A Table keeps at most one Binding per key code. Each tick the host calls
// Table.Update, which runs the down line of every binding whose key went down
// while the held modifiers match the binding exactly. The up line runs when
// that key is released, even if a modifier was let go first.
//
// Binding "+name" binds the hold pair "+name"/"-name", which set the boolean
// variable name while the key is held:
//
//	table := bindings.NewTable(proc, input)
//	proc.TryExecute("bind space +jump", true)
//	proc.TryExecute("bind ctrl+s writeconfig", true)
//
// VirtualInput is an Input for hosts without a keyboard source; the debug
// commands keydown and keyup drive it from the console.
package bindings
