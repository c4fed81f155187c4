// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bindings

import (
	"sync"

	"github.com/jeranaias/devconsole/internal/commands"
)

// =============================================================================
// INPUT SOURCE
// =============================================================================

// Input is polled once per tick by Table.Update.
type Input interface {
	// GetKeyDown reports whether key went down this tick
	GetKeyDown(key KeyCode) bool

	// GetKeyUp reports whether key went up this tick
	GetKeyUp(key KeyCode) bool

	// GetKey reports whether key is held
	GetKey(key KeyCode) bool
}

// CurrentModifiers returns the modifiers held according to in.
func CurrentModifiers(in Input) Modifiers {
	var mods Modifiers
	for _, mn := range modifierNames {
		if in.GetKey(mn.left) || in.GetKey(mn.right) {
			mods |= mn.mod
		}
	}
	return mods
}

// =============================================================================
// VIRTUAL INPUT
// =============================================================================

// VirtualInput is an Input driven by Press and Release calls, for hosts
// without a native key source. Transitions are visible until EndTick.
type VirtualInput struct {
	mu   sync.Mutex
	held map[KeyCode]bool
	down map[KeyCode]bool
	up   map[KeyCode]bool
}

// NewVirtualInput creates an input with no keys held.
func NewVirtualInput() *VirtualInput {
	return &VirtualInput{
		held: make(map[KeyCode]bool),
		down: make(map[KeyCode]bool),
		up:   make(map[KeyCode]bool),
	}
}

// Press marks key as held. Pressing a held key is a no-op.
func (v *VirtualInput) Press(key KeyCode) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.held[key] {
		return
	}
	v.held[key] = true
	v.down[key] = true
}

// Release marks key as released. Releasing a key that is not held is a no-op.
func (v *VirtualInput) Release(key KeyCode) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.held[key] {
		return
	}
	delete(v.held, key)
	v.up[key] = true
}

// PressSpec presses the modifier keys of a spec, then its key.
func (v *VirtualInput) PressSpec(key KeyCode, mods Modifiers) {
	for _, mn := range modifierNames {
		if mods&mn.mod != 0 {
			v.Press(mn.left)
		}
	}
	v.Press(key)
}

// ReleaseSpec releases the key of a spec, then its modifier keys.
func (v *VirtualInput) ReleaseSpec(key KeyCode, mods Modifiers) {
	v.Release(key)
	for _, mn := range modifierNames {
		if mods&mn.mod != 0 {
			v.Release(mn.left)
		}
	}
}

// EndTick clears this tick's transitions.
func (v *VirtualInput) EndTick() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.down = make(map[KeyCode]bool)
	v.up = make(map[KeyCode]bool)
}

func (v *VirtualInput) GetKeyDown(key KeyCode) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.down[key]
}

func (v *VirtualInput) GetKeyUp(key KeyCode) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.up[key]
}

func (v *VirtualInput) GetKey(key KeyCode) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.held[key]
}

// RegisterInputCommands adds the debug commands keydown and keyup, which
// drive in from the console.
func RegisterInputCommands(r *commands.Registry, in *VirtualInput) {
	keyValues := func() []string { return KeyNames() }

	r.Register(&commands.Command{
		Name:        "keydown",
		Description: "Press a virtual key, e.g. keydown ctrl+t",
		Flags:       commands.FlagDebug,
		ValuesFunc:  keyValues,
		Signatures: []commands.Signature{commands.Sig(func(ctx *commands.Context) bool {
			key, mods, err := ParseKey(ctx.String(0))
			if err != nil {
				return ctx.Error(err)
			}
			in.PressSpec(key, mods)
			return true
		}, commands.Arg("key", commands.ArgString))},
		Owner: in,
	})

	r.Register(&commands.Command{
		Name:        "keyup",
		Description: "Release a virtual key",
		Flags:       commands.FlagDebug,
		ValuesFunc:  keyValues,
		Signatures: []commands.Signature{commands.Sig(func(ctx *commands.Context) bool {
			key, mods, err := ParseKey(ctx.String(0))
			if err != nil {
				return ctx.Error(err)
			}
			in.ReleaseSpec(key, mods)
			return true
		}, commands.Arg("key", commands.ArgString))},
		Owner: in,
	})
}
