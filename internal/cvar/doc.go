// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cvar implements console variables.
//
// A CVar has a type, a canonical string value, and a default fixed at
// construction. Setting a value whose canonical form equals the default
// returns the variable to the default state. Change delegates run in
// registration order and may remove themselves or each other while a
// notification is in flight.
//
// # Usage
//
//	volume := cvar.NewFloat("snd_volume", 0.8, cvar.WithRange(0, 1))
//	h := volume.AddDelegate(func(v *cvar.CVar) {
//	    mixer.SetVolume(v.FloatValue())
//	})
//	_ = volume.SetValue("0.5")
//	volume.RemoveDelegate(h)
package cvar
