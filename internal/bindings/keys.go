// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bindings

import (
	"fmt"
	"strings"
)

// =============================================================================
// KEY CODES
// =============================================================================

// KeyCode identifies a physical key.
type KeyCode int

const (
	KeyNone KeyCode = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyMinus
	KeyEquals
	KeyBackquote

	KeyLeftShift
	KeyRightShift
	KeyLeftCtrl
	KeyRightCtrl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftCommand
	KeyRightCommand
)

var keyNames = map[KeyCode]string{
	KeySpace:        "space",
	KeyEnter:        "enter",
	KeyEscape:       "escape",
	KeyTab:          "tab",
	KeyBackspace:    "backspace",
	KeyUp:           "up",
	KeyDown:         "down",
	KeyLeft:         "left",
	KeyRight:        "right",
	KeyHome:         "home",
	KeyEnd:          "end",
	KeyPageUp:       "pageup",
	KeyPageDown:     "pagedown",
	KeyInsert:       "insert",
	KeyDelete:       "delete",
	KeyMinus:        "minus",
	KeyEquals:       "equals",
	KeyBackquote:    "backquote",
	KeyLeftShift:    "leftshift",
	KeyRightShift:   "rightshift",
	KeyLeftCtrl:     "leftctrl",
	KeyRightCtrl:    "rightctrl",
	KeyLeftAlt:      "leftalt",
	KeyRightAlt:     "rightalt",
	KeyLeftCommand:  "leftcmd",
	KeyRightCommand: "rightcmd",
}

var keyCodes = map[string]KeyCode{
	"return": KeyEnter,
	"esc":    KeyEscape,
	"`":      KeyBackquote,
	"-":      KeyMinus,
	"=":      KeyEquals,
	"pgup":   KeyPageUp,
	"pgdn":   KeyPageDown,
	"del":    KeyDelete,
	"ins":    KeyInsert,
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('a' + int(k-KeyA)))
	}
	for k := Key0; k <= Key9; k++ {
		keyNames[k] = string(rune('0' + int(k-Key0)))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	for k, name := range keyNames {
		keyCodes[name] = k
	}
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key%d", int(k))
}

// KeyNames returns every canonical key name.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for _, name := range keyNames {
		names = append(names, name)
	}
	return names
}

// modifier returns the modifier bit a modifier key produces.
func (k KeyCode) modifier() Modifiers {
	switch k {
	case KeyLeftShift, KeyRightShift:
		return ModShift
	case KeyLeftCtrl, KeyRightCtrl:
		return ModCtrl
	case KeyLeftAlt, KeyRightAlt:
		return ModAlt
	case KeyLeftCommand, KeyRightCommand:
		return ModCommand
	}
	return 0
}

// =============================================================================
// MODIFIERS
// =============================================================================

// Modifiers is a set of modifier keys. A binding matches only when the held
// modifiers equal its set exactly.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModCommand
)

var modifierNames = []struct {
	mod   Modifiers
	name  string
	left  KeyCode
	right KeyCode
}{
	{ModCtrl, "ctrl", KeyLeftCtrl, KeyRightCtrl},
	{ModAlt, "alt", KeyLeftAlt, KeyRightAlt},
	{ModShift, "shift", KeyLeftShift, KeyRightShift},
	{ModCommand, "cmd", KeyLeftCommand, KeyRightCommand},
}

var modifierAliases = map[string]Modifiers{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"cmd":     ModCommand,
	"command": ModCommand,
	"meta":    ModCommand,
	"super":   ModCommand,
}

func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// =============================================================================
// KEY SPECS
// =============================================================================

// UnknownKeyError reports a key spec that names no key or modifier.
type UnknownKeyError struct {
	Spec string
	Part string
}

func (e *UnknownKeyError) Error() string {
	if e.Part == e.Spec {
		return fmt.Sprintf("unknown key %q", e.Spec)
	}
	return fmt.Sprintf("unknown key %q in %q", e.Part, e.Spec)
}

// ParseKey parses a spec such as "t", "f5" or "ctrl+shift+t".
func ParseKey(spec string) (KeyCode, Modifiers, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")

	var mods Modifiers
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[part]
		if !ok {
			return KeyNone, 0, &UnknownKeyError{Spec: spec, Part: part}
		}
		mods |= mod
	}

	last := parts[len(parts)-1]
	key, ok := keyCodes[last]
	if !ok {
		return KeyNone, 0, &UnknownKeyError{Spec: spec, Part: last}
	}
	return key, mods, nil
}

// FormatKey renders a key and modifiers in the form ParseKey reads.
func FormatKey(key KeyCode, mods Modifiers) string {
	if mods == 0 {
		return key.String()
	}
	return mods.String() + "+" + key.String()
}
