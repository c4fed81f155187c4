// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Flags control command visibility and availability.
type Flags uint8

const (
	// FlagHidden commands don't appear in listings
	FlagHidden Flags = 1 << iota
	// FlagSystem marks internal plumbing commands
	FlagSystem
	// FlagDebug commands are listed only in debug mode
	FlagDebug
	// FlagDisabled commands resolve but refuse to run
	FlagDisabled
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Command is a named console action with options and one or more
// positional-argument signatures.
type Command struct {
	// Name is the lookup key, matched case-insensitively
	Name string

	// Description is shown in listings and man
	Description string

	// Flags control visibility
	Flags Flags

	// Options are the --name/-s options accepted by every signature
	Options []OptionDescriptor

	// Values completes positional arguments
	Values []string

	// ValuesFunc completes positional arguments from live state
	ValuesFunc func() []string

	// Signatures are tried in order of arity fit, then declaration
	Signatures []Signature

	// Owner scopes UnregisterAll; it must be comparable (typically a pointer)
	Owner any
}

// HandlerFunc runs a matched signature. Returning false stops an && chain.
type HandlerFunc func(ctx *Context) bool

// Action adapts a handler that never fails the chain.
func Action(fn func(ctx *Context)) HandlerFunc {
	return func(ctx *Context) bool {
		fn(ctx)
		return true
	}
}

// ArgType is the type a positional argument is converted to.
type ArgType int

const (
	ArgString ArgType = iota
	ArgInt
	ArgFloat
	ArgBool
	ArgVector2
	ArgVector3
	ArgVector4
)

func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgInt:
		return "int"
	case ArgFloat:
		return "float"
	case ArgBool:
		return "bool"
	case ArgVector2:
		return "vector2"
	case ArgVector3:
		return "vector3"
	case ArgVector4:
		return "vector4"
	}
	return "unknown"
}

// Param is one positional parameter of a signature.
type Param struct {
	Name string
	Type ArgType

	// Optional parameters must trail the required ones
	Optional bool

	// Variadic must be the last parameter; it accepts zero or more tokens
	Variadic bool
}

// Signature is one accepted argument shape of a command.
type Signature struct {
	Params  []Param
	Handler HandlerFunc
}

// Arg declares a required parameter.
func Arg(name string, t ArgType) Param { return Param{Name: name, Type: t} }

// OptionalArg declares a trailing optional parameter.
func OptionalArg(name string, t ArgType) Param { return Param{Name: name, Type: t, Optional: true} }

// RestArgs declares a trailing variadic parameter.
func RestArgs(name string, t ArgType) Param { return Param{Name: name, Type: t, Variadic: true} }

// Sig builds a Signature.
func Sig(handler HandlerFunc, params ...Param) Signature {
	return Signature{Params: params, Handler: handler}
}

func (s *Signature) minArgs() int {
	n := 0
	for _, p := range s.Params {
		if !p.Optional && !p.Variadic {
			n++
		}
	}
	return n
}

// maxArgs returns -1 for variadic signatures.
func (s *Signature) maxArgs() int {
	if len(s.Params) > 0 && s.Params[len(s.Params)-1].Variadic {
		return -1
	}
	return len(s.Params)
}

func (s *Signature) accepts(n int) bool {
	if n < s.minArgs() {
		return false
	}
	limit := s.maxArgs()
	return limit < 0 || n <= limit
}

// rank orders arity matches: exact fixed arity, optional range, variadic.
func (s *Signature) rank() int {
	switch {
	case s.maxArgs() < 0:
		return 2
	case s.minArgs() != s.maxArgs():
		return 1
	default:
		return 0
	}
}

func (s *Signature) paramFor(i int) Param {
	if i < len(s.Params) {
		return s.Params[i]
	}
	return s.Params[len(s.Params)-1]
}

// validate panics on malformed command definitions.
func (c *Command) validate() {
	if c.Name == "" || strings.ContainsAny(c.Name, " \t\"'") {
		panic(fmt.Sprintf("invalid command name %q", c.Name))
	}
	if len(c.Signatures) == 0 {
		panic(fmt.Sprintf("command %s: no signatures", c.Name))
	}
	for _, sig := range c.Signatures {
		if sig.Handler == nil {
			panic(fmt.Sprintf("command %s: nil handler", c.Name))
		}
		seenOptional := false
		for i, p := range sig.Params {
			if p.Variadic && i != len(sig.Params)-1 {
				panic(fmt.Sprintf("command %s: variadic parameter %s must be last", c.Name, p.Name))
			}
			if p.Optional && p.Variadic {
				panic(fmt.Sprintf("command %s: parameter %s can't be optional and variadic", c.Name, p.Name))
			}
			if p.Optional {
				seenOptional = true
			} else if seenOptional {
				panic(fmt.Sprintf("command %s: parameter %s follows an optional one", c.Name, p.Name))
			}
		}
	}
	validateOptions(c.Name, c.Options)
}

// =============================================================================
// SIGNATURE MATCHING
// =============================================================================

// matchSignature picks the signature accepting len(args) positional tokens
// and converts them. Among arity matches the best rank wins, then the first
// declared whose argument types all convert.
func matchSignature(cmd *Command, args []string) (*Signature, []any, error) {
	var candidates []*Signature
	for r := 0; r <= 2; r++ {
		for i := range cmd.Signatures {
			sig := &cmd.Signatures[i]
			if sig.rank() == r && sig.accepts(len(args)) {
				candidates = append(candidates, sig)
			}
		}
	}

	if len(candidates) == 0 {
		return nil, nil, &WrongArgumentCountError{
			Command: cmd.Name,
			Got:     len(args),
			Usage:   Usage(cmd),
		}
	}

	var firstErr error
	for _, sig := range candidates {
		values, err := convertArgs(cmd.Name, sig, args)
		if err == nil {
			return sig, values, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, nil, firstErr
}

func convertArgs(command string, sig *Signature, args []string) ([]any, error) {
	values := make([]any, len(args))
	for i, raw := range args {
		p := sig.paramFor(i)
		v, err := convertArg(raw, p.Type)
		if err != nil {
			return nil, &ArgumentTypeError{
				Command: command,
				Param:   p.Name,
				Index:   i,
				Value:   raw,
				Type:    p.Type,
				Err:     err,
			}
		}
		values[i] = v
	}
	return values, nil
}

func convertArg(raw string, t ArgType) (any, error) {
	switch t {
	case ArgInt:
		return cvar.ParseInt(raw)
	case ArgFloat:
		return cvar.ParseFloat(raw)
	case ArgBool:
		return cvar.ParseBool(raw)
	case ArgVector2:
		return cvar.ParseVector2(raw)
	case ArgVector3:
		return cvar.ParseVector3(raw)
	case ArgVector4:
		return cvar.ParseVector4(raw)
	default:
		return raw, nil
	}
}

// =============================================================================
// USAGE
// =============================================================================

// Usage renders every signature and the option list of cmd.
func Usage(cmd *Command) string {
	var b strings.Builder

	for i, sig := range cmd.Signatures {
		if i == 0 {
			b.WriteString("usage: ")
		} else {
			b.WriteString("\n       ")
		}
		b.WriteString(cmd.Name)
		if len(cmd.Options) > 0 {
			b.WriteString(" [options]")
		}
		for _, p := range sig.Params {
			b.WriteByte(' ')
			b.WriteString(formatParam(p))
		}
	}

	if len(cmd.Options) > 0 {
		b.WriteString("\noptions:")
		for _, d := range cmd.Options {
			b.WriteString("\n  ")
			b.WriteString(formatOption(d))
		}
	}

	return b.String()
}

func formatParam(p Param) string {
	name := p.Name
	if p.Type != ArgString {
		name += ":" + p.Type.String()
	}
	switch {
	case p.Variadic:
		return "[" + name + "...]"
	case p.Optional:
		return "[" + name + "]"
	default:
		return "<" + name + ">"
	}
}

func formatOption(d OptionDescriptor) string {
	var b strings.Builder
	if d.ShortName != "" {
		b.WriteString("-" + d.ShortName + ", ")
	}
	b.WriteString("--" + d.Name)
	if !d.IsFlag() {
		value := d.Kind.String()
		if len(d.Values) > 0 {
			value = strings.Join(d.Values, "|")
		}
		if d.Count > 0 {
			value = fmt.Sprintf("%s x%d", value, d.Count)
		}
		b.WriteString(" <" + value + ">")
	}
	if d.Description != "" {
		b.WriteString("  " + d.Description)
	}
	return b.String()
}
