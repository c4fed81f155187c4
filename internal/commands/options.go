// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// OPTION DEFINITION
// =============================================================================

// Kind is the value type of an option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return "unknown"
}

// OptionDescriptor declares a --name / -s option of a command.
type OptionDescriptor struct {
	// Name is the long form, used as --Name
	Name string

	// ShortName is the optional short form, used as -ShortName
	ShortName string

	// Kind is the value type
	Kind Kind

	// Count > 0 declares a fixed-size array option that consumes Count tokens
	Count int

	// Default is returned when the option is absent. It must be a bool, int,
	// float64 or string (or a slice of one for array options), or nil.
	Default any

	// Values restricts string values and drives completion
	Values []string

	// Description is shown by man
	Description string
}

// IsFlag reports whether the option is a plain boolean switch.
func (d *OptionDescriptor) IsFlag() bool {
	return d.Kind == KindBool && d.Count == 0
}

func (d *OptionDescriptor) zero() any {
	if d.Count > 0 {
		switch d.Kind {
		case KindBool:
			return []bool(nil)
		case KindInt:
			return []int(nil)
		case KindFloat:
			return []float64(nil)
		default:
			return []string(nil)
		}
	}
	switch d.Kind {
	case KindBool:
		return false
	case KindInt:
		return 0
	case KindFloat:
		return 0.0
	default:
		return ""
	}
}

// validateOptions panics on descriptors that can never bind correctly.
func validateOptions(command string, descs []OptionDescriptor) {
	seen := make(map[string]bool)
	for i := range descs {
		d := &descs[i]
		if d.Name == "" || strings.HasPrefix(d.Name, "-") {
			panic(fmt.Sprintf("command %s: invalid option name %q", command, d.Name))
		}
		long := "--" + d.Name
		if seen[long] {
			panic(fmt.Sprintf("command %s: duplicate option %s", command, long))
		}
		seen[long] = true
		if d.ShortName != "" {
			short := "-" + d.ShortName
			if seen[short] {
				panic(fmt.Sprintf("command %s: duplicate option %s", command, short))
			}
			seen[short] = true
		}
		if d.Default != nil {
			if fmt.Sprintf("%T", d.Default) != fmt.Sprintf("%T", d.zero()) {
				panic(fmt.Sprintf("command %s: option --%s default %T does not match %s", command, d.Name, d.Default, d.Kind))
			}
		}
	}
}

// =============================================================================
// BOUND OPTIONS
// =============================================================================

// Options holds the option values bound for one invocation.
type Options struct {
	descs  []OptionDescriptor
	values map[string]any
}

func newOptions(descs []OptionDescriptor) *Options {
	return &Options{descs: descs, values: make(map[string]any)}
}

func (o *Options) descriptor(name string) *OptionDescriptor {
	for i := range o.descs {
		if o.descs[i].Name == name {
			return &o.descs[i]
		}
	}
	return nil
}

// IsSet reports whether the option appeared on the command line.
func (o *Options) IsSet(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o *Options) get(name string) any {
	if v, ok := o.values[name]; ok {
		return v
	}
	d := o.descriptor(name)
	if d == nil {
		panic(fmt.Sprintf("unknown option %q", name))
	}
	if d.Default != nil {
		return d.Default
	}
	return d.zero()
}

func (o *Options) Bool(name string) bool        { return o.get(name).(bool) }
func (o *Options) Int(name string) int          { return o.get(name).(int) }
func (o *Options) Float(name string) float64    { return o.get(name).(float64) }
func (o *Options) String(name string) string    { return o.get(name).(string) }
func (o *Options) Bools(name string) []bool     { return o.get(name).([]bool) }
func (o *Options) Ints(name string) []int       { return o.get(name).([]int) }
func (o *Options) Floats(name string) []float64 { return o.get(name).([]float64) }
func (o *Options) Strings(name string) []string { return o.get(name).([]string) }

// =============================================================================
// BINDING
// =============================================================================

// BindOptions extracts options from tokens and returns the remaining
// positional arguments in their original order.
//
// A boolean switch never consumes the following token. Other options consume
// one token, or Count tokens for array options; a long option may carry its
// first value inline as --name=value. A bare "--" ends option parsing;
// tokens that read as negative numbers are positional.
func BindOptions(descs []OptionDescriptor, tokens []string) (*Options, []string, error) {
	opts := newOptions(descs)
	var args []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == "--" {
			args = append(args, tokens[i+1:]...)
			break
		}
		if !isOptionToken(tok) {
			args = append(args, tok)
			continue
		}

		name, inline, hasInline := splitInlineValue(tok)
		d := findOption(descs, name)
		if d == nil {
			return nil, nil, &OptionError{Option: name, Message: "unknown option"}
		}

		if d.IsFlag() {
			if hasInline {
				return nil, nil, &OptionError{Option: name, Message: "takes no value"}
			}
			opts.values[d.Name] = true
			continue
		}

		n := d.Count
		if n == 0 {
			n = 1
		}

		// An inline value is the first of the n values
		var raw []string
		consumed := n
		if hasInline {
			raw = append(raw, inline)
			consumed--
		}
		if i+consumed >= len(tokens) {
			return nil, nil, &OptionError{Option: name, Message: fmt.Sprintf("expected %d value(s)", n)}
		}
		raw = append(raw, tokens[i+1:i+1+consumed]...)

		value, err := parseOptionValue(d, name, raw)
		if err != nil {
			return nil, nil, err
		}
		opts.values[d.Name] = value
		i += consumed
	}

	return opts, args, nil
}

// splitInlineValue splits "--name=value". The value of a token written
// --name="a b" arrives with its quotes, which are removed here.
func splitInlineValue(tok string) (name, value string, ok bool) {
	if !strings.HasPrefix(tok, "--") {
		return tok, "", false
	}
	name, value, ok = strings.Cut(tok, "=")
	if !ok || name == "--" {
		return tok, "", false
	}
	if value != "" && isQuote(rune(value[0])) {
		value = ""
		if toks := Tokenize(tok[len(name)+1:]); len(toks) > 0 {
			value = toks[0]
		}
	}
	return name, value, true
}

func findOption(descs []OptionDescriptor, tok string) *OptionDescriptor {
	if strings.HasPrefix(tok, "--") {
		name := tok[2:]
		for i := range descs {
			if descs[i].Name == name {
				return &descs[i]
			}
		}
		for i := range descs {
			if strings.EqualFold(descs[i].Name, name) {
				return &descs[i]
			}
		}
		return nil
	}

	short := tok[1:]
	for i := range descs {
		if descs[i].ShortName != "" && descs[i].ShortName == short {
			return &descs[i]
		}
	}
	return nil
}

func parseOptionValue(d *OptionDescriptor, tok string, raw []string) (any, error) {
	parsed := make([]any, len(raw))
	for i, s := range raw {
		v, err := parseKind(d.Kind, s)
		if err != nil {
			return nil, &OptionValueError{Option: tok, Value: s, Message: "expected " + d.Kind.String()}
		}
		if len(d.Values) > 0 && !containsFold(d.Values, s) {
			return nil, &OptionValueError{Option: tok, Value: s, Message: "expected one of " + strings.Join(d.Values, ", ")}
		}
		parsed[i] = v
	}

	if d.Count == 0 {
		return parsed[0], nil
	}

	switch d.Kind {
	case KindBool:
		out := make([]bool, len(parsed))
		for i, v := range parsed {
			out[i] = v.(bool)
		}
		return out, nil
	case KindInt:
		out := make([]int, len(parsed))
		for i, v := range parsed {
			out[i] = v.(int)
		}
		return out, nil
	case KindFloat:
		out := make([]float64, len(parsed))
		for i, v := range parsed {
			out[i] = v.(float64)
		}
		return out, nil
	default:
		out := make([]string, len(parsed))
		for i, v := range parsed {
			out[i] = v.(string)
		}
		return out, nil
	}
}

func parseKind(k Kind, s string) (any, error) {
	switch k {
	case KindBool:
		return cvar.ParseBool(s)
	case KindInt:
		return strconv.Atoi(s)
	case KindFloat:
		return strconv.ParseFloat(s, 64)
	default:
		return s, nil
	}
}

// isOptionToken reports whether tok names an option rather than a value.
func isOptionToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
