// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cvar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// TYPES AND FLAGS
// =============================================================================

// Type is the value type of a console variable.
type Type int

const (
	Boolean Type = iota
	Integer
	Float
	String
	ColorType
	RectType
	Vector2Type
	Vector3Type
	Vector4Type
)

var typeNames = map[Type]string{
	Boolean:     "bool",
	Integer:     "int",
	Float:       "float",
	String:      "string",
	ColorType:   "color",
	RectType:    "rect",
	Vector2Type: "vector2",
	Vector3Type: "vector3",
	Vector4Type: "vector4",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// components is the number of floats in a value of type t.
func (t Type) components() int {
	switch t {
	case Vector2Type:
		return 2
	case Vector3Type:
		return 3
	case ColorType, RectType, Vector4Type:
		return 4
	}
	return 1
}

// Flags control visibility and persistence of a variable.
type Flags uint8

const (
	FlagSystem Flags = 1 << iota
	FlagDebug
	FlagHidden
	// FlagNoArchive keeps the variable out of written config files.
	FlagNoArchive
)

// FlagNone marks an ordinary variable.
const FlagNone Flags = 0

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// ParseError reports a literal that cannot be converted to the variable's type.
// The variable keeps its previous value.
type ParseError struct {
	Name  string
	Type  Type
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: can't set %s value to %q: %v", e.Name, e.Type, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError is the panic value of a typed setter whose argument has no
// meaning for the variable's type.
type ConversionError struct {
	Name string
	Type Type
	From string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: can't convert %s to %s", e.Name, e.From, e.Type)
}

// =============================================================================
// CVAR
// =============================================================================

// CVar is a named, typed console variable. The canonical string form is the
// source of truth; typed accessors are views over it.
type CVar struct {
	name         string
	typ          Type
	value        string
	defaultValue string
	flags        Flags
	description  string

	hasRange bool
	lo, hi   float64

	delegates delegateList
}

// Option configures a CVar at construction.
type Option func(*CVar)

// WithFlags sets the variable flags.
func WithFlags(flags Flags) Option {
	return func(v *CVar) { v.flags = flags }
}

// WithDescription sets the help text shown by man and cvarlist.
func WithDescription(desc string) Option {
	return func(v *CVar) { v.description = desc }
}

// WithRange clamps numeric values to [min, max].
func WithRange(lo, hi float64) Option {
	return func(v *CVar) {
		v.hasRange = true
		v.lo, v.hi = lo, hi
	}
}

// New creates a variable of the given type. It panics if defaultValue does not
// parse as typ, since that is a programming error.
func New(name string, typ Type, defaultValue string, opts ...Option) *CVar {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\"'") {
		panic(fmt.Sprintf("cvar: invalid name %q", name))
	}
	v := &CVar{name: name, typ: typ}
	for _, opt := range opts {
		opt(v)
	}
	canonical, err := v.canonicalize(defaultValue)
	if err != nil {
		panic(fmt.Sprintf("cvar: invalid default for %s: %v", name, err))
	}
	v.defaultValue = canonical
	v.value = canonical
	return v
}

// NewBool creates a boolean variable.
func NewBool(name string, def bool, opts ...Option) *CVar {
	return New(name, Boolean, formatBool(def), opts...)
}

// NewInt creates an integer variable.
func NewInt(name string, def int, opts ...Option) *CVar {
	return New(name, Integer, strconv.Itoa(def), opts...)
}

// NewFloat creates a float variable.
func NewFloat(name string, def float64, opts ...Option) *CVar {
	return New(name, Float, FormatFloat(def), opts...)
}

// NewString creates a string variable.
func NewString(name, def string, opts ...Option) *CVar {
	return New(name, String, def, opts...)
}

// NewColor creates a color variable.
func NewColor(name string, def Color, opts ...Option) *CVar {
	return New(name, ColorType, def.String(), opts...)
}

// NewRect creates a rect variable.
func NewRect(name string, def Rect, opts ...Option) *CVar {
	return New(name, RectType, def.String(), opts...)
}

// NewVector2 creates a vector2 variable.
func NewVector2(name string, def Vector2, opts ...Option) *CVar {
	return New(name, Vector2Type, def.String(), opts...)
}

// NewVector3 creates a vector3 variable.
func NewVector3(name string, def Vector3, opts ...Option) *CVar {
	return New(name, Vector3Type, def.String(), opts...)
}

// NewVector4 creates a vector4 variable.
func NewVector4(name string, def Vector4, opts ...Option) *CVar {
	return New(name, Vector4Type, def.String(), opts...)
}

func (v *CVar) Name() string         { return v.name }
func (v *CVar) Type() Type           { return v.typ }
func (v *CVar) Flags() Flags         { return v.flags }
func (v *CVar) Description() string  { return v.description }
func (v *CVar) Value() string        { return v.value }
func (v *CVar) DefaultValue() string { return v.defaultValue }

// IsDefault reports whether the current value equals the default.
func (v *CVar) IsDefault() bool { return v.value == v.defaultValue }

// HasFlag reports whether the variable carries the flag.
func (v *CVar) HasFlag(f Flags) bool { return v.flags.Has(f) }

// Range returns the numeric clamp range, if any.
func (v *CVar) Range() (lo, hi float64, ok bool) {
	return v.lo, v.hi, v.hasRange
}

// SetValue parses s according to the variable type and stores its canonical
// form. On error the value is left unchanged.
func (v *CVar) SetValue(s string) error {
	canonical, err := v.canonicalize(s)
	if err != nil {
		return &ParseError{Name: v.name, Type: v.typ, Value: s, Err: err}
	}
	v.set(canonical)
	return nil
}

// Reset restores the default value. It returns true if the value changed.
func (v *CVar) Reset() bool {
	if v.IsDefault() {
		return false
	}
	v.set(v.defaultValue)
	return true
}

func (v *CVar) set(canonical string) {
	if canonical == v.value {
		return
	}
	v.value = canonical
	v.delegates.notify(v)
}

// =============================================================================
// TYPED VIEWS
// =============================================================================

// BoolValue is true for any non-zero numeric reading of the value.
func (v *CVar) BoolValue() bool {
	if b, err := ParseBool(v.value); err == nil {
		return b
	}
	return v.FloatValue() != 0
}

func (v *CVar) IntValue() int {
	if i, err := strconv.Atoi(v.value); err == nil {
		return i
	}
	return int(v.FloatValue())
}

func (v *CVar) FloatValue() float64 {
	f, err := strconv.ParseFloat(v.value, 64)
	if err != nil {
		return 0
	}
	return f
}

func (v *CVar) ColorValue() Color {
	c := components(v.value, 4)
	return Color{c[0], c[1], c[2], c[3]}
}

func (v *CVar) RectValue() Rect {
	c := components(v.value, 4)
	return Rect{c[0], c[1], c[2], c[3]}
}

func (v *CVar) Vector2Value() Vector2 {
	c := components(v.value, 2)
	return Vector2{c[0], c[1]}
}

func (v *CVar) Vector3Value() Vector3 {
	c := components(v.value, 3)
	return Vector3{c[0], c[1], c[2]}
}

func (v *CVar) Vector4Value() Vector4 {
	c := components(v.value, 4)
	return Vector4{c[0], c[1], c[2], c[3]}
}

// Typed setters convert their argument to the variable's type, then run the
// same change pipeline as SetValue. A float set on an int truncates, a
// number set on a bool is true when non-zero, and a vector set on a type
// with more components replaces the leading ones and keeps the rest.
// Conversions with no meaning, like a vector into a bool, panic.

func (v *CVar) SetBool(b bool) {
	switch v.typ {
	case Boolean, Integer, Float, String:
		v.mustSet(formatBool(b))
	default:
		panic(&ConversionError{Name: v.name, Type: v.typ, From: "bool"})
	}
}

func (v *CVar) SetInt(i int) {
	if v.typ == Integer || v.typ == String {
		v.mustSet(strconv.Itoa(i))
		return
	}
	v.setComponents("int", float64(i))
}

func (v *CVar) SetFloat(f float64) { v.setComponents("float", f) }

func (v *CVar) SetColor(c Color) { v.setComponents("color", c.R, c.G, c.B, c.A) }

func (v *CVar) SetRect(r Rect) { v.setComponents("rect", r.X, r.Y, r.Width, r.Height) }

func (v *CVar) SetVector2(vec Vector2) { v.setComponents("vector2", vec.X, vec.Y) }

func (v *CVar) SetVector3(vec Vector3) { v.setComponents("vector3", vec.X, vec.Y, vec.Z) }

func (v *CVar) SetVector4(vec Vector4) { v.setComponents("vector4", vec.X, vec.Y, vec.Z, vec.W) }

// setComponents stores fs in the variable's own type. from names the setter
// in a ConversionError.
func (v *CVar) setComponents(from string, fs ...float64) {
	scalar := len(fs) == 1

	switch v.typ {
	case Boolean:
		if !scalar {
			panic(&ConversionError{Name: v.name, Type: v.typ, From: from})
		}
		v.mustSet(formatBool(fs[0] != 0))
	case Integer:
		if !scalar || math.IsNaN(fs[0]) || math.Abs(fs[0]) >= math.MaxInt64 {
			panic(&ConversionError{Name: v.name, Type: v.typ, From: from})
		}
		v.mustSet(strconv.Itoa(int(fs[0])))
	case Float:
		if !scalar {
			panic(&ConversionError{Name: v.name, Type: v.typ, From: from})
		}
		v.mustSet(FormatFloat(fs[0]))
	case String:
		v.mustSet(FormatFloats(fs...))
	default:
		current := components(v.value, v.typ.components())
		copy(current, fs)
		v.mustSet(FormatFloats(current...))
	}
}

// mustSet stores a value produced by a formatter for the variable's own type.
func (v *CVar) mustSet(s string) {
	if err := v.SetValue(s); err != nil {
		panic(err)
	}
}

// =============================================================================
// CANONICAL FORM
// =============================================================================

func (v *CVar) canonicalize(s string) (string, error) {
	switch v.typ {
	case Boolean:
		b, err := ParseBool(s)
		if err != nil {
			return "", err
		}
		return formatBool(b), nil
	case Integer:
		i, err := ParseInt(s)
		if err != nil {
			return "", err
		}
		if v.hasRange {
			i = int(v.clamp(float64(i)))
		}
		return strconv.Itoa(i), nil
	case Float:
		f, err := ParseFloat(s)
		if err != nil {
			return "", err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("invalid float %q", s)
		}
		if v.hasRange {
			f = v.clamp(f)
		}
		return FormatFloat(f), nil
	case String:
		return s, nil
	case ColorType:
		c, err := ParseColor(s)
		if err != nil {
			return "", err
		}
		return c.String(), nil
	case RectType:
		r, err := ParseRect(s)
		if err != nil {
			return "", err
		}
		return r.String(), nil
	case Vector2Type:
		vec, err := ParseVector2(s)
		if err != nil {
			return "", err
		}
		return vec.String(), nil
	case Vector3Type:
		vec, err := ParseVector3(s)
		if err != nil {
			return "", err
		}
		return vec.String(), nil
	case Vector4Type:
		vec, err := ParseVector4(s)
		if err != nil {
			return "", err
		}
		return vec.String(), nil
	}
	return "", fmt.Errorf("unsupported type %v", v.typ)
}

func (v *CVar) clamp(f float64) float64 {
	return math.Max(v.lo, math.Min(v.hi, f))
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
