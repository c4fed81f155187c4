// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cvar

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// VECTOR TYPES
// =============================================================================

// Vector2 is a two component float vector.
type Vector2 struct{ X, Y float64 }

// Vector3 is a three component float vector.
type Vector3 struct{ X, Y, Z float64 }

// Vector4 is a four component float vector.
type Vector4 struct{ X, Y, Z, W float64 }

// Rect is an axis aligned rectangle.
type Rect struct{ X, Y, Width, Height float64 }

// Color is an RGBA color with components in the 0..1 range.
type Color struct{ R, G, B, A float64 }

func (v Vector2) String() string { return FormatFloats(v.X, v.Y) }
func (v Vector3) String() string { return FormatFloats(v.X, v.Y, v.Z) }
func (v Vector4) String() string { return FormatFloats(v.X, v.Y, v.Z, v.W) }
func (r Rect) String() string    { return FormatFloats(r.X, r.Y, r.Width, r.Height) }
func (c Color) String() string   { return FormatFloats(c.R, c.G, c.B, c.A) }

// =============================================================================
// PARSING
// =============================================================================

// ParseBool parses the boolean spellings accepted on the console.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ParseInt parses a base-10 integer.
func ParseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// ParseFloat parses a float independent of locale. A leading '-' is allowed.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q", s)
	}
	return v, nil
}

// ParseFloats parses exactly n float components separated by whitespace or commas.
func ParseFloats(s string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d components, got %d in %q", n, len(fields), s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := ParseFloat(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseVector2 parses "x y".
func ParseVector2(s string) (Vector2, error) {
	c, err := ParseFloats(s, 2)
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{c[0], c[1]}, nil
}

// ParseVector3 parses "x y z".
func ParseVector3(s string) (Vector3, error) {
	c, err := ParseFloats(s, 3)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{c[0], c[1], c[2]}, nil
}

// ParseVector4 parses "x y z w".
func ParseVector4(s string) (Vector4, error) {
	c, err := ParseFloats(s, 4)
	if err != nil {
		return Vector4{}, err
	}
	return Vector4{c[0], c[1], c[2], c[3]}, nil
}

// ParseRect parses "x y width height".
func ParseRect(s string) (Rect, error) {
	c, err := ParseFloats(s, 4)
	if err != nil {
		return Rect{}, err
	}
	return Rect{c[0], c[1], c[2], c[3]}, nil
}

// ParseColor accepts "#RRGGBB", "#RRGGBBAA", "0xRRGGBBAA", a bare 6/8 digit
// hex string, or three or four float components.
func ParseColor(s string) (Color, error) {
	t := strings.TrimSpace(s)
	hex := ""
	switch {
	case strings.HasPrefix(t, "#"):
		hex = t[1:]
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		hex = t[2:]
	case (len(t) == 6 || len(t) == 8) && isHex(t):
		hex = t
	}
	if hex != "" {
		return parseHexColor(hex, s)
	}

	if c, err := ParseFloats(t, 4); err == nil {
		return Color{c[0], c[1], c[2], c[3]}, nil
	}
	c, err := ParseFloats(t, 3)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{c[0], c[1], c[2], 1}, nil
}

func parseHexColor(hex, orig string) (Color, error) {
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", orig)
	}
	packed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", orig)
	}
	return ColorFromRGBA(uint32(packed)), nil
}

// ColorFromRGBA unpacks a 0xRRGGBBAA value.
func ColorFromRGBA(packed uint32) Color {
	return Color{
		R: float64((packed>>24)&0xff) / 255,
		G: float64((packed>>16)&0xff) / 255,
		B: float64((packed>>8)&0xff) / 255,
		A: float64(packed&0xff) / 255,
	}
}

// RGBA packs the color as 0xRRGGBBAA.
func (c Color) RGBA() uint32 {
	return uint32(channel(c.R))<<24 | uint32(channel(c.G))<<16 | uint32(channel(c.B))<<8 | uint32(channel(c.A))
}

func channel(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatFloat renders a float in its shortest round-tripping form.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFloats renders components separated by single spaces.
func FormatFloats(fs ...float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = FormatFloat(f)
	}
	return strings.Join(parts, " ")
}

// components reads up to n leading float components from a canonical string.
// Missing or unparsable components are zero.
func components(s string, n int) []float64 {
	out := make([]float64, n)
	for i, f := range strings.Fields(s) {
		if i >= n {
			break
		}
		v, err := strconv.ParseFloat(f, 64)
		if err == nil {
			out[i] = v
		}
	}
	return out
}
