// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cvar

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// VALUE MODEL TESTS
// =============================================================================

func TestCanonicalValues(t *testing.T) {
	tests := []struct {
		name  string
		v     *CVar
		input string
		want  string
	}{
		{"bool true", NewBool("b", false), "true", "1"},
		{"bool off", NewBool("b", true), "off", "0"},
		{"int", NewInt("i", 0), " 42 ", "42"},
		{"negative float", NewFloat("f", 0), "-1.50", "-1.5"},
		{"whole float", NewFloat("f", 0), "3.0", "3"},
		{"string", NewString("s", ""), "hello world", "hello world"},
		{"hex color", NewColor("c", Color{}), "#ff0000", "1 0 0 1"},
		{"float color", NewColor("c", Color{}), "0 1 0", "0 1 0 1"},
		{"rect", NewRect("r", Rect{}), "1,2,3,4", "1 2 3 4"},
		{"vector3", NewVector3("v", Vector3{}), "1 2.5 -3", "1 2.5 -3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.v.SetValue(tc.input))
			require.Equal(t, tc.want, tc.v.Value())
		})
	}
}

func TestSetValue_InvalidKeepsValue(t *testing.T) {
	v := NewInt("r_width", 640)
	require.NoError(t, v.SetValue("800"))

	err := v.SetValue("wide")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "r_width", perr.Name)
	require.Equal(t, "wide", perr.Value)
	require.Equal(t, "800", v.Value())
}

func TestDefaultTracking(t *testing.T) {
	v := NewFloat("fov", 90)
	require.True(t, v.IsDefault())

	require.NoError(t, v.SetValue("75"))
	require.False(t, v.IsDefault())

	// A differently spelled literal of the default returns to the default state.
	require.NoError(t, v.SetValue("90.0"))
	require.True(t, v.IsDefault())
}

func TestReset_Idempotent(t *testing.T) {
	v := NewString("name", "player")
	calls := 0
	v.AddDelegate(func(*CVar) { calls++ })

	require.NoError(t, v.SetValue("bob"))
	require.Equal(t, 1, calls)

	require.True(t, v.Reset())
	require.False(t, v.Reset())
	require.Equal(t, "player", v.Value())
	require.Equal(t, 2, calls)
}

func TestTypedViews(t *testing.T) {
	v := NewVector4("v4", Vector4{1, 2, 3, 4})
	require.Equal(t, Vector2{1, 2}, v.Vector2Value())
	require.Equal(t, Vector3{1, 2, 3}, v.Vector3Value())
	require.Equal(t, Rect{1, 2, 3, 4}, v.RectValue())

	c := NewColor("tint", ColorFromRGBA(0xff8000ff))
	require.Equal(t, uint32(0xff8000ff), c.ColorValue().RGBA())

	b := NewBool("flag", false)
	b.SetBool(true)
	require.True(t, b.BoolValue())
	require.Equal(t, 1, b.IntValue())
}

func TestTypedSetterNotifies(t *testing.T) {
	v := NewVector2("pos", Vector2{})
	var got []string
	v.AddDelegate(func(c *CVar) { got = append(got, c.Value()) })

	v.SetVector2(Vector2{3, 4})
	v.SetVector2(Vector2{3, 4})
	require.Equal(t, []string{"3 4"}, got)
}

func TestTypedSetters_Convert(t *testing.T) {
	tests := []struct {
		name string
		v    *CVar
		set  func(*CVar)
		want string
	}{
		{"float on int truncates", NewInt("n", 0), func(v *CVar) { v.SetFloat(1.5) }, "1"},
		{"negative float on int", NewInt("n", 0), func(v *CVar) { v.SetFloat(-2.7) }, "-2"},
		{"int on bool", NewBool("b", false), func(v *CVar) { v.SetInt(2) }, "1"},
		{"zero on bool", NewBool("b", true), func(v *CVar) { v.SetInt(0) }, "0"},
		{"float on bool", NewBool("b", false), func(v *CVar) { v.SetFloat(0.25) }, "1"},
		{"bool on int", NewInt("n", 7), func(v *CVar) { v.SetBool(true) }, "1"},
		{"bool on float", NewFloat("f", 7), func(v *CVar) { v.SetBool(false) }, "0"},
		{"int on float", NewFloat("f", 0), func(v *CVar) { v.SetInt(3) }, "3"},
		{"int on clamped int", NewInt("n", 1, WithRange(1, 3)), func(v *CVar) { v.SetInt(5) }, "3"},
		{"vector2 on vector3", NewVector3("v", Vector3{1, 2, 3}), func(v *CVar) { v.SetVector2(Vector2{5, 6}) }, "5 6 3"},
		{"vector4 on vector2", NewVector2("v", Vector2{}), func(v *CVar) { v.SetVector4(Vector4{1, 2, 3, 4}) }, "1 2"},
		{"vector2 on color", NewColor("c", Color{1, 1, 1, 1}), func(v *CVar) { v.SetVector2(Vector2{0.5, 0.5}) }, "0.5 0.5 1 1"},
		{"vector2 on rect", NewRect("r", Rect{Width: 640, Height: 480}), func(v *CVar) { v.SetVector2(Vector2{10, 20}) }, "10 20 640 480"},
		{"float on vector3", NewVector3("v", Vector3{1, 2, 3}), func(v *CVar) { v.SetFloat(7) }, "7 2 3"},
		{"int on string", NewString("s", ""), func(v *CVar) { v.SetInt(12) }, "12"},
		{"vector3 on string", NewString("s", ""), func(v *CVar) { v.SetVector3(Vector3{1, 2, 3}) }, "1 2 3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.set(tc.v)
			require.Equal(t, tc.want, tc.v.Value())
		})
	}
}

func TestTypedSetters_MeaninglessConversionPanics(t *testing.T) {
	tests := []struct {
		name string
		v    *CVar
		set  func(*CVar)
	}{
		{"vector into bool", NewBool("b", false), func(v *CVar) { v.SetVector2(Vector2{1, 1}) }},
		{"bool into vector", NewVector3("v", Vector3{}), func(v *CVar) { v.SetBool(true) }},
		{"vector into int", NewInt("n", 0), func(v *CVar) { v.SetVector3(Vector3{1, 2, 3}) }},
		{"nan into int", NewInt("n", 0), func(v *CVar) { v.SetFloat(math.NaN()) }},
		{"inf into float", NewFloat("f", 0), func(v *CVar) { v.SetFloat(math.Inf(1)) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.v.Value()
			require.Panics(t, func() { tc.set(tc.v) })
			require.Equal(t, before, tc.v.Value())
		})
	}
}

func TestRangeClamps(t *testing.T) {
	v := NewFloat("volume", 0.5, WithRange(0, 1))
	require.NoError(t, v.SetValue("7"))
	require.Equal(t, "1", v.Value())

	i := NewInt("count", 1, WithRange(1, 10))
	require.NoError(t, i.SetValue("-5"))
	require.Equal(t, 1, i.IntValue())
}

func TestNew_InvalidDefaultPanics(t *testing.T) {
	require.Panics(t, func() { New("bad", Integer, "nope") })
	require.Panics(t, func() { NewString("has space", "") })
}

// =============================================================================
// DELEGATE TESTS
// =============================================================================

func TestDelegates_CalledInOrder(t *testing.T) {
	v := NewInt("x", 0)
	var order []int
	v.AddDelegate(func(*CVar) { order = append(order, 1) })
	v.AddDelegate(func(*CVar) { order = append(order, 2) })
	v.AddDelegate(func(*CVar) { order = append(order, 3) })

	v.SetInt(5)
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestDelegates_RemoveSelfDuringNotify(t *testing.T) {
	v := NewInt("x", 0)
	var calls []string
	var h2 DelegateHandle

	v.AddDelegate(func(*CVar) { calls = append(calls, "d1") })
	h2 = v.AddDelegate(func(*CVar) {
		calls = append(calls, "d2")
		v.RemoveDelegate(h2)
	})
	v.AddDelegate(func(*CVar) { calls = append(calls, "d3") })

	v.SetInt(1)
	require.Equal(t, []string{"d1", "d2", "d3"}, calls)

	calls = nil
	v.SetInt(2)
	require.Equal(t, []string{"d1", "d3"}, calls)
}

func TestDelegates_RemoveLaterDuringNotify(t *testing.T) {
	v := NewInt("x", 0)
	var calls []string
	var h3 DelegateHandle

	v.AddDelegate(func(*CVar) {
		calls = append(calls, "d1")
		v.RemoveDelegate(h3)
	})
	v.AddDelegate(func(*CVar) { calls = append(calls, "d2") })
	h3 = v.AddDelegate(func(*CVar) { calls = append(calls, "d3") })
	v.AddDelegate(func(*CVar) { calls = append(calls, "d4") })

	v.SetInt(1)
	require.Equal(t, []string{"d1", "d2", "d4"}, calls)
	require.Equal(t, 3, v.DelegateCount())
}

func TestDelegates_RemoveEarlierDuringNotify(t *testing.T) {
	v := NewInt("x", 0)
	var calls []string
	var h1 DelegateHandle

	h1 = v.AddDelegate(func(*CVar) { calls = append(calls, "d1") })
	v.AddDelegate(func(*CVar) {
		calls = append(calls, "d2")
		v.RemoveDelegate(h1)
	})
	v.AddDelegate(func(*CVar) { calls = append(calls, "d3") })

	v.SetInt(1)
	require.Equal(t, []string{"d1", "d2", "d3"}, calls)

	calls = nil
	v.SetInt(2)
	require.Equal(t, []string{"d2", "d3"}, calls)
}

func TestDelegates_AddDuringNotifyRunsNextTime(t *testing.T) {
	v := NewInt("x", 0)
	calls := 0
	added := false
	v.AddDelegate(func(*CVar) {
		if !added {
			added = true
			v.AddDelegate(func(*CVar) { calls++ })
		}
	})

	v.SetInt(1)
	require.Equal(t, 0, calls)
	v.SetInt(2)
	require.Equal(t, 1, calls)
}

func TestDelegates_RemoveAll(t *testing.T) {
	v := NewInt("x", 0)
	calls := 0
	v.AddDelegate(func(c *CVar) {
		calls++
		c.RemoveAllDelegates()
	})
	v.AddDelegate(func(*CVar) { calls++ })

	v.SetInt(1)
	require.Equal(t, 1, calls)
	require.Equal(t, 0, v.DelegateCount())
	require.False(t, v.RemoveDelegate(DelegateHandle(99)))
}
