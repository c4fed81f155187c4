// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// CONFIG ROUND-TRIP TESTS
// =============================================================================

func archiveVars() []*cvar.CVar {
	return []*cvar.CVar{
		cvar.NewBool("cl_run", false),
		cvar.NewInt("sv_gravity", 800),
		cvar.NewFloat("volume", 1),
		cvar.NewString("name", "player"),
		cvar.NewString("motd", ""),
		cvar.NewColor("hud_color", cvar.Color{R: 1, G: 1, B: 1, A: 1}),
		cvar.NewRect("viewport", cvar.Rect{Width: 640, Height: 480}),
		cvar.NewVector2("aim", cvar.Vector2{}),
		cvar.NewVector3("spawn_pos", cvar.Vector3{}),
		cvar.NewVector4("tint", cvar.Vector4{}),
		cvar.NewInt("session_id", 0, cvar.WithFlags(cvar.FlagNoArchive)),
	}
}

type fakeSection struct {
	name  string
	lines []string
}

func (s fakeSection) SectionName() string   { return s.name }
func (s fakeSection) ConfigLines() []string { return s.lines }

func TestConfig_WriteThenExecRoundTrip(t *testing.T) {
	store := memStore{}

	src := NewProcessor(NewRegistry(), &recordingDelegate{}, WithConfigStore(store))
	for _, v := range archiveVars() {
		src.Registry().RegisterVar(v)
	}

	lines := []string{
		"cl_run 1",
		"sv_gravity 400",
		"volume 0.25",
		`name 'big "bob" && co'`,
		"motd \"it's here\"",
		"hud_color #ff000080",
		"viewport 0 0 1920 1080",
		"aim 0.5 -0.5",
		"spawn_pos 1 2 3",
		"tint 0.1 0.2 0.3 0.4",
		"session_id 77",
		`alias greet "echo hi && echo there"`,
	}
	for _, line := range lines {
		require.True(t, src.TryExecute(line, true), line)
	}
	require.NoError(t, src.Registry().FindVar("motd").SetValue(`C:\temp\`))
	require.NoError(t, src.Registry().RegisterAlias("tempdir", `echo a b\`))
	require.NoError(t, src.Registry().RegisterAlias("tickquote", `echo x"\`))
	require.True(t, src.TryExecute("writeconfig saved", true))

	text := store["saved"]
	require.True(t, strings.HasPrefix(text, "// cvars\n"))
	require.NotContains(t, text, "session_id")
	require.Contains(t, text, "\n// aliases\nalias greet \"echo hi && echo there\"\n")
	require.Contains(t, text, "\nmotd \"C:\\temp\"\\\"\"\n")
	require.Contains(t, text, "\nalias tempdir \"echo a b\"\\\"\"\n")

	dst := NewProcessor(NewRegistry(), &recordingDelegate{}, WithConfigStore(store))
	fresh := archiveVars()
	for _, v := range fresh {
		dst.Registry().RegisterVar(v)
	}
	require.True(t, dst.TryExecute("exec saved", true))

	for _, v := range fresh {
		want := src.Registry().FindVar(v.Name())
		if v.HasFlag(cvar.FlagNoArchive) {
			require.True(t, v.IsDefault(), v.Name())
			continue
		}
		require.Equal(t, want.Value(), v.Value(), v.Name())
	}
	require.Equal(t, "echo hi && echo there", dst.Registry().FindAlias("greet").Expansion)
	require.Equal(t, `C:\temp\`, dst.Registry().FindVar("motd").Value())
	require.Equal(t, `echo a b\`, dst.Registry().FindAlias("tempdir").Expansion)
	require.Equal(t, `echo x"\`, dst.Registry().FindAlias("tickquote").Expansion)
}

func TestConfig_DefaultsOmitted(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.Registry().RegisterVar(cvar.NewInt("a", 1))
	p.Registry().RegisterVar(cvar.NewInt("b", 2))
	require.True(t, p.TryExecute("b 3", true))

	require.Equal(t, "// cvars\nb 3\n", p.ConfigText())
}

func TestConfig_Sections(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.AddConfigSection(fakeSection{name: "empty"})
	p.AddConfigSection(fakeSection{name: "bindings", lines: []string{`bind f1 "echo one"`}})

	require.Equal(t, "// cvars\n\n// bindings\nbind f1 \"echo one\"\n", p.ConfigText())
}

func TestConfig_ExecReplaysAsNonManual(t *testing.T) {
	store := memStore{"replay": "// cvars\nv 5\n\n  // comment\nalias x echo\n"}
	d := &recordingDelegate{}
	p := NewProcessor(NewRegistry(), d, WithConfigStore(store))
	p.Registry().RegisterVar(cvar.NewInt("v", 0))

	require.NoError(t, p.ExecConfig("replay"))
	require.Equal(t, "5", p.Registry().FindVar("v").Value())
	require.Len(t, d.notifications, 2)
	for _, n := range d.notifications {
		require.Equal(t, false, n.data[KeyManual])
	}
}

func TestConfig_Errors(t *testing.T) {
	p := NewProcessor(NewRegistry(), nil)
	require.True(t, errors.Is(p.WriteConfig(""), ErrNoConfigStore))
	require.True(t, errors.Is(p.ExecConfig("x"), ErrNoConfigStore))

	d := &recordingDelegate{}
	p = NewProcessor(NewRegistry(), d, WithConfigStore(memStore{"self": "exec self"}))
	require.NoError(t, p.ExecConfig("self"))
	require.NotEmpty(t, d.errors)
	require.True(t, errors.Is(d.errors[0], ErrExecDepth))

	d.reset()
	require.True(t, p.TryExecute("exec missing", true))
	require.Len(t, d.errors, 1)
}

func TestConfig_DefaultName(t *testing.T) {
	store := memStore{}
	p := NewProcessor(NewRegistry(), nil, WithConfigStore(store), WithConfigName("autoexec"))
	require.True(t, p.TryExecute("writeconfig", true))
	_, ok := store["autoexec"]
	require.True(t, ok)
}
