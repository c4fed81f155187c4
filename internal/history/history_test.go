// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/commands"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AddAndRecent(t *testing.T) {
	s := openTestStore(t, WithSessionID("session-1"))

	require.NoError(t, s.Add("echo one", true))
	require.NoError(t, s.Add("  ", true))
	require.NoError(t, s.Add("nosuchcommand", false))
	require.NoError(t, s.Add("nosuchcommand", false))
	require.NoError(t, s.Add("echo two", true))

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "echo one", entries[0].Line)
	require.True(t, entries[0].OK)
	require.Equal(t, "nosuchcommand", entries[1].Line)
	require.False(t, entries[1].OK)
	require.Equal(t, "session-1", entries[2].Session)
	require.False(t, entries[2].At.IsZero())

	lines, err := s.Lines(2)
	require.NoError(t, err)
	require.Equal(t, []string{"nosuchcommand", "echo two"}, lines)
}

func TestStore_Limit(t *testing.T) {
	s := openTestStore(t, WithLimit(3))

	for _, line := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Add(line, true))
	}

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	lines, err := s.Lines(0)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d", "e"}, lines)
}

func TestStore_PersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Add("cvarlist", true))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	require.NotEqual(t, first.Session(), second.Session())

	// Repeats are only skipped within a session
	require.NoError(t, second.Add("cvarlist", true))

	entries, err := second.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, first.Session(), entries[0].Session)
	require.Equal(t, second.Session(), entries[1].Session)
}

func TestStore_Memory(t *testing.T) {
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add("echo hi", true))
	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

type lineDelegate struct {
	commands.NopDelegate
	lines  []string
	errors []error
}

func (d *lineDelegate) LogTerminal(line string)      { d.lines = append(d.lines, line) }
func (d *lineDelegate) LogError(err error, _ string) { d.errors = append(d.errors, err) }

func TestHistoryCommand(t *testing.T) {
	s := openTestStore(t)
	d := &lineDelegate{}
	proc := commands.NewProcessor(nil, d)
	RegisterCommands(proc.Registry(), s)

	for _, line := range []string{"echo a", "echo b", "echo c"} {
		require.NoError(t, s.Add(line, proc.TryExecute(line, true)))
	}
	d.lines = nil

	require.True(t, proc.TryExecute("history -n 2", true))
	require.Equal(t, []string{"    2  echo b", "    3  echo c"}, d.lines)

	d.lines = nil
	require.True(t, proc.TryExecute("history", true))
	require.Len(t, d.lines, 3)

	d.lines = nil
	require.True(t, proc.TryExecute("history -c", true))
	require.Equal(t, []string{"history cleared"}, d.lines)

	n, err := s.Count()
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, d.errors)
}
