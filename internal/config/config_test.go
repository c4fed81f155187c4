// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv neutralizes the overrides so host environment doesn't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DEVCONSOLE_CONFIG_DIR", "DEVCONSOLE_CONFIG_NAME", "DEVCONSOLE_DEBUG",
		"DEVCONSOLE_AUTOSAVE", "DEVCONSOLE_HISTORY_PATH", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
}

func TestSettings_Default(t *testing.T) {
	s := Default()

	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.ConfigName != "default" {
		t.Errorf("ConfigName = %q, want default", s.ConfigName)
	}
	if !s.Autosave || s.AutosaveDelay.Duration != 2*time.Second {
		t.Errorf("unexpected autosave defaults: %v %v", s.Autosave, s.AutosaveDelay)
	}
}

func TestSettings_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Settings)
		field   string
		wantErr bool
	}{
		{"valid", func(*Settings) {}, "", false},
		{"empty config name", func(s *Settings) { s.ConfigName = "" }, "config_name", true},
		{"config name with path", func(s *Settings) { s.ConfigName = "../escape" }, "config_name", true},
		{"negative delay", func(s *Settings) { s.AutosaveDelay.Duration = -time.Second }, "autosave_delay", true},
		{"negative interval", func(s *Settings) { s.AutosaveMinInterval.Duration = -1 }, "autosave_min_interval", true},
		{"negative history limit", func(s *Settings) { s.HistoryLimit = -5 }, "history_limit", true},
		{"unlimited history", func(s *Settings) { s.HistoryLimit = 0 }, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(s)
			err := s.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var errs ValidateErrors
			if !errors.As(err, &errs) {
				t.Fatalf("error = %v, want ValidateErrors", err)
			}
			if errs[0].Field != tc.field {
				t.Errorf("field = %q, want %q", errs[0].Field, tc.field)
			}
		})
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
config_name = "user"
debug_mode = true
autosave_delay = "500ms"
history_limit = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "user", s.ConfigName)
	require.True(t, s.DebugMode)
	require.Equal(t, 500*time.Millisecond, s.AutosaveDelay.Duration)
	require.Equal(t, 50, s.HistoryLimit)

	// Missing keys keep their defaults
	require.Equal(t, "] ", s.Prompt)
	require.Equal(t, 5*time.Second, s.AutosaveMinInterval.Duration)
}

func TestLoadFromPath_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"prompt": "> ", "watch_config": false, "autosave_min_interval": "1m"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "> ", s.Prompt)
	require.False(t, s.WatchConfig)
	require.Equal(t, time.Minute, s.AutosaveMinInterval.Duration)
}

func TestLoadFromPath_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`autosave_delay = "soon"`), 0644))
	_, err := LoadFromPath(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte(`history_limit = -1`), 0644))
	_, err = LoadFromPath(invalid)
	var errs ValidateErrors
	require.ErrorAs(t, err, &errs)

	_, err = LoadFromPath(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	s := Default()
	s.ConfigDir = "/tmp/cfg"
	s.NoColor = true
	s.AutosaveDelay.Duration = 1500 * time.Millisecond
	require.NoError(t, SaveTOML(s, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, s, loaded)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEVCONSOLE_CONFIG_DIR", "/srv/cfg")
	t.Setenv("DEVCONSOLE_CONFIG_NAME", "server")
	t.Setenv("DEVCONSOLE_DEBUG", "true")
	t.Setenv("DEVCONSOLE_AUTOSAVE", "0")
	t.Setenv("NO_COLOR", "1")

	s := Default()
	s.ApplyEnvOverrides()

	require.Equal(t, "/srv/cfg", s.ConfigDir)
	require.Equal(t, "server", s.ConfigName)
	require.True(t, s.DebugMode)
	require.False(t, s.Autosave)
	require.True(t, s.NoColor)
}

func TestSettings_GetSet(t *testing.T) {
	s := Default()

	require.NoError(t, s.Set("history_limit", "50"))
	v, err := s.Get("history_limit")
	require.NoError(t, err)
	require.Equal(t, "50", v)

	require.NoError(t, s.Set("AUTOSAVE_DELAY", "750ms"))
	v, err = s.Get("autosave_delay")
	require.NoError(t, err)
	require.Equal(t, "750ms", v)

	require.NoError(t, s.Set("debug_mode", "true"))
	require.True(t, s.DebugMode)

	// Invalid results are rolled back
	require.Error(t, s.Set("history_limit", "-1"))
	require.Equal(t, 50, s.HistoryLimit)

	require.Error(t, s.Set("debug_mode", "maybe"))
	require.Error(t, s.Set("no_such_key", "1"))
	_, err = s.Get("")
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	require.Contains(t, keys, "config_dir")
	require.Contains(t, keys, "autosave_min_interval")
	require.IsIncreasing(t, keys)

	s := Default()
	for _, key := range keys {
		_, err := s.Get(key)
		require.NoError(t, err, key)
	}
}

func TestResolvePaths(t *testing.T) {
	s := Default()
	s.ConfigDir = "/data/cfg"
	s.HistoryPath = "/data/history.db"

	dir, err := s.ResolveConfigDir()
	require.NoError(t, err)
	require.Equal(t, "/data/cfg", dir)

	path, err := s.ResolveHistoryPath()
	require.NoError(t, err)
	require.Equal(t, "/data/history.db", path)
}
