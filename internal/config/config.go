// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/devconsole/internal/util"
)

// =============================================================================
// SETTINGS STRUCTURES
// =============================================================================

// Settings holds the host settings of the console. Console state itself
// (cvars, aliases, bindings) lives in .cfg files under ConfigDir.
type Settings struct {
	// ConfigDir holds the .cfg files; empty means <settings dir>/cfg
	ConfigDir string `toml:"config_dir" json:"config_dir"`

	// ConfigName is the config read at startup and written by writeconfig
	ConfigName string `toml:"config_name" json:"config_name"`

	DebugMode bool `toml:"debug_mode" json:"debug_mode"`

	// Prompt is shown before each input line
	Prompt string `toml:"prompt" json:"prompt"`

	// PromptEcho echoes manual lines to the output
	PromptEcho bool `toml:"prompt_echo" json:"prompt_echo"`

	// Autosave writes the config after manual changes
	Autosave            bool     `toml:"autosave" json:"autosave"`
	AutosaveDelay       Duration `toml:"autosave_delay" json:"autosave_delay"`
	AutosaveMinInterval Duration `toml:"autosave_min_interval" json:"autosave_min_interval"`

	// WatchConfig re-executes the config when it changes on disk
	WatchConfig bool `toml:"watch_config" json:"watch_config"`

	HistoryEnabled bool   `toml:"history_enabled" json:"history_enabled"`
	HistoryPath    string `toml:"history_path" json:"history_path"`
	HistoryLimit   int    `toml:"history_limit" json:"history_limit"`

	NoColor bool `toml:"no_color" json:"no_color"`
}

// Duration is a time.Duration written as "1.5s" in settings files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// =============================================================================
// DEFAULT SETTINGS
// =============================================================================

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		ConfigName:          "default",
		Prompt:              "] ",
		PromptEcho:          true,
		Autosave:            true,
		AutosaveDelay:       Duration{2 * time.Second},
		AutosaveMinInterval: Duration{5 * time.Second},
		WatchConfig:         true,
		HistoryEnabled:      true,
		HistoryLimit:        1000,
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// SettingsDir returns the devconsole settings directory.
func SettingsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".devconsole"), nil
}

// SettingsPathTOML returns the path to the TOML settings file.
func SettingsPathTOML() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.toml"), nil
}

// SettingsPathJSON returns the path to the JSON settings file.
func SettingsPathJSON() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// ResolveConfigDir returns the directory for .cfg files.
func (s *Settings) ResolveConfigDir() (string, error) {
	if s.ConfigDir != "" {
		return s.ConfigDir, nil
	}
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cfg"), nil
}

// ResolveHistoryPath returns the history database path.
func (s *Settings) ResolveHistoryPath() (string, error) {
	if s.HistoryPath != "" {
		return s.HistoryPath, nil
	}
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the settings file, TOML first, then JSON, falling back to
// defaults. Environment overrides are applied last. A file that fails to
// decode is reported alongside the defaults.
func Load() (*Settings, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){SettingsPathTOML, SettingsPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		s, err := LoadFromPath(path)
		if err == nil {
			return s, nil
		}
		loadErr = err
		break
	}

	s := Default()
	s.ApplyEnvOverrides()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, loadErr
}

// LoadFromPath loads settings from path, TOML unless it ends in .json.
func LoadFromPath(path string) (*Settings, error) {
	s := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(s, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON settings from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(s, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML settings from %s: %w", path, err)
		}
	}

	s.ApplyEnvOverrides()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// LoadTOML decodes a TOML file over s. Keys missing from the file keep
// their current values.
func LoadTOML(s *Settings, path string) error {
	if _, err := toml.DecodeFile(path, s); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over s.
func LoadJSON(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes s to the default TOML settings file.
func Save(s *Settings) error {
	path, err := SettingsPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(s, path)
}

// SaveTOML writes s to path atomically.
func SaveTOML(s *Settings, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# devconsole settings\n")
	buf.WriteString("# Console state (cvars, aliases, bindings) lives in the .cfg files under config_dir.\n\n")

	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks s and returns every problem found.
func (s *Settings) Validate() error {
	var errs ValidateErrors

	if s.ConfigName == "" {
		errs = append(errs, ValidationError{Field: "config_name", Message: "must not be empty"})
	} else if strings.ContainsAny(s.ConfigName, `/\`) || s.ConfigName == "." || s.ConfigName == ".." {
		errs = append(errs, ValidationError{
			Field:   "config_name",
			Message: fmt.Sprintf("invalid name '%s', must be a plain file name", s.ConfigName),
		})
	}

	if s.AutosaveDelay.Duration < 0 {
		errs = append(errs, ValidationError{Field: "autosave_delay", Message: "must not be negative"})
	}
	if s.AutosaveMinInterval.Duration < 0 {
		errs = append(errs, ValidationError{Field: "autosave_min_interval", Message: "must not be negative"})
	}

	if s.HistoryLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "history_limit",
			Message: fmt.Sprintf("invalid limit %d, must be 0 (unlimited) or positive", s.HistoryLimit),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - DEVCONSOLE_CONFIG_DIR: overrides config_dir
//   - DEVCONSOLE_CONFIG_NAME: overrides config_name
//   - DEVCONSOLE_DEBUG: "1" or "true" enables debug_mode
//   - DEVCONSOLE_AUTOSAVE: "0" or "false" disables autosave
//   - DEVCONSOLE_HISTORY_PATH: overrides history_path
//   - NO_COLOR: any non-empty value sets no_color
func (s *Settings) ApplyEnvOverrides() {
	if dir := os.Getenv("DEVCONSOLE_CONFIG_DIR"); dir != "" {
		s.ConfigDir = dir
	}
	if name := os.Getenv("DEVCONSOLE_CONFIG_NAME"); name != "" {
		s.ConfigName = name
	}
	if debug := os.Getenv("DEVCONSOLE_DEBUG"); debug != "" {
		s.DebugMode = envBool(debug)
	}
	if autosave := os.Getenv("DEVCONSOLE_AUTOSAVE"); autosave != "" {
		s.Autosave = envBool(autosave)
	}
	if path := os.Getenv("DEVCONSOLE_HISTORY_PATH"); path != "" {
		s.HistoryPath = path
	}
	if os.Getenv("NO_COLOR") != "" {
		s.NoColor = true
	}
}

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// =============================================================================
// GET/SET HELPERS
// =============================================================================

// Keys returns every settings key, sorted.
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, tomlKey(t.Field(i)))
	}
	sort.Strings(keys)
	return keys
}

func tomlKey(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

func (s *Settings) field(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(tomlKey(t.Field(i)), key) {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unknown setting: %s", key)
}

// Get returns the value of a settings key formatted as text.
func (s *Settings) Get(key string) (string, error) {
	field, err := s.field(key)
	if err != nil {
		return "", err
	}
	switch v := field.Interface().(type) {
	case Duration:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Set parses value into a settings key. The settings are validated after
// the change; an invalid result is rolled back.
func (s *Settings) Set(key, value string) error {
	field, err := s.field(key)
	if err != nil {
		return err
	}
	old := reflect.New(field.Type()).Elem()
	old.Set(field)

	if err := setFieldValue(field, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := s.Validate(); err != nil {
		field.Set(old)
		return err
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if d, ok := field.Addr().Interface().(*Duration); ok {
		return d.UnmarshalText([]byte(value))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %w", err)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("cannot assign to %s", field.Type())
	}
	return nil
}

// Clone returns a copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}
