// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/devconsole/internal/config"
	"github.com/jeranaias/devconsole/internal/terminal"
)

type rootFlags struct {
	settingsPath string
	configDir    string
	configName   string
	debug        bool
	noHistory    bool
	exec         []string
	set          []string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "devconsole",
		Short: "An interactive developer console",
		Long: `devconsole runs a developer console with commands, console variables,
aliases and key bindings. State is kept in .cfg files under the config
directory and replayed at startup.

Examples:
  devconsole                          Start the interactive console
  devconsole --exec "cvarlist"        Run a line, then go interactive
  echo "cmdlist" | devconsole         Run piped lines and exit`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}

			logger := newLogger(settings.DebugMode)
			a, err := newApp(settings, appIO{
				out:     cmd.OutOrStdout(),
				profile: terminal.ColorProfile(os.Stdout, settings.NoColor),
				width:   func() int { return terminal.Width(os.Stdout) },
			}, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, line := range flags.exec {
				a.runLine(line)
			}
			if a.quit.Load() {
				return nil
			}
			if terminal.IsTerminal(os.Stdin) {
				return a.runInteractive(cmd.Context())
			}
			return a.runScript(cmd.Context(), cmd.InOrStdin())
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.settingsPath, "settings", "", "settings file (default ~/.devconsole/settings.toml)")
	f.StringVar(&flags.configDir, "config-dir", "", "directory of .cfg files")
	f.StringVarP(&flags.configName, "config", "c", "", "config executed at startup and written by writeconfig")
	f.BoolVarP(&flags.debug, "debug", "d", false, "enable debug commands and debug logging")
	f.BoolVar(&flags.noHistory, "no-history", false, "do not record command history")
	f.StringArrayVarP(&flags.exec, "exec", "e", nil, "command line to run after startup (repeatable)")
	f.StringArrayVar(&flags.set, "set", nil, "override a setting, key=value (repeatable)")

	return cmd
}

// loadSettings applies file, environment, then flags.
func loadSettings(flags rootFlags) (*config.Settings, error) {
	var settings *config.Settings
	var err error
	if flags.settingsPath != "" {
		settings, err = config.LoadFromPath(flags.settingsPath)
		if err != nil {
			return nil, err
		}
	} else {
		settings, err = config.Load()
		if settings == nil {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
	}

	for _, kv := range flags.set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want key=value", kv)
		}
		if err := settings.Set(strings.TrimSpace(key), value); err != nil {
			return nil, fmt.Errorf("--set %s: %w", key, err)
		}
	}

	if flags.configDir != "" {
		settings.ConfigDir = flags.configDir
	}
	if flags.configName != "" {
		settings.ConfigName = flags.configName
	}
	if flags.debug {
		settings.DebugMode = true
	}
	if flags.noHistory {
		settings.HistoryEnabled = false
	}
	return settings, settings.Validate()
}

func newLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "devconsole",
		Level:  level,
	})
}
