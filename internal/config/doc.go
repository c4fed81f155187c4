// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides the host settings and the on-disk side of console
// configs.
//
// # Key Types
//
//   - Settings: host settings loaded from TOML or JSON with env overrides
//   - FileStore: commands.ConfigStore over a directory of .cfg files
//   - AutoSaver: debounced, rate-limited writeconfig after manual changes
//   - Watcher: fsnotify watcher reporting configs edited outside the console
//
// # Settings Precedence
//
// Settings are loaded from (in order of precedence):
//   - Environment variables (DEVCONSOLE_*, NO_COLOR)
//   - ~/.devconsole/settings.toml
//   - ~/.devconsole/settings.json
//   - Built-in defaults
//
// # Usage
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dir, _ := settings.ResolveConfigDir()
//	proc.SetConfigStore(config.NewFileStore(dir))
package config
