// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal implements the console delegate for a text terminal.
//
// Console writes output lines, lays tables out in columns, styles errors
// and echoed input with lipgloss when the color profile allows, and fans
// processor notifications out to observers such as the autosaver.
package terminal
