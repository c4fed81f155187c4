// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the console packages.
//
// File Operations:
//   - AtomicWriteFile: crash-safe config writes through a synced, hidden
//     .tmp sibling renamed over the target, keeping the target's mode
//
// Display Width:
//   - StringWidth, TruncateWidth, PadRight: column-aware text layout for
//     terminal tables, backed by go-runewidth
package util
