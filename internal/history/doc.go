// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records manually entered console lines in SQLite.
//
// Each Store tags its entries with a session UUID so several consoles can
// share one database. The history command prints or clears it:
//
//	history           last 20 lines
//	history -n 100    last 100 lines
//	history -c        clear
package history
