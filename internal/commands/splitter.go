// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// =============================================================================
// COMMAND SPLITTER
// =============================================================================

// Split breaks a command line on "&&" separators that are not inside quotes.
// Segments are trimmed and empty segments are dropped. "a&&b" yields "a", "b".
func Split(line string) []string {
	var out []string
	for _, seg := range splitRanges(line) {
		if s := strings.TrimSpace(line[seg[0]:seg[1]]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LastCommandStart returns the byte offset where the last sub-command of line
// begins, after any leading whitespace.
func LastCommandStart(line string) int {
	ranges := splitRanges(line)
	start := ranges[len(ranges)-1][0]
	for start < len(line) && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	return start
}

// splitRanges returns [start, end) byte ranges of every segment, including
// empty ones. It always returns at least one range.
func splitRanges(line string) [][2]int {
	var ranges [][2]int
	var quote byte
	start := 0

	for i := 0; i < len(line); i++ {
		c := line[i]

		if quote != 0 {
			switch {
			case c == '\\' && i+1 < len(line) && line[i+1] == quote:
				i++
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '&' && i+1 < len(line) && line[i+1] == '&':
			ranges = append(ranges, [2]int{start, i})
			start = i + 2
			i++
		}
	}

	return append(ranges, [2]int{start, len(line)})
}
