// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits a command line into tokens, respecting quotes.
//
// A token that starts with ' or " has its quotes stripped and \' or \"
// (matching the active quote) unescaped. A token that starts unquoted keeps
// any quote characters it contains, so `a1="x y"` stays one token with its
// quotes. Unterminated quotes run to the end of the line. Tokenize never fails.
func Tokenize(line string) []string {
	var tokens []string
	runes := []rune(line)
	n := len(runes)

	for i := 0; i < n; {
		for i < n && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= n {
			break
		}

		var current strings.Builder
		strip := isQuote(runes[i])
		var quote rune

	scan:
		for i < n {
			char := runes[i]

			if quote == 0 {
				switch {
				case unicode.IsSpace(char):
					break scan
				case isQuote(char):
					quote = char
					if !strip {
						current.WriteRune(char)
					}
				case char == '\\' && i+1 < n && unicode.IsSpace(runes[i+1]):
					// Escaped whitespace outside quotes
					current.WriteRune(runes[i+1])
					i++
				default:
					current.WriteRune(char)
				}
				i++
				continue
			}

			switch {
			case char == '\\' && i+1 < n && runes[i+1] == quote:
				if !strip {
					current.WriteRune(char)
				}
				current.WriteRune(quote)
				i += 2
				continue
			case char == quote:
				quote = 0
				if !strip {
					current.WriteRune(char)
				}
			default:
				current.WriteRune(char)
			}
			i++
		}
		tokens = append(tokens, current.String())
	}

	return tokens
}

// AutoCompleteToken returns the partial token at the end of line: the raw text
// after the last unquoted, unescaped whitespace. It returns an empty string
// when the line ends in such whitespace.
func AutoCompleteToken(line string) string {
	start := 0
	var quote rune
	runes := []rune(line)
	offset := 0

	for i := 0; i < len(runes); i++ {
		char := runes[i]
		offset += len(string(char))

		if char == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if (quote != 0 && next == quote) || (quote == 0 && unicode.IsSpace(next)) {
				offset += len(string(next))
				i++
				continue
			}
		}

		if quote != 0 {
			if char == quote {
				quote = 0
			}
			continue
		}
		switch {
		case isQuote(char):
			quote = char
		case unicode.IsSpace(char):
			start = offset
		}
	}

	return line[start:]
}

// =============================================================================
// QUOTING
// =============================================================================

// QuoteToken returns s in a form Tokenize reads back as the single token s.
//
// A trailing backslash can't sit before a closing quote, where it would read
// as an escape. Trailing backslashes go after the quoted part instead,
// followed by an empty quoted pair so the next character is never whitespace.
func QuoteToken(s string) string {
	if s == "" {
		return `""`
	}
	if !needsQuotes(s) {
		return s
	}

	body := strings.TrimRight(s, `\`)
	tail := s[len(body):]

	quote := `"`
	if strings.ContainsRune(body, '"') && !strings.ContainsRune(body, '\'') {
		quote = "'"
	}
	quoted := quote + strings.ReplaceAll(body, quote, `\`+quote) + quote
	if tail == "" {
		return quoted
	}
	return quoted + tail + quote + quote
}

// JoinTokens is the inverse of Tokenize for the given tokens.
func JoinTokens(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = QuoteToken(t)
	}
	return strings.Join(quoted, " ")
}

func needsQuotes(s string) bool {
	if strings.Contains(s, "&&") {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) || isQuote(r) || r == '\\' {
			return true
		}
	}
	return false
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}
