// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// AUTOCOMPLETE
// =============================================================================

// CompletionResult is the outcome of one tab press.
type CompletionResult struct {
	// Line is the input line after completion; unchanged if nothing completed
	Line string

	// Completed is true when Line differs from the input
	Completed bool

	// Candidates lists every match when a double tab found more than one
	Candidates []string
}

// AutoComplete completes the token being typed at the end of line.
//
// The first token of the last sub-command completes against visible command,
// variable and alias names. Later tokens complete against option names when
// they start with "-", the allowed values of the preceding option, or the
// command's positional values. A single match is completed with a trailing
// space. Several matches complete to their longest common prefix; with
// doubleTab they are also returned sorted in Candidates.
func (p *Processor) AutoComplete(line string, doubleTab bool) CompletionResult {
	start := LastCommandStart(line)
	current := line[start:]
	partial := AutoCompleteToken(current)
	before := Tokenize(current[:len(current)-len(partial)])

	prefix := ""
	if toks := Tokenize(partial); len(toks) > 0 {
		prefix = toks[0]
	}

	var candidates []string
	if len(before) == 0 {
		candidates = p.nameCandidates(prefix)
	} else {
		candidates = p.argumentCandidates(before, prefix)
	}

	matches := filterPrefix(candidates, prefix)
	result := CompletionResult{Line: line}
	if len(matches) == 0 {
		return result
	}

	base := line[:len(line)-len(partial)]
	if len(matches) == 1 {
		result.Line = base + QuoteToken(matches[0]) + " "
		result.Completed = result.Line != line
		return result
	}

	if common := commonPrefix(matches); len([]rune(common)) > len([]rune(prefix)) {
		result.Line = base + quotePartial(common)
		result.Completed = true
	}
	if doubleTab {
		result.Candidates = matches
	}
	return result
}

func (p *Processor) nameCandidates(prefix string) []string {
	opts := ListOptions{Debug: p.debug}

	var names []string
	for _, cmd := range p.registry.ListCommands(prefix, opts) {
		names = append(names, cmd.Name)
	}
	for _, v := range p.registry.ListVars(prefix, opts) {
		names = append(names, v.Name())
	}
	for _, a := range p.registry.ListAliases(prefix) {
		names = append(names, a.Name)
	}
	return names
}

func (p *Processor) argumentCandidates(before []string, prefix string) []string {
	name := before[0]

	if cmd := p.registry.FindCommand(name); cmd != nil {
		if strings.HasPrefix(prefix, "-") {
			return optionNames(cmd.Options)
		}
		if len(before) > 1 {
			last := before[len(before)-1]
			if isOptionToken(last) {
				if d := findOption(cmd.Options, last); d != nil && !d.IsFlag() {
					return d.Values
				}
			}
		}
		values := append([]string(nil), cmd.Values...)
		if cmd.ValuesFunc != nil {
			values = append(values, cmd.ValuesFunc()...)
		}
		return values
	}

	if v := p.registry.FindVar(name); v != nil && v.Type() == cvar.Boolean && len(before) == 1 {
		return []string{"0", "1"}
	}
	return nil
}

func optionNames(descs []OptionDescriptor) []string {
	var names []string
	for _, d := range descs {
		names = append(names, "--"+d.Name)
		if d.ShortName != "" {
			names = append(names, "-"+d.ShortName)
		}
	}
	return names
}

// filterPrefix returns the distinct candidates starting with prefix, ignoring
// case, sorted.
func filterPrefix(candidates []string, prefix string) []string {
	p := fold(prefix)
	seen := make(map[string]bool)

	var out []string
	for _, c := range candidates {
		key := fold(c)
		if seen[key] || !strings.HasPrefix(key, p) {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return fold(out[i]) < fold(out[j])
	})
	return out
}

// commonPrefix returns the longest case-insensitive common prefix, spelled
// as in the first string.
func commonPrefix(values []string) string {
	first := []rune(values[0])
	n := len(first)
	for _, v := range values[1:] {
		r := []rune(v)
		if len(r) < n {
			n = len(r)
		}
		for i := 0; i < n; i++ {
			if unicode.ToLower(r[i]) != unicode.ToLower(first[i]) {
				n = i
				break
			}
		}
	}
	return string(first[:n])
}

// quotePartial quotes an incomplete token, leaving the quote open so typing
// can continue.
func quotePartial(s string) string {
	if !needsQuotes(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`)
}
