// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// CONFIG PERSISTENCE
// =============================================================================

// DefaultConfigName is the config written by a bare writeconfig.
const DefaultConfigName = "default"

const maxExecDepth = 8

var (
	// ErrNoConfigStore is returned when exec or writeconfig run without a store.
	ErrNoConfigStore = errors.New("no config store")

	// ErrExecDepth is returned when config files exec each other too deeply.
	ErrExecDepth = errors.New("exec nested too deeply")
)

// ConfigStore reads and writes named config texts.
type ConfigStore interface {
	ReadText(name string) (string, error)
	WriteText(name, text string) error
}

// ConfigSection contributes command lines to written configs. Each line must
// replay through the processor.
type ConfigSection interface {
	SectionName() string
	ConfigLines() []string
}

// WithConfigName sets the config written by a bare writeconfig.
func WithConfigName(name string) ProcessorOption {
	return func(p *Processor) {
		if name != "" {
			p.configName = name
		}
	}
}

// ConfigName returns the default config name.
func (p *Processor) ConfigName() string { return p.configName }

// SetConfigStore replaces the config store.
func (p *Processor) SetConfigStore(store ConfigStore) { p.store = store }

// AddConfigSection appends a section written after cvars and aliases.
func (p *Processor) AddConfigSection(s ConfigSection) {
	p.sections = append(p.sections, s)
}

// ConfigText renders the archived state: every non-default variable not
// flagged NoArchive, every alias, and each added section.
func (p *Processor) ConfigText() string {
	var b strings.Builder

	b.WriteString("// cvars\n")
	for _, v := range p.registry.ListVars("", ListOptions{All: true, Debug: true}) {
		if v.IsDefault() || v.HasFlag(cvar.FlagNoArchive) {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", v.Name(), QuoteToken(v.Value()))
	}

	if aliases := p.registry.ListAliases(""); len(aliases) > 0 {
		b.WriteString("\n// aliases\n")
		for _, a := range aliases {
			fmt.Fprintf(&b, "alias %s %s\n", a.Name, QuoteToken(a.Expansion))
		}
	}

	for _, s := range p.sections {
		lines := s.ConfigLines()
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n// %s\n", s.SectionName())
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// WriteConfig stores ConfigText under name, or the default name if empty.
func (p *Processor) WriteConfig(name string) error {
	if p.store == nil {
		return ErrNoConfigStore
	}
	if name == "" {
		name = p.configName
	}
	if err := p.store.WriteText(name, p.ConfigText()); err != nil {
		return fmt.Errorf("write config %s: %w", name, err)
	}
	p.logger.Debug("CONFIG_WRITTEN", "name", name)
	return nil
}

// ExecConfig replays every line of the named config as non-manual input.
// Blank lines and // comments are skipped. A failing line is reported and
// the rest still run.
func (p *Processor) ExecConfig(name string) error {
	if p.store == nil {
		return ErrNoConfigStore
	}
	if p.execDepth >= maxExecDepth {
		return fmt.Errorf("exec %s: %w", name, ErrExecDepth)
	}

	text, err := p.store.ReadText(name)
	if err != nil {
		return fmt.Errorf("read config %s: %w", name, err)
	}

	p.execDepth++
	defer func() { p.execDepth-- }()

	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		p.TryExecute(line, false)
		count++
	}
	p.logger.Debug("CONFIG_EXEC", "name", name, "lines", count)
	return nil
}
