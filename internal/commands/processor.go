// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/devconsole/internal/cvar"
)

// =============================================================================
// DELEGATE
// =============================================================================

// Delegate is implemented by the host that displays console output.
type Delegate interface {
	// LogTerminal writes one line of output
	LogTerminal(line string)

	// LogTable writes cells the host lays out in columns
	LogTable(cells []string)

	// LogError reports a user-facing error. message may be empty.
	LogError(err error, message string)

	// ClearTerminal clears the output buffer
	ClearTerminal()

	// PostNotification announces a state change. cmd is nil when the change
	// did not come from a command handler.
	PostNotification(cmd *Command, name string, data map[string]any)

	// IsPromptEnabled reports whether manual lines are echoed
	IsPromptEnabled() bool
}

// Notification names posted through Delegate.PostNotification. Every
// notification carries KeyManual.
const (
	NotifyCVarChanged     = "cvar_changed"
	NotifyAliasesChanged  = "aliases_changed"
	NotifyBindingsChanged = "bindings_changed"

	KeyManual = "manual"
	KeyName   = "name"
)

// NopDelegate discards all output.
type NopDelegate struct{}

func (NopDelegate) LogTerminal(string)                                {}
func (NopDelegate) LogTable([]string)                                 {}
func (NopDelegate) LogError(error, string)                            {}
func (NopDelegate) ClearTerminal()                                    {}
func (NopDelegate) PostNotification(*Command, string, map[string]any) {}
func (NopDelegate) IsPromptEnabled() bool                             { return false }

// =============================================================================
// PROCESSOR
// =============================================================================

// DefaultAliasDepth is the default limit on nested alias expansions.
const DefaultAliasDepth = 16

// Processor parses and runs console command lines against a Registry.
//
// It is not safe for concurrent use; hosts run it on one goroutine and
// queue work from others.
type Processor struct {
	registry   *Registry
	delegate   Delegate
	logger     *log.Logger
	store      ConfigStore
	sections   []ConfigSection
	configName string
	execDepth  int
	debug      bool
	aliasDepth int
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger }
}

// WithConfigStore sets the store used by exec and writeconfig.
func WithConfigStore(store ConfigStore) ProcessorOption {
	return func(p *Processor) { p.store = store }
}

// WithDebugMode lists Debug commands and variables by default.
func WithDebugMode(debug bool) ProcessorOption {
	return func(p *Processor) { p.debug = debug }
}

// WithAliasDepth sets the nested alias expansion limit.
func WithAliasDepth(depth int) ProcessorOption {
	return func(p *Processor) { p.aliasDepth = depth }
}

// NewProcessor creates a processor. A nil registry gets NewRegistry() and a
// nil delegate gets NopDelegate.
func NewProcessor(registry *Registry, delegate Delegate, opts ...ProcessorOption) *Processor {
	if registry == nil {
		registry = NewRegistry()
	}
	if delegate == nil {
		delegate = NopDelegate{}
	}
	p := &Processor{
		registry:   registry,
		delegate:   delegate,
		logger:     log.New(io.Discard),
		configName: DefaultConfigName,
		aliasDepth: DefaultAliasDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.aliasDepth <= 0 {
		p.aliasDepth = DefaultAliasDepth
	}
	return p
}

func (p *Processor) Registry() *Registry { return p.registry }
func (p *Processor) Delegate() Delegate  { return p.delegate }
func (p *Processor) Logger() *log.Logger { return p.logger }
func (p *Processor) DebugMode() bool     { return p.debug }

// SetDelegate replaces the output delegate.
func (p *Processor) SetDelegate(d Delegate) {
	if d == nil {
		d = NopDelegate{}
	}
	p.delegate = d
}

// SetDebugMode toggles listing of Debug entries.
func (p *Processor) SetDebugMode(debug bool) { p.debug = debug }

// =============================================================================
// EXECUTION
// =============================================================================

// TryExecute runs a command line, which may chain sub-commands with &&.
//
// Sub-commands run in order. A lookup failure, option or argument error, or
// a handler returning false stops the rest of the chain. The result reports
// whether the first sub-command was runnable: it resolved, its options and
// arguments bound, and its handler was invoked. Later links don't affect it.
func (p *Processor) TryExecute(line string, manual bool) bool {
	if manual && p.delegate.IsPromptEnabled() {
		p.delegate.LogTerminal("> " + line)
	}
	p.logger.Debug("EXECUTE", "line", line, "manual", manual)

	runnable, _ := p.executeLine(line, manual, 0)
	return runnable
}

// executeLine runs every sub-command of line. It returns whether the first
// one was runnable and whether the whole chain completed.
func (p *Processor) executeLine(line string, manual bool, depth int) (first, completed bool) {
	segments := Split(line)
	if len(segments) == 0 {
		return false, true
	}

	for i, seg := range segments {
		runnable, ok := p.executeCommand(seg, manual, depth)
		if i == 0 {
			first = runnable
		}
		if !ok {
			if i+1 < len(segments) {
				p.logger.Debug("CHAIN_STOPPED", "at", seg, "skipped", len(segments)-i-1)
			}
			return first, false
		}
	}
	return first, true
}

// executeCommand resolves the first token as an alias, a command or a
// variable, in that order.
func (p *Processor) executeCommand(line string, manual bool, depth int) (runnable, ok bool) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return false, true
	}
	name, args := tokens[0], tokens[1:]

	if alias := p.registry.FindAlias(name); alias != nil {
		return p.expandAlias(alias, args, manual, depth)
	}
	if cmd := p.registry.FindCommand(name); cmd != nil {
		return p.runCommand(cmd, args, manual)
	}
	if v := p.registry.FindVar(name); v != nil {
		return p.runVar(v, args, manual)
	}

	p.reportError(&CommandNotFoundError{Name: name})
	return false, false
}

func (p *Processor) expandAlias(alias *Alias, args []string, manual bool, depth int) (bool, bool) {
	if depth >= p.aliasDepth {
		p.reportError(&AliasDepthError{Name: alias.Name, Depth: p.aliasDepth})
		return false, false
	}

	expansion := alias.Expansion
	if len(args) > 0 {
		expansion += " " + JoinTokens(args)
	}
	if strings.TrimSpace(expansion) == "" {
		return true, true
	}

	p.logger.Debug("ALIAS_EXPAND", "alias", alias.Name, "expansion", expansion, "depth", depth+1)
	return p.executeLine(expansion, manual, depth+1)
}

func (p *Processor) runCommand(cmd *Command, tokens []string, manual bool) (bool, bool) {
	if cmd.Flags.Has(FlagDisabled) {
		p.reportError(&CommandDisabledError{Name: cmd.Name})
		return false, false
	}

	// Commands without options take every token positionally.
	opts, args := newOptions(nil), tokens
	if len(cmd.Options) > 0 {
		var err error
		opts, args, err = BindOptions(cmd.Options, tokens)
		if err != nil {
			p.reportError(fmt.Errorf("%s: %w", cmd.Name, err))
			return false, false
		}
	}

	sig, values, err := matchSignature(cmd, args)
	if err != nil {
		p.reportError(err)
		return false, false
	}

	ctx := &Context{
		Command:   cmd,
		Processor: p,
		Registry:  p.registry,
		Options:   opts,
		Args:      args,
		Manual:    manual,
		values:    values,
	}
	return true, p.invoke(sig, ctx)
}

// invoke runs a handler, turning a panic into a reported failure.
func (p *Processor) invoke(sig *Signature, ctx *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("COMMAND_PANIC", "command", ctx.Command.Name, "panic", r)
			p.delegate.LogError(fmt.Errorf("%v", r), ctx.Command.Name+": command failed")
			ok = false
		}
	}()
	return sig.Handler(ctx)
}

func (p *Processor) runVar(v *cvar.CVar, args []string, manual bool) (bool, bool) {
	if len(args) == 0 {
		p.delegate.LogTerminal(fmt.Sprintf("%s is \"%s\"", v.Name(), v.Value()))
		return true, true
	}

	before := v.Value()
	if err := v.SetValue(strings.Join(args, " ")); err != nil {
		p.reportError(err)
		return false, false
	}
	if v.Value() != before {
		p.logger.Debug("CVAR_SET", "name", v.Name(), "old", before, "new", v.Value())
		p.postNotification(nil, NotifyCVarChanged, manual, map[string]any{KeyName: v.Name()})
	}
	return true, true
}

func (p *Processor) reportError(err error) {
	p.logger.Debug("COMMAND_ERROR", "err", err)
	p.delegate.LogError(err, "")
}

// PostNotification announces a change that did not come from a handler.
func (p *Processor) PostNotification(name string, manual bool, data map[string]any) {
	p.postNotification(nil, name, manual, data)
}

func (p *Processor) postNotification(cmd *Command, name string, manual bool, data map[string]any) {
	payload := make(map[string]any, len(data)+1)
	maps.Copy(payload, data)
	payload[KeyManual] = manual
	p.delegate.PostNotification(cmd, name, payload)
}
