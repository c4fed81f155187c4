// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrCommandNotFound    = errors.New("command not found")
	ErrWrongArgumentCount = errors.New("wrong number of arguments")
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrCommandDisabled    = errors.New("command is disabled")
	ErrAliasDepth         = errors.New("alias expansion too deep")
)

// CommandNotFoundError reports a first token that names nothing registered.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return "command not found: " + e.Name
}

func (e *CommandNotFoundError) Is(target error) bool { return target == ErrCommandNotFound }

// CommandDisabledError reports an attempt to run a FlagDisabled command.
type CommandDisabledError struct {
	Name string
}

func (e *CommandDisabledError) Error() string {
	return e.Name + ": command is disabled"
}

func (e *CommandDisabledError) Is(target error) bool { return target == ErrCommandDisabled }

// WrongArgumentCountError reports that no signature accepts the argument count.
type WrongArgumentCountError struct {
	Command string
	Got     int
	Usage   string
}

func (e *WrongArgumentCountError) Error() string {
	return fmt.Sprintf("%s: wrong number of arguments (got %d)\n%s", e.Command, e.Got, e.Usage)
}

func (e *WrongArgumentCountError) Is(target error) bool { return target == ErrWrongArgumentCount }

// ArgumentTypeError reports a positional token that doesn't convert to its
// parameter type.
type ArgumentTypeError struct {
	Command string
	Param   string
	Index   int
	Value   string
	Type    ArgType
	Err     error
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("%s: invalid value %q for argument '%s' - expected: %s", e.Command, e.Value, e.Param, e.Type)
}

func (e *ArgumentTypeError) Is(target error) bool { return target == ErrInvalidArgument }

func (e *ArgumentTypeError) Unwrap() error { return e.Err }

// OptionError reports an unknown option or a missing option value.
type OptionError struct {
	Option  string
	Message string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Option, e.Message)
}

func (e *OptionError) Is(target error) bool { return target == ErrInvalidOption }

// OptionValueError reports an option value that fails to parse or is not
// one of the allowed values.
type OptionValueError struct {
	Option  string
	Value   string
	Message string
}

func (e *OptionValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %q - %s", e.Option, e.Value, e.Message)
}

func (e *OptionValueError) Is(target error) bool { return target == ErrInvalidOption }

// AliasDepthError reports alias expansion nested past the processor limit,
// usually an alias that refers to itself.
type AliasDepthError struct {
	Name  string
	Depth int
}

func (e *AliasDepthError) Error() string {
	return fmt.Sprintf("%s: alias expansion exceeded %d levels", e.Name, e.Depth)
}

func (e *AliasDepthError) Is(target error) bool { return target == ErrAliasDepth }
