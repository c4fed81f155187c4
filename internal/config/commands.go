// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"strings"

	"github.com/jeranaias/devconsole/internal/commands"
)

// RegisterCommands adds the settings command, which shows the host
// settings s was loaded with.
func RegisterCommands(r *commands.Registry, s *Settings) {
	r.Register(&commands.Command{
		Name:        "settings",
		Description: "Show host settings",
		Values:      Keys(),
		Signatures: []commands.Signature{commands.Sig(func(ctx *commands.Context) bool {
			prefix := strings.ToLower(ctx.StringOr(0, ""))
			for _, key := range Keys() {
				if !strings.HasPrefix(key, prefix) {
					continue
				}
				value, err := s.Get(key)
				if err != nil {
					return ctx.Error(err)
				}
				ctx.Printf("%s = %s", key, commands.QuoteToken(value))
			}
			return true
		}, commands.OptionalArg("prefix", commands.ArgString))},
		Owner: s,
	})
}
