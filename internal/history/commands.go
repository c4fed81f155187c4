// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"github.com/jeranaias/devconsole/internal/commands"
)

// DefaultShown is how many entries history prints without -n.
const DefaultShown = 20

// RegisterCommands adds the history command backed by s.
func RegisterCommands(r *commands.Registry, s *Store) {
	r.Register(&commands.Command{
		Name:        "history",
		Description: "Show or clear command history",
		Options: []commands.OptionDescriptor{
			{Name: "count", ShortName: "n", Kind: commands.KindInt, Default: DefaultShown, Description: "number of entries to show"},
			{Name: "clear", ShortName: "c", Kind: commands.KindBool, Description: "remove every entry"},
		},
		Signatures: []commands.Signature{commands.Sig(func(ctx *commands.Context) bool {
			if ctx.Options.Bool("clear") {
				if err := s.Clear(); err != nil {
					return ctx.Error(err)
				}
				ctx.Println("history cleared")
				return true
			}

			entries, err := s.Recent(ctx.Options.Int("count"))
			if err != nil {
				return ctx.Error(err)
			}
			for _, e := range entries {
				ctx.Printf("%5d  %s", e.ID, e.Line)
			}
			return true
		})},
		Owner: s,
	})
}
