// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the output styles of a Console.
type Styles struct {
	// Echo styles echoed input lines
	Echo lipgloss.Style

	// Error styles reported errors
	Error lipgloss.Style
}

// NewStyles builds styles rendered for w with the given profile.
func NewStyles(w io.Writer, profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return Styles{
		Echo:  r.NewStyle().Foreground(lipgloss.Color("245")), // Light gray
		Error: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}
