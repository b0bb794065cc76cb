// terminal.go - Terminal detection for trends-tui.
//
// USABILITY: TTY detection decides between the full-screen TUI and the
// plain REPL, and whether colored output is appropriate.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive returns true when both ends of the terminal are attached.
// The full-screen TUI requires this; anything else falls back to plain mode.
func IsInteractive() bool {
	return IsTTY() && IsStdoutTTY()
}

// ColorEnabled reports whether colored output should be produced.
// Respects NO_COLOR and non-TTY stdout.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !IsStdoutTTY() {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// TerminalWidth returns the current terminal width, or a default of 80.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
