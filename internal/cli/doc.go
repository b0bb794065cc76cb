// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal mode of trends-tui: a
// readline-style REPL for environments where the full-screen TUI is
// unavailable or unwanted (pipes, CI, --plain).
package cli
