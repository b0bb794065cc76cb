// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for trends-tui.
//
// String helpers are rune- and width-aware so Arabic and mixed-direction
// text never gets cut mid-character, and AtomicWriteFile gives the session
// snapshot files crash-safe persistence.
package util
