// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview is the Bubble Tea chat surface.
//
// This file defines keyboard bindings for the chat interface.
package chatview

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings for the chat interface.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Record    key.Binding
	PlayPause key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Infograph key.Binding
	Export    key.Binding
	Clear     key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop"),
		),
		Record: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "voice note"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "play/pause"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("alt+left"),
			key.WithHelp("M-←", "seek back"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("alt+right"),
			key.WithHelp("M-→", "seek forward"),
		),
		Infograph: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "infograph"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}
