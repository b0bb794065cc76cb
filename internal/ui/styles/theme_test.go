// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	// Styles must render without panicking.
	_ = theme.UserBubble.Render("hello")
	_ = theme.ErrorBox.Render("oops")
	_ = theme.HeaderTitle.Render("title")
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}
