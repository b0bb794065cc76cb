// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
)

// Header renders the title bar: assistant name and tagline.
func Header(theme *styles.Theme, locale i18n.Locale, width int) string {
	title := theme.HeaderTitle.Render(locale.T("smartAssistant"))
	subtitle := theme.HeaderSubtitle.Render(locale.T("alwaysHereToHelp"))
	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", subtitle)
	return theme.Header.Width(width).Render(line)
}

// ErrorBanner renders the transient error box shown above the input.
func ErrorBanner(theme *styles.Theme, text string, width int) string {
	if text == "" {
		return ""
	}
	return theme.ErrorBox.MaxWidth(width).Render(text)
}
