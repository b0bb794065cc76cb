// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/trends-tui/internal/audio"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
)

// RecordingView renders the live capture strip shown in place of the input
// while a voice note is being recorded: red dot, elapsed time, level meter,
// and the send/cancel hints.
func RecordingView(theme *styles.Theme, locale i18n.Locale, seconds int, levels []int, canSend bool) string {
	var sb strings.Builder

	sb.WriteString(theme.RecordingDot.Render("●"))
	sb.WriteString(" " + theme.RecordingTime.Render(formatClock(seconds)))
	sb.WriteString("  ")

	for _, h := range levels {
		g := string(glyphFor(h, audio.RecordingMinBar, audio.RecordingMaxBar))
		sb.WriteString(theme.VoiceBarFilled.Render(g))
	}

	sb.WriteString("  " + theme.ThinkingText.Render(locale.T("voiceNote.recording")))

	hint := locale.T("voiceNote.tooShort")
	if canSend {
		hint = fmt.Sprintf("%s: %s  %s: %s",
			theme.ShortcutKey.Render("enter"), theme.ShortcutDesc.Render(locale.T("voiceNote.send")),
			theme.ShortcutKey.Render("esc"), theme.ShortcutDesc.Render(locale.T("voiceNote.cancel")))
	}
	sb.WriteString("\n" + hint)
	return sb.String()
}
