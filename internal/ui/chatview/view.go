// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"strings"

	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(components.Header(m.theme, m.locale, m.width))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(components.ErrorBanner(m.theme, m.errText, m.width))
		b.WriteString("\n")
	}

	if m.recording {
		b.WriteString(components.RecordingView(
			m.theme, m.locale,
			m.recorder.Seconds(),
			m.recorder.Levels(),
			m.recorder.CanSend(),
		))
	} else if m.sending {
		b.WriteString(m.theme.ThinkingText.Render(
			m.spinner.View() + " " + m.locale.T("thinking"),
		))
	} else {
		b.WriteString(m.theme.InputContainer.Render(m.input.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.statusBar())

	return b.String()
}

// refreshTranscript rebuilds the viewport content from the message store.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	msgs := m.store.Messages()
	m.rendered = len(msgs)
	if len(msgs) == 0 {
		m.viewport.SetContent(m.theme.ThinkingText.Render(m.locale.T("alwaysHereToHelp")))
		return
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

func (m *Model) renderMessage(msg *model.Message) string {
	bubble := components.NewMessageBubble(msg, m.theme, m.locale)
	bubble.Width = m.viewport.Width
	bubble.RenderMarkdown = m.renderMarkdown

	// Reflect live playback state on the bubble that owns the clip.
	if p, ok := m.players[msg.ID]; ok {
		bubble.Playing = p.Playing()
		bubble.Progress = p.Progress()
	}
	return bubble.View()
}

func (m *Model) statusBar() string {
	k := func(keys, desc string) string {
		return m.theme.ShortcutKey.Render(keys) + " " + m.theme.ShortcutDesc.Render(desc)
	}

	shortcuts := []string{
		k("enter", m.locale.T("sendMessage")),
		k("ctrl+r", m.locale.T("voiceNote.record")),
		k("ctrl+p", m.locale.T("voiceNote.play")),
		k("ctrl+g", "infograph"),
		k("ctrl+e", "export"),
		k("ctrl+l", m.locale.T("clear")),
		k("esc", m.locale.T("stopResponse")),
	}
	bar := strings.Join(shortcuts, "  ")

	if m.orch.InfographEnabled() {
		bar += "  " + m.theme.InfographBadge.Render(m.locale.T("infograph.on"))
	}
	if m.statusMsg != "" {
		bar += "  " + m.theme.ShortcutDesc.Render(m.statusMsg)
	}

	return m.theme.StatusBar.Width(m.width).Render(bar)
}
