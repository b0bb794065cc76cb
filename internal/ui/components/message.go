// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the trends TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/trends-tui/internal/audio"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
	"github.com/jeranaias/trends-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one transcript message.
type MessageBubble struct {
	Message *model.Message
	Width   int
	Locale  i18n.Locale

	// RenderMarkdown renders assistant text, nil for plain output.
	RenderMarkdown func(string) string
	// Player state for audio-bearing messages; nil when the message has
	// no audio or no player exists yet.
	Playing  bool
	Progress float64

	theme *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg *model.Message, theme *styles.Theme, locale i18n.Locale) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		Locale:  locale,
		theme:   theme,
	}
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) renderUser() string {
	var body string
	if b.Message.IsVoiceNote() {
		body = b.renderVoiceNote()
	} else {
		body = b.Message.Content
	}

	bubble := b.theme.UserBubble.MaxWidth(b.Width).Render(body)
	return bubble + "\n" + b.renderFooter(b.Message.Timestamp)
}

func (b *MessageBubble) renderAssistant() string {
	var parts []string

	content := b.Message.Content
	if content != "" && b.RenderMarkdown != nil {
		content = strings.TrimRight(b.RenderMarkdown(content), "\n")
	}
	if content != "" {
		parts = append(parts, content)
	}

	if b.Message.HasAudio() {
		parts = append(parts, b.renderAudioPlayer())
	}
	if b.Message.ImageBase64 != "" {
		// The terminal cannot show the infographic inline; say so
		// instead of silently dropping it.
		parts = append(parts, b.theme.ThinkingText.Render(
			fmt.Sprintf("[infographic, %d KiB]", len(b.Message.ImageBase64)/1024)))
	}
	if sources := b.Message.DisplaySources(); len(sources) > 0 {
		parts = append(parts, b.renderSources(sources))
	}
	if len(parts) == 0 {
		parts = append(parts, b.theme.ThinkingText.Render("(empty reply)"))
	}

	bubble := b.theme.AssistantBubble.MaxWidth(b.Width).Render(strings.Join(parts, "\n\n"))
	return bubble + "\n" + b.renderFooter(b.Message.Timestamp)
}

func (b *MessageBubble) renderFooter(timestamp string) string {
	if timestamp == "" {
		return ""
	}
	return b.theme.Timestamp.Render(timestamp)
}

// =============================================================================
// VOICE RENDERING
// =============================================================================

// waveformGlyphs maps a bar height range onto block glyphs.
var waveformGlyphs = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func glyphFor(height, min, max int) rune {
	if max <= min {
		return waveformGlyphs[0]
	}
	idx := (height - min) * (len(waveformGlyphs) - 1) / (max - min)
	if idx < 0 {
		idx = 0
	} else if idx >= len(waveformGlyphs) {
		idx = len(waveformGlyphs) - 1
	}
	return waveformGlyphs[idx]
}

// Waveform renders a static seeded waveform with a progress split: bars
// left of the progress point use the filled style.
func Waveform(theme *styles.Theme, seed int, progress float64) string {
	heights := audio.SeededBarHeights(seed)
	var sb strings.Builder
	for i, h := range heights {
		g := string(glyphFor(h, audio.WaveformMinBar, audio.WaveformMaxBar))
		if float64(i)/float64(len(heights)) < progress {
			sb.WriteString(theme.VoiceBarFilled.Render(g))
		} else {
			sb.WriteString(theme.VoiceBar.Render(g))
		}
	}
	return sb.String()
}

func (b *MessageBubble) renderVoiceNote() string {
	wave := Waveform(b.theme, audio.SeedFromString(b.Message.ID), b.Progress)
	dur := formatClock(b.Message.DurationSeconds)
	icon := "▶"
	if b.Playing {
		icon = "⏸"
	}
	return fmt.Sprintf("%s %s %s", icon, wave, b.theme.Timestamp.Render(dur))
}

func (b *MessageBubble) renderAudioPlayer() string {
	seed := audio.SeedFromString(b.Message.ID)
	wave := Waveform(b.theme, seed, b.Progress)
	icon := "▶"
	label := b.Locale.T("voiceNote.play")
	if b.Playing {
		icon = "⏸"
		label = b.Locale.T("voiceNote.pause")
	}
	return fmt.Sprintf("%s %s %s", icon, wave, b.theme.Timestamp.Render(label))
}

func (b *MessageBubble) renderSources(sources []model.Source) string {
	var sb strings.Builder
	sb.WriteString(b.theme.SourcesTitle.Render(b.Locale.T("sources")))
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = b.Locale.T("viewOnTrendsResearch")
		}
		// Long article titles would wrap awkwardly inside the bubble.
		title = util.TruncateWidth(title, b.Width-8)
		sb.WriteString("\n  • " + b.theme.SourceLink.Render(title))
		sb.WriteString(" " + b.theme.Timestamp.Render(s.URL))
	}
	return sb.String()
}

// formatClock renders whole seconds as m:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
