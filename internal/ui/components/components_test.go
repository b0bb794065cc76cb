// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
)

func TestMessageBubbleText(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewUserMessage("hello there", "09:05 AM")

	out := NewMessageBubble(msg, theme, i18n.English).View()
	if !strings.Contains(out, "hello there") {
		t.Errorf("bubble missing content:\n%s", out)
	}
	if !strings.Contains(out, "09:05 AM") {
		t.Errorf("bubble missing timestamp:\n%s", out)
	}
}

func TestMessageBubbleSources(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewAssistantMessage("answer", "09:05:01 AM")
	msg.Meta = []model.Source{
		{Title: "AI Report", URL: "https://trendsresearch.org/x"},
		{Title: "hidden"},
	}

	out := NewMessageBubble(msg, theme, i18n.English).View()
	if !strings.Contains(out, "Sources") {
		t.Errorf("missing sources heading:\n%s", out)
	}
	if !strings.Contains(out, "AI Report") {
		t.Errorf("missing source title:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("URL-less source should not render")
	}
}

func TestMessageBubbleVoiceNote(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewUserVoiceMessage(65, "b64", "09:05 AM")

	out := NewMessageBubble(msg, theme, i18n.English).View()
	if !strings.Contains(out, "1:05") {
		t.Errorf("missing duration clock:\n%s", out)
	}
}

func TestMessageBubbleAudioReply(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewAssistantMessage("", "09:05:01 AM")
	msg.AudioBase64 = "QUJD"

	b := NewMessageBubble(msg, theme, i18n.English)
	out := b.View()
	if !strings.Contains(out, "Play") {
		t.Errorf("paused player should offer Play:\n%s", out)
	}

	b.Playing = true
	if !strings.Contains(b.View(), "Pause") {
		t.Error("playing player should offer Pause")
	}
}

func TestMessageBubbleInfographic(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewAssistantMessage("", "09:05:01 AM")
	msg.ImageBase64 = strings.Repeat("A", 4096)

	out := NewMessageBubble(msg, theme, i18n.English).View()
	if !strings.Contains(out, "infographic") {
		t.Errorf("image reply should mention the infographic:\n%s", out)
	}
}

func TestHeader(t *testing.T) {
	theme := styles.NewTheme()
	out := Header(theme, i18n.English, 80)
	if !strings.Contains(out, "Smart Assistant") {
		t.Errorf("header missing title:\n%s", out)
	}
}

func TestRecordingView(t *testing.T) {
	theme := styles.NewTheme()
	levels := []int{4, 8, 12, 24, 12, 8, 4, 4, 4, 4, 4, 4}

	out := RecordingView(theme, i18n.English, 3, levels, true)
	if !strings.Contains(out, "0:03") {
		t.Errorf("missing elapsed time:\n%s", out)
	}
	if !strings.Contains(out, "Recording") {
		t.Errorf("missing recording label:\n%s", out)
	}

	short := RecordingView(theme, i18n.English, 0, levels, false)
	if !strings.Contains(short, "at least a second") {
		t.Errorf("short recording should show the too-short hint:\n%s", short)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"}, {5, "0:05"}, {59, "0:59"}, {60, "1:00"}, {125, "2:05"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
