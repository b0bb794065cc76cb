// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style
	SourcesTitle    lipgloss.Style
	SourceLink      lipgloss.Style

	// Voice
	VoiceBar       lipgloss.Style
	VoiceBarFilled lipgloss.Style
	RecordingDot   lipgloss.Style
	RecordingTime  lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
	InfographBadge lipgloss.Style

	// Feedback
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ErrorBox     lipgloss.Style
}

// NewTheme creates a theme with all styles configured.
func NewTheme() *Theme {
	t := &Theme{
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.SourcesTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.SourceLink = lipgloss.NewStyle().
		Foreground(Teal).
		Underline(true)

	t.VoiceBar = lipgloss.NewStyle().
		Foreground(Overlay)
	t.VoiceBarFilled = lipgloss.NewStyle().
		Foreground(Emerald)
	t.RecordingDot = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.RecordingTime = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.InfographBadge = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Teal)
	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(Rose).
		Padding(0, 1)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
