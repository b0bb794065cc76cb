// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/trends-tui/internal/chat"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sendResultMsg delivers a finished send.
type sendResultMsg struct {
	result chat.TurnResult
}

// recordTickMsg advances the recording clock once per second.
type recordTickMsg struct{}

// meterTickMsg refreshes the live level meter between clock ticks.
type meterTickMsg struct{}

// exportDoneMsg reports a transcript export.
type exportDoneMsg struct {
	path string
	err  error
}

// clearErrMsg expires the error banner.
type clearErrMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// sendTextCmd runs a text send off the update loop.
func sendTextCmd(orch *chat.Orchestrator, question string) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{result: orch.SendText(question)}
	}
}

// sendVoiceCmd runs a voice send off the update loop.
func sendVoiceCmd(orch *chat.Orchestrator, seconds int, data []byte) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{result: orch.SendVoice(seconds, data)}
	}
}

func recordTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return recordTickMsg{}
	})
}

func meterTickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return meterTickMsg{}
	})
}

// clearErrCmd expires the error banner after a few seconds.
func clearErrCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return clearErrMsg{}
	})
}

// exportCmd writes the transcript as Markdown into dir.
func exportCmd(m *Model, dir string) tea.Cmd {
	md := m.store.ExportMarkdown(m.threadID)
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, fmt.Sprintf("chat-%s.md", time.Now().Format("20060102-150405")))
		if err := os.WriteFile(path, []byte(md), 0600); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}
