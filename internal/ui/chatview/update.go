// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/trends-tui/internal/logging"
	"github.com/jeranaias/trends-tui/internal/model"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case sendResultMsg:
		return m.handleSendResult(msg)
	case recordTickMsg:
		if !m.recording {
			return m, nil
		}
		m.recorder.Tick()
		return m, recordTickCmd()
	case meterTickMsg:
		if !m.recording {
			return m, nil
		}
		// The view samples the device on render; the tick only forces
		// a redraw.
		return m, meterTickCmd()
	case exportDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, clearErrCmd()
		}
		m.statusMsg = fmt.Sprintf(m.locale.T("export.saved"), msg.path)
		return m, nil
	case clearErrMsg:
		m.errText = ""
		return m, nil
	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		// The optimistic user turn is appended by the orchestrator off the
		// update loop; pick it up while the spinner runs.
		if m.store.Len() != m.rendered {
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	chromeHeight := 6 // header, input area, status bar
	if !m.ready {
		m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeHeight
	}
	m.refreshTranscript()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keyMap

	switch {
	case key.Matches(msg, k.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, k.Submit):
		if m.recording {
			return m.finishRecording()
		}
		return m.submitText()

	case key.Matches(msg, k.Cancel):
		if m.recording {
			m.recorder.Cancel()
			m.recording = false
			m.orch.SetRecording(false)
			return m, nil
		}
		// Stop the in-flight request; idempotent when idle.
		m.orch.Cancel()
		return m, nil

	case key.Matches(msg, k.Record):
		if m.recording || m.sending {
			return m, nil
		}
		return m.startRecording()

	case key.Matches(msg, k.PlayPause):
		return m.togglePlayback()

	case key.Matches(msg, k.SeekBack):
		return m.seekPlayback(-0.1)
	case key.Matches(msg, k.SeekFwd):
		return m.seekPlayback(0.1)

	case key.Matches(msg, k.Infograph):
		on := m.orch.ToggleInfograph()
		if on {
			m.statusMsg = m.locale.T("infograph.on")
		} else {
			m.statusMsg = m.locale.T("infograph.off")
		}
		return m, nil

	case key.Matches(msg, k.Export):
		return m, exportCmd(m, m.exportDir)

	case key.Matches(msg, k.Clear):
		m.store.Clear()
		m.releasePlayers()
		m.statusMsg = m.locale.T("chat.cleared")
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, k.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, k.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, k.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, k.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.recording {
		// Typing is disabled while recording.
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SEND AND RECORD TRANSITIONS
// =============================================================================

func (m *Model) submitText() (tea.Model, tea.Cmd) {
	question := m.input.Value()
	if question == "" || m.sending {
		return m, nil
	}
	m.input.Reset()
	m.sending = true
	m.errText = ""
	m.statusMsg = ""
	return m, tea.Batch(
		sendTextCmd(m.orch, question),
		m.spinner.Tick,
	)
}

func (m *Model) startRecording() (tea.Model, tea.Cmd) {
	if err := m.recorder.Start(); err != nil {
		logging.L().Warn().Err(err).Msg("capture start failed")
		m.errText = m.locale.T("voiceNote.micError")
		return m, clearErrCmd()
	}
	m.recording = true
	m.orch.SetRecording(true)
	m.statusMsg = ""
	return m, tea.Batch(recordTickCmd(), meterTickCmd())
}

func (m *Model) finishRecording() (tea.Model, tea.Cmd) {
	if !m.recorder.CanSend() {
		// Below the minimum send duration the affordance stays disabled.
		return m, nil
	}
	seconds, data, err := m.recorder.StopAndSend()
	m.recording = false
	m.orch.SetRecording(false)
	if err != nil {
		logging.L().Warn().Err(err).Msg("capture stop failed")
		m.errText = m.locale.T("voiceNote.micError")
		return m, clearErrCmd()
	}

	m.sending = true
	m.errText = ""
	return m, tea.Batch(
		sendVoiceCmd(m.orch, seconds, data),
		m.spinner.Tick,
	)
}

func (m *Model) handleSendResult(msg sendResultMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	res := msg.result
	if res.Skipped {
		return m, nil
	}

	var cmds []tea.Cmd
	if res.ErrText != "" {
		m.errText = res.ErrText
		cmds = append(cmds, clearErrCmd())
	}

	// The terminal cannot show the infographic inline; save it next to the
	// exports and point at the file.
	if res.Assistant != nil && res.Assistant.ImageBase64 != "" {
		if path, err := m.saveInfographic(res.Assistant); err == nil {
			m.statusMsg = fmt.Sprintf(m.locale.T("infograph.saved"), path)
		} else {
			logging.L().Warn().Err(err).Msg("infographic save failed")
		}
	}

	// Autoplay a synthesized voice reply exactly once per message.
	if m.autoplay && res.Assistant != nil && res.Assistant.HasAudio() {
		if m.registry.TryMarkPlayed(res.Assistant.ID) {
			if p, err := m.playerFor(res.Assistant); err == nil {
				if err := p.Play(); err != nil {
					logging.L().Warn().Err(err).Msg("autoplay failed")
				}
			} else {
				logging.L().Warn().Err(err).Msg("audio decode failed")
				m.errText = m.locale.T("voiceNote.loadError")
				cmds = append(cmds, clearErrCmd())
			}
		}
	}

	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmds...)
}

// seekPlayback nudges the active player by a fraction of its duration.
func (m *Model) seekPlayback(delta float64) (tea.Model, tea.Cmd) {
	target := m.lastAudioMessage()
	if target == nil {
		return m, nil
	}
	p, ok := m.players[target.ID]
	if !ok {
		return m, nil
	}
	if err := p.SeekFraction(p.Progress() + delta); err != nil {
		logging.L().Warn().Err(err).Msg("seek failed")
	}
	return m, nil
}

// saveInfographic decodes the image payload into the export directory and
// returns the written path.
func (m *Model) saveInfographic(msg *model.Message) (string, error) {
	data, err := base64.StdEncoding.DecodeString(msg.ImageBase64)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.exportDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(m.exportDir, "infograph-"+msg.ID+".png")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Model) togglePlayback() (tea.Model, tea.Cmd) {
	target := m.lastAudioMessage()
	if target == nil {
		return m, nil
	}
	p, err := m.playerFor(target)
	if err != nil {
		logging.L().Warn().Err(err).Msg("audio decode failed")
		m.errText = m.locale.T("voiceNote.loadError")
		return m, clearErrCmd()
	}
	if err := p.Toggle(); err != nil {
		logging.L().Warn().Err(err).Msg("playback failed")
		m.errText = m.locale.T("voiceNote.loadError")
		return m, clearErrCmd()
	}
	return m, nil
}
