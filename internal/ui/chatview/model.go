// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/trends-tui/internal/audio"
	"github.com/jeranaias/trends-tui/internal/chat"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/session"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
)

// Options wires the chat surface to the rest of the program.
type Options struct {
	Orchestrator *chat.Orchestrator
	Store        *session.MessageStore
	Recorder     *audio.Recorder
	Backend      audio.Backend
	Prober       audio.DurationProber
	Locale       i18n.Locale
	ThreadID     string
	Markdown     bool
	Autoplay     bool
	ExportDir    string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme  *styles.Theme
	locale i18n.Locale
	keyMap KeyMap

	orch     *chat.Orchestrator
	store    *session.MessageStore
	recorder *audio.Recorder

	backend  audio.Backend
	prober   audio.DurationProber
	coord    *audio.Coordinator
	registry *audio.Registry
	autoplay bool

	// players and clips are keyed by message id; clips own temp files and
	// are closed when the conversation is cleared or the program exits.
	players map[string]*audio.Player
	clips   map[string]*audio.Clip

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// rendered is the store length at the last transcript rebuild.
	rendered int

	sending   bool
	recording bool
	errText   string
	statusMsg string

	threadID  string
	exportDir string
	renderer  *glamour.TermRenderer
}

// New creates the chat surface.
func New(opts Options) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = opts.Locale.T("askAnything")
	input.Prompt = theme.InputPrompt.Render("› ")
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := &Model{
		theme:     theme,
		locale:    opts.Locale,
		keyMap:    DefaultKeyMap(),
		orch:      opts.Orchestrator,
		store:     opts.Store,
		recorder:  opts.Recorder,
		backend:   opts.Backend,
		prober:    opts.Prober,
		coord:     audio.NewCoordinator(),
		registry:  audio.NewRegistry(),
		autoplay:  opts.Autoplay,
		players:   make(map[string]*audio.Player),
		clips:     make(map[string]*audio.Clip),
		input:     input,
		spinner:   sp,
		threadID:  opts.ThreadID,
		exportDir: opts.ExportDir,
	}

	if opts.Markdown {
		// USABILITY: glamour renders assistant markdown; plain text is the
		// fallback when the renderer cannot initialize.
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		); err == nil {
			m.renderer = r
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// renderMarkdown renders assistant content, falling back to the raw text.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// playerFor lazily builds the player for an audio-bearing message. The
// decoded clip is cached so repeated play/pause does not re-decode.
func (m *Model) playerFor(msg *model.Message) (*audio.Player, error) {
	if p, ok := m.players[msg.ID]; ok {
		return p, nil
	}

	var (
		clip *audio.Clip
		err  error
		src  string
	)
	switch {
	case msg.VoiceURL != "":
		src = msg.VoiceURL
	case msg.AudioBase64 != "":
		clip, err = audio.NewClipFromBase64(msg.AudioBase64)
	case msg.UserAudioBase64 != "":
		clip, err = audio.NewClipFromBase64(msg.UserAudioBase64)
	default:
		return nil, audio.ErrNotRecording
	}
	if err != nil {
		return nil, err
	}
	if clip != nil {
		m.clips[msg.ID] = clip
		src = clip.Path()
	}

	p := audio.NewPlayer(msg.ID, src, m.backend, m.prober, m.coord)
	m.players[msg.ID] = p
	return p, nil
}

// releasePlayers closes every decoded clip and forgets the players.
func (m *Model) releasePlayers() {
	for id, clip := range m.clips {
		clip.Close()
		delete(m.clips, id)
	}
	m.players = make(map[string]*audio.Player)
}

// Close releases everything the view holds open.
func (m *Model) Close() {
	m.releasePlayers()
}

// lastAudioMessage returns the newest message with playable audio.
func (m *Model) lastAudioMessage() *model.Message {
	msgs := m.store.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].HasAudio() || msgs[i].UserAudioBase64 != "" {
			return msgs[i]
		}
	}
	return nil
}
