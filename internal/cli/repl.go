// repl.go - Interactive plain-terminal chat for trends-tui.
//
// USABILITY: Markdown rendering and input history for better CLI experience
//
// Provides the --plain mode REPL for conversing with the Trends assistant
// when the full-screen TUI is unavailable (pipes, dumb terminals) or
// explicitly disabled.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /voice [seconds]    Record a voice note and send it (default 5s)
//   /play               Play the most recent audio reply
//   /infograph [on|off] Toggle infographic mode
//   /export             Save the transcript as Markdown
//   /history            Show conversation history
//   /clear, /c          Clear conversation history
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current request
//   Ctrl+D              Exit chat
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/trends-tui/internal/audio"
	"github.com/jeranaias/trends-tui/internal/chat"
	"github.com/jeranaias/trends-tui/internal/config"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/logging"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/session"
	"github.com/jeranaias/trends-tui/internal/ui/styles"
	"github.com/jeranaias/trends-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	// SECURITY: 0600 - the history can contain user questions
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// Options wires the REPL to the rest of the program.
type Options struct {
	Orchestrator *chat.Orchestrator
	Store        *session.MessageStore
	Recorder     *audio.Recorder
	Backend      audio.Backend
	Prober       audio.DurationProber
	Locale       i18n.Locale
	ThreadID     string
	ExportDir    string
	Markdown     bool
}

// ChatSession holds the state for an interactive plain-mode session.
type ChatSession struct {
	orch     *chat.Orchestrator
	store    *session.MessageStore
	recorder *audio.Recorder
	backend  audio.Backend
	prober   audio.DurationProber
	coord    *audio.Coordinator
	locale   i18n.Locale
	threadID string

	exportDir string
	renderer  *glamour.TermRenderer

	// Clip backing the most recent audio reply; replaced on each new reply.
	lastClip   *audio.Clip
	lastPlayer *audio.Player

	startTime time.Time
	queries   int

	input *ChatCLI
}

// NewChatSession creates a new plain-mode chat session.
func NewChatSession(opts Options) *ChatSession {
	s := &ChatSession{
		orch:      opts.Orchestrator,
		store:     opts.Store,
		recorder:  opts.Recorder,
		backend:   opts.Backend,
		prober:    opts.Prober,
		coord:     audio.NewCoordinator(),
		locale:    opts.Locale,
		threadID:  opts.ThreadID,
		exportDir: opts.ExportDir,
		startTime: time.Now(),
		input:     NewChatCLI(),
	}

	if opts.Markdown && IsStdoutTTY() {
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(TerminalWidth()),
		); err == nil {
			s.renderer = r
		}
	}
	return s
}

// Close releases the input handler and any cached audio clip.
func (s *ChatSession) Close() {
	s.input.Close()
	if s.lastClip != nil {
		s.lastClip.Close()
		s.lastClip = nil
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the plain-mode REPL until the user exits.
func HandleChat(opts Options) error {
	session := NewChatSession(opts)
	defer session.Close()

	printWelcome(session)

	// First Ctrl+C cancels the in-flight request; liner handles Ctrl+C at
	// the prompt itself via ErrPromptAborted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			session.orch.Cancel()
		}
	}()

	for {
		input, err := session.input.ReadInput(promptStyle.Render("trends> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D) - exit gracefully.
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		processMessage(session, input)
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a text question and prints the reply.
func processMessage(session *ChatSession, input string) {
	fmt.Println()
	fmt.Println(infoStyle.Render("[" + session.locale.T("thinking") + "]"))

	result := session.orch.SendText(input)
	printTurnResult(session, result)
}

// printTurnResult renders the outcome of a send, text or voice.
func printTurnResult(session *ChatSession, result chat.TurnResult) {
	if result.Skipped {
		return
	}
	session.queries++

	if result.Cancelled {
		fmt.Fprintln(os.Stderr, warningStyle.Render("[Cancelled]"))
		return
	}
	if result.ErrText != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[Error]"), result.ErrText)
		return
	}
	if result.Assistant == nil {
		return
	}

	displayAssistant(session, result.Assistant)
}

// displayAssistant prints an assistant message: text, sources, and audio
// or infographic markers.
func displayAssistant(session *ChatSession, msg *model.Message) {
	fmt.Println()

	if msg.Content != "" {
		if session.renderer != nil {
			if out, err := session.renderer.Render(msg.Content); err == nil {
				fmt.Print(out)
			} else {
				fmt.Println(msg.Content)
			}
		} else {
			fmt.Println(msg.Content)
		}
	}

	if msg.HasAudio() {
		fmt.Println(infoStyle.Render("[Voice reply - /play to listen]"))
		// Replace the cached clip so /play always targets the newest reply.
		if err := session.cacheAudio(msg); err != nil {
			logging.L().Warn().Err(err).Msg("audio decode failed")
		}
	}

	if msg.ImageBase64 != "" {
		if path, err := session.saveInfographic(msg); err == nil {
			fmt.Println(commandStyle.Render(fmt.Sprintf("["+session.locale.T("infograph.saved")+"]", path)))
		} else {
			logging.L().Warn().Err(err).Msg("infographic save failed")
			fmt.Println(infoStyle.Render("[Infographic attached]"))
		}
	}

	if sources := msg.DisplaySources(); len(sources) > 0 {
		fmt.Println()
		fmt.Println(infoStyle.Render(session.locale.T("sources") + ":"))
		for _, src := range sources {
			title := src.Title
			if title == "" {
				title = session.locale.T("viewOnTrendsResearch")
			}
			fmt.Printf("  %s %s\n", commandStyle.Render("-"), title)
			fmt.Printf("    %s\n", infoStyle.Render(src.URL))
		}
	}

	fmt.Println()
}

// saveInfographic decodes the image payload into the export directory and
// returns the written path.
func (s *ChatSession) saveInfographic(msg *model.Message) (string, error) {
	data, err := base64.StdEncoding.DecodeString(msg.ImageBase64)
	if err != nil {
		return "", err
	}
	dir := s.exportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "infograph-"+msg.ID+".png")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// cacheAudio decodes the message audio into a temp clip and prepares a
// player for /play.
func (s *ChatSession) cacheAudio(msg *model.Message) error {
	if s.lastClip != nil {
		s.lastClip.Close()
		s.lastClip = nil
		s.lastPlayer = nil
	}

	var src string
	switch {
	case msg.VoiceURL != "":
		src = msg.VoiceURL
	case msg.AudioBase64 != "":
		clip, err := audio.NewClipFromBase64(msg.AudioBase64)
		if err != nil {
			return err
		}
		s.lastClip = clip
		src = clip.Path()
	default:
		return nil
	}

	s.lastPlayer = audio.NewPlayer(msg.ID, src, s.backend, s.prober, s.coord)
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printHelp()
		return true, nil

	case "/voice", "/v":
		return true, handleVoiceCommand(session, args)

	case "/play", "/p":
		return true, handlePlayCommand(session)

	case "/infograph", "/i":
		return true, handleInfographCommand(session, args)

	case "/export", "/e":
		return true, handleExportCommand(session)

	case "/history":
		printHistory(session)
		return true, nil

	case "/clear", "/c":
		session.store.Clear()
		fmt.Println(commandStyle.Render("[" + session.locale.T("chat.cleared") + "]"))
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// handleVoiceCommand records for a fixed number of seconds and sends the
// capture as a voice note.
func handleVoiceCommand(session *ChatSession, args []string) error {
	seconds := 5
	if len(args) > 0 {
		parsed, err := parsePositiveInt(args[0])
		if err != nil {
			return err
		}
		seconds = parsed
	}
	if seconds < audio.MinSendSeconds {
		return fmt.Errorf("recording must be at least %d second(s)", audio.MinSendSeconds)
	}

	if err := session.recorder.Start(); err != nil {
		return fmt.Errorf("%s: %w", session.locale.T("voiceNote.micError"), err)
	}
	session.orch.SetRecording(true)

	fmt.Printf("%s %ds\n",
		warningStyle.Render("[Recording]"),
		seconds)

	for i := 0; i < seconds; i++ {
		time.Sleep(time.Second)
		session.recorder.Tick()
		fmt.Printf("\r%s %d/%ds ", warningStyle.Render("●"), i+1, seconds)
	}
	fmt.Println()

	elapsed, data, err := session.recorder.StopAndSend()
	session.orch.SetRecording(false)
	if err != nil {
		return fmt.Errorf("%s: %w", session.locale.T("voiceNote.micError"), err)
	}

	fmt.Println(infoStyle.Render("[" + session.locale.T("thinking") + "]"))
	result := session.orch.SendVoice(elapsed, data)
	printTurnResult(session, result)
	return nil
}

// handlePlayCommand toggles playback of the most recent audio reply.
func handlePlayCommand(session *ChatSession) error {
	if session.lastPlayer == nil {
		// Look back through the transcript in case the session was hydrated
		// from disk with an audio reply already present.
		msgs := session.store.Messages()
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].HasAudio() {
				if err := session.cacheAudio(msgs[i]); err != nil {
					return fmt.Errorf("%s: %w", session.locale.T("voiceNote.loadError"), err)
				}
				break
			}
		}
	}
	if session.lastPlayer == nil {
		return fmt.Errorf("no audio reply to play")
	}

	if err := session.lastPlayer.Toggle(); err != nil {
		return fmt.Errorf("%s: %w", session.locale.T("voiceNote.loadError"), err)
	}
	if session.lastPlayer.Playing() {
		fmt.Println(commandStyle.Render("[Playing]"))
	} else {
		fmt.Println(infoStyle.Render("[Paused]"))
	}
	return nil
}

// handleInfographCommand toggles or sets infographic mode.
func handleInfographCommand(session *ChatSession, args []string) error {
	var on bool
	if len(args) == 0 {
		on = session.orch.ToggleInfograph()
	} else {
		want, err := ParseBoolString(args[0])
		if err != nil {
			return err
		}
		if session.orch.InfographEnabled() != want {
			session.orch.ToggleInfograph()
		}
		on = want
	}

	if on {
		fmt.Println(commandStyle.Render("[" + session.locale.T("infograph.on") + "]"))
	} else {
		fmt.Println(infoStyle.Render("[" + session.locale.T("infograph.off") + "]"))
	}
	return nil
}

// handleExportCommand writes the transcript as Markdown next to the config.
func handleExportCommand(session *ChatSession) error {
	if session.store.Len() == 0 {
		return fmt.Errorf("nothing to export")
	}

	dir := session.exportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path := filepath.Join(dir, "chat-"+time.Now().Format("20060102-150405")+".md")
	content := session.store.ExportMarkdown(session.threadID)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return err
	}

	fmt.Println(commandStyle.Render(fmt.Sprintf("["+session.locale.T("export.saved")+"]", path)))
	return nil
}

// parsePositiveInt parses a single positive-integer argument.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("expected a positive number, got %q", s)
	}
	return n, nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render(session.locale.T("smartAssistant")))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Thread:"),
		commandStyle.Render(session.threadID))
	if session.orch.InfographEnabled() {
		fmt.Printf("%s %s\n",
			infoStyle.Render("Mode:"),
			commandStyle.Render(session.locale.T("infograph.on")))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render(session.locale.T("askAnything") + " Commands: /help, /quit"))
	fmt.Println()
}

// printHelp prints available commands.
func printHelp() {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/voice [seconds]", "Record a voice note and send it (default 5s)"},
		{"/play", "Play or pause the latest audio reply"},
		{"/infograph [on|off]", "Toggle infographic mode"},
		{"/export", "Save the transcript as Markdown"},
		{"/history", "Show conversation history"},
		{"/clear, /c", "Clear conversation history"},
		{"/quit, /q", "Exit chat"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(util.PadRight(c.cmd, 20)),
			infoStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels the current request, Ctrl+D exits"))
	fmt.Println()
}

// printHistory prints conversation history.
func printHistory(session *ChatSession) {
	msgs := session.store.Messages()
	if len(msgs) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(welcomeStyle.Render("Conversation History"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, msg := range msgs {
		role := msg.Role.DisplayName()
		if msg.Role == model.RoleUser {
			role = promptStyle.Render(role)
		} else {
			role = commandStyle.Render(role)
		}

		content := msg.Content
		if msg.IsVoiceNote() {
			content = fmt.Sprintf("[voice note %ds]", msg.DurationSeconds)
		} else if msg.HasAudio() && content == "" {
			content = "[voice reply]"
		}

		content = util.TruncateRunes(util.CollapseNewlines(content), 100)

		fmt.Printf("  %d. %s: %s %s\n", i+1, role, content,
			infoStyle.Render(msg.Timestamp))
	}

	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.queries == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.startTime).Round(time.Second)

	fmt.Println()
	fmt.Println(welcomeStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))
	fmt.Printf("  %s %d\n",
		infoStyle.Render("Queries:"),
		session.queries)
	fmt.Printf("  %s %d messages\n",
		infoStyle.Render("History:"),
		session.store.Len())
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
