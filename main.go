// trends-tui - A terminal client for the Trends research assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/trends-tui/internal/api"
	"github.com/jeranaias/trends-tui/internal/audio"
	"github.com/jeranaias/trends-tui/internal/chat"
	"github.com/jeranaias/trends-tui/internal/cli"
	"github.com/jeranaias/trends-tui/internal/config"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/logging"
	"github.com/jeranaias/trends-tui/internal/session"
	"github.com/jeranaias/trends-tui/internal/ui/chatview"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := cli.NewArgParser(os.Args[1:])

	if args.BoolFlag("help") || args.BoolFlag("h") {
		printUsage()
		return
	}
	if args.BoolFlag("version") {
		fmt.Printf("trends-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args *cli.ArgParser) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	applyFlagOverrides(cfg, args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err == nil {
		if err := logging.Init(logPath, cfg.Logging.Level); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		}
	}
	defer logging.Close()

	locale := i18n.Match(cfg.UI.Locale)

	sessionDir, err := config.SessionDir()
	if err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	store, err := session.NewFileStore(sessionDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	threadID := session.GetOrCreateThreadID(store)
	messages := session.NewMessageStore(store)

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSecs)*time.Second)
	orch := chat.New(client, messages, threadID, locale)

	tools := audio.ToolPaths{
		FFmpeg:  cfg.Audio.FFmpegPath,
		FFplay:  cfg.Audio.FFplayPath,
		FFprobe: cfg.Audio.FFprobePath,
	}
	recorder := audio.NewRecorder(audio.NewFFmpegCapture(tools, cfg.Audio.InputDevice))
	backend := audio.NewFFplayBackend(tools)
	prober := audio.NewFFprobeProber(tools)

	exportDir, err := config.ConfigDir()
	if err != nil {
		exportDir = "."
	}

	logging.L().Info().
		Str("version", Version).
		Str("base_url", cfg.API.BaseURL).
		Str("thread_id", threadID).
		Msg("starting")

	if args.BoolFlag("plain") || !cli.IsInteractive() {
		return cli.HandleChat(cli.Options{
			Orchestrator: orch,
			Store:        messages,
			Recorder:     recorder,
			Backend:      backend,
			Prober:       prober,
			Locale:       locale,
			ThreadID:     threadID,
			ExportDir:    exportDir,
			Markdown:     cfg.UI.Markdown,
		})
	}

	m := chatview.New(chatview.Options{
		Orchestrator: orch,
		Store:        messages,
		Recorder:     recorder,
		Backend:      backend,
		Prober:       prober,
		Locale:       locale,
		ThreadID:     threadID,
		Markdown:     cfg.UI.Markdown,
		Autoplay:     cfg.Audio.AutoplayReplies,
		ExportDir:    exportDir,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// applyFlagOverrides layers command-line flags over config and environment.
func applyFlagOverrides(cfg *config.Config, args *cli.ArgParser) {
	if v := args.Flag("base-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if args.HasFlag("timeout") {
		cfg.API.TimeoutSecs = args.FlagIntOrDefault("timeout", cfg.API.TimeoutSecs)
	}
	if v := args.FlagOrDefault("locale", args.Flag("l")); v != "" {
		cfg.UI.Locale = v
	}
	if v := args.Flag("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if args.BoolFlag("no-autoplay") {
		cfg.Audio.AutoplayReplies = false
	}
	if args.BoolFlag("no-markdown") {
		cfg.UI.Markdown = false
	}
}

func printUsage() {
	fmt.Println(`trends-tui - terminal client for the Trends research assistant

Usage:
  trends-tui [flags]

Flags:
  --plain             Use the plain REPL instead of the full-screen TUI
  --locale, -l CODE   Interface language: ar (default) or en
  --base-url URL      Backend base URL
  --timeout SECS      Request timeout in seconds
  --log-level LEVEL   trace, debug, info, warn, error
  --no-autoplay       Do not autoplay voice replies
  --no-markdown       Disable markdown rendering
  --version           Print version and exit
  --help, -h          Show this help

Environment:
  TRENDS_API_BASE_URL, TRENDS_API_TIMEOUT_SECS, TRENDS_LOCALE,
  TRENDS_LOG_LEVEL, TRENDS_AUTOPLAY`)
}
