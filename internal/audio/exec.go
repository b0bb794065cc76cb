// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/trends-tui/internal/logging"
)

// External tool wiring. Capture, playback and probing shell out to the
// ffmpeg suite; paths default to PATH lookup and can be overridden in the
// config file.

// ToolPaths locates the external audio binaries.
type ToolPaths struct {
	FFmpeg  string
	FFplay  string
	FFprobe string
}

// fill defaults empty entries to plain command names.
func (t ToolPaths) fill() ToolPaths {
	if t.FFmpeg == "" {
		t.FFmpeg = "ffmpeg"
	}
	if t.FFplay == "" {
		t.FFplay = "ffplay"
	}
	if t.FFprobe == "" {
		t.FFprobe = "ffprobe"
	}
	return t
}

// captureFormat returns the ffmpeg input format and default device for the
// host platform.
func captureFormat() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", ":0"
	case "windows":
		return "dshow", "audio=default"
	default:
		return "pulse", "default"
	}
}

// =============================================================================
// CAPTURE
// =============================================================================

// meterRate is the sample rate of the metering side-channel. One frame of
// levelFrameSize samples is roughly a tenth of a second.
const (
	meterRate      = 8000
	levelFrameSize = 800
)

// FFmpegCapture records the microphone with ffmpeg. The encoded recording
// goes to a temp file while an unsigned 8-bit PCM side-channel streams over
// stdout to feed the level meter.
type FFmpegCapture struct {
	paths  ToolPaths
	device string

	mu    sync.Mutex
	cmd   *exec.Cmd
	file  string
	frame []byte
	done  chan struct{}
}

// NewFFmpegCapture creates a capture device. device overrides the platform
// default input ("" = default).
func NewFFmpegCapture(paths ToolPaths, device string) *FFmpegCapture {
	return &FFmpegCapture{paths: paths.fill(), device: device}
}

// Start launches ffmpeg and begins draining the metering channel.
func (c *FFmpegCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil {
		return fmt.Errorf("capture already running")
	}

	f, err := os.CreateTemp("", "trends-rec-*.webm")
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}
	f.Close()

	format, device := captureFormat()
	if c.device != "" {
		device = c.device
	}

	cmd := exec.Command(c.paths.FFmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", format, "-i", device,
		"-y", "-c:a", "libopus", "-f", "webm", f.Name(),
		"-f", "u8", "-ar", strconv.Itoa(meterRate), "-ac", "1", "pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := cmd.Start(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	c.cmd = cmd
	c.file = f.Name()
	done := make(chan struct{})
	c.done = done

	go func() {
		defer close(done)
		buf := make([]byte, levelFrameSize)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				frame := make([]byte, n)
				copy(frame, buf[:n])
				c.mu.Lock()
				c.frame = frame
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

// Frame returns the latest metering samples.
func (c *FFmpegCapture) Frame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Stop ends the capture gracefully so the container is finalized, then
// returns the encoded recording. The temp file is removed either way.
func (c *FFmpegCapture) Stop() ([]byte, error) {
	c.mu.Lock()
	cmd := c.cmd
	file := c.file
	done := c.done
	c.cmd = nil
	c.file = ""
	c.frame = nil
	c.mu.Unlock()

	if cmd == nil {
		return nil, ErrNotRecording
	}
	defer os.Remove(file)

	// SIGINT lets ffmpeg flush and close the webm container.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
	<-done
	if err := cmd.Wait(); err != nil {
		// ffmpeg exits non-zero on SIGINT; the recording is still valid
		// when the file has content.
		logging.L().Debug().Err(err).Msg("ffmpeg exit")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return data, nil
}

// =============================================================================
// PLAYBACK
// =============================================================================

// FFplayBackend plays a source with ffplay. Pause is implemented as stop;
// the Player restarts at the retained offset on resume.
type FFplayBackend struct {
	paths ToolPaths

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewFFplayBackend creates a playback backend.
func NewFFplayBackend(paths ToolPaths) *FFplayBackend {
	return &FFplayBackend{paths: paths.fill()}
}

// Play starts playback of src at offset.
func (b *FFplayBackend) Play(src string, offset time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd != nil {
		b.stopLocked()
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-nodisp", "-autoexit"}
	if offset > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", offset.Seconds()))
	}
	args = append(args, src)

	cmd := exec.Command(b.paths.FFplay, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffplay: %w", err)
	}
	b.cmd = cmd
	go cmd.Wait() // reap
	return nil
}

// Stop halts playback, if any.
func (b *FFplayBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	return nil
}

func (b *FFplayBackend) stopLocked() {
	if b.cmd != nil && b.cmd.Process != nil {
		b.cmd.Process.Kill()
	}
	b.cmd = nil
}

// =============================================================================
// PROBING
// =============================================================================

// FFprobeProber reads a source's duration with ffprobe.
type FFprobeProber struct {
	paths ToolPaths
}

// NewFFprobeProber creates a duration prober.
func NewFFprobeProber(paths ToolPaths) *FFprobeProber {
	return &FFprobeProber{paths: paths.fill()}
}

// Duration returns the total length of src.
func (p *FFprobeProber) Duration(src string) (time.Duration, error) {
	out, err := exec.Command(p.paths.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		src,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", out, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
