// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/base64"
	"os"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeDevice struct {
	mu      sync.Mutex
	started bool
	stopped bool
	frame   []byte
	data    []byte
	err     error
}

func (d *fakeDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = true
	d.stopped = false
	return d.err
}

func (d *fakeDevice) Frame() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *fakeDevice) Stop() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	return d.data, d.err
}

type fakeBackend struct {
	mu      sync.Mutex
	playing bool
	src     string
	offset  time.Duration
	plays   int
}

func (b *fakeBackend) Play(src string, offset time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = true
	b.src = src
	b.offset = offset
	b.plays++
	return nil
}

func (b *fakeBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = false
	return nil
}

type fakeProber struct {
	d   time.Duration
	err error
}

func (p *fakeProber) Duration(string) (time.Duration, error) {
	return p.d, p.err
}

// =============================================================================
// RECORDER
// =============================================================================

func TestRecorderLifecycle(t *testing.T) {
	device := &fakeDevice{data: []byte("webm-bytes")}
	r := NewRecorder(device)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.Recording() {
		t.Error("Recording() = false after Start")
	}
	if r.Seconds() != 0 {
		t.Errorf("Seconds at start = %d, want 0", r.Seconds())
	}
	if r.CanSend() {
		t.Error("a zero-second recording must not be sendable")
	}

	if got := r.Tick(); got != 1 {
		t.Errorf("first Tick = %d", got)
	}
	if !r.CanSend() {
		t.Error("a one-second recording is sendable")
	}
	r.Tick()
	r.Tick()

	secs, data, err := r.StopAndSend()
	if err != nil {
		t.Fatalf("StopAndSend: %v", err)
	}
	if secs != 3 {
		t.Errorf("duration = %d, want 3", secs)
	}
	if string(data) != "webm-bytes" {
		t.Errorf("data = %q", data)
	}
	if r.Recording() {
		t.Error("still recording after StopAndSend")
	}
}

func TestRecorderCancelDiscards(t *testing.T) {
	device := &fakeDevice{data: []byte("captured")}
	r := NewRecorder(device)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Tick()
	r.Cancel()

	if r.Recording() {
		t.Error("still recording after Cancel")
	}
	if r.Seconds() != 0 {
		t.Errorf("Seconds after Cancel = %d, want 0", r.Seconds())
	}
	if !device.stopped {
		t.Error("device should be stopped on Cancel")
	}
	if _, _, err := r.StopAndSend(); err != ErrNotRecording {
		t.Errorf("StopAndSend after Cancel = %v, want ErrNotRecording", err)
	}
}

func TestRecorderDoubleStart(t *testing.T) {
	r := NewRecorder(&fakeDevice{})
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(); err == nil {
		t.Error("second Start should fail")
	}
}

func TestRecorderLevels(t *testing.T) {
	frame := make([]byte, 1200)
	for i := range frame {
		frame[i] = WaveformCentre
	}
	frame[10] = WaveformCentre + 100
	device := &fakeDevice{frame: frame}
	r := NewRecorder(device)

	levels := r.Levels()
	if len(levels) != RecordingBarCount {
		t.Fatalf("len = %d", len(levels))
	}
	if levels[0] != RecordingMaxBar {
		t.Errorf("loud bucket = %d, want %d", levels[0], RecordingMaxBar)
	}
}

// =============================================================================
// PLAYER AND COORDINATOR
// =============================================================================

func TestPlayerPlayPausePosition(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPlayer("m1", "clip.mp3", backend, &fakeProber{d: 10 * time.Second}, nil)

	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !p.Playing() || !backend.playing {
		t.Error("should be playing")
	}

	time.Sleep(20 * time.Millisecond)
	if p.Position() <= 0 {
		t.Error("position should advance while playing")
	}

	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if p.Playing() || backend.playing {
		t.Error("should be paused")
	}
	pos := p.Position()
	time.Sleep(20 * time.Millisecond)
	if p.Position() != pos {
		t.Error("position must hold while paused")
	}

	// Resume restarts the backend from the retained offset.
	if err := p.Play(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if backend.offset != pos {
		t.Errorf("resume offset = %v, want %v", backend.offset, pos)
	}
}

func TestPlayerSeekFraction(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPlayer("m1", "clip.mp3", backend, &fakeProber{d: 10 * time.Second}, nil)

	if err := p.SeekFraction(0.5); err != nil {
		t.Fatalf("SeekFraction: %v", err)
	}
	if got := p.Position(); got != 5*time.Second {
		t.Errorf("Position = %v, want 5s", got)
	}
	if p.Playing() {
		t.Error("seek on a paused player must not start playback")
	}

	// Out-of-range fractions clamp.
	p.SeekFraction(2)
	if got := p.Position(); got != 10*time.Second {
		t.Errorf("Position = %v, want clamped 10s", got)
	}
	p.SeekFraction(-1)
	if got := p.Position(); got != 0 {
		t.Errorf("Position = %v, want 0", got)
	}

	// Seeking while playing restarts the backend at the new offset.
	p.Play()
	p.SeekFraction(0.3)
	if !p.Playing() {
		t.Error("seek must preserve the playing state")
	}
	if backend.offset != 3*time.Second {
		t.Errorf("backend offset = %v, want 3s", backend.offset)
	}
}

func TestPlayerUnknownDuration(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPlayer("m1", "clip.mp3", backend, &fakeProber{err: os.ErrNotExist}, nil)

	if d := p.Duration(); d != 0 {
		t.Errorf("Duration = %v, want 0 when probing fails", d)
	}
	if err := p.SeekFraction(0.5); err != nil {
		t.Errorf("seek without duration should be a no-op, got %v", err)
	}
	if p.Progress() != 0 {
		t.Errorf("Progress = %v", p.Progress())
	}
}

func TestCoordinatorExclusivity(t *testing.T) {
	coord := NewCoordinator()
	b1, b2 := &fakeBackend{}, &fakeBackend{}
	p1 := NewPlayer("m1", "a.mp3", b1, &fakeProber{d: time.Minute}, coord)
	p2 := NewPlayer("m2", "b.mp3", b2, &fakeProber{d: time.Minute}, coord)

	if err := p1.Play(); err != nil {
		t.Fatalf("p1.Play: %v", err)
	}
	if coord.CurrentID() != "m1" {
		t.Errorf("CurrentID = %q", coord.CurrentID())
	}

	if err := p2.Play(); err != nil {
		t.Fatalf("p2.Play: %v", err)
	}
	if coord.CurrentID() != "m2" {
		t.Errorf("CurrentID = %q", coord.CurrentID())
	}
	if p1.Playing() {
		t.Error("p1 must pause when p2 claims playback")
	}
	if !p2.Playing() {
		t.Error("p2 should be playing")
	}

	// Replaying the current holder does not pause it.
	if err := p2.Play(); err != nil {
		t.Fatalf("p2 replay: %v", err)
	}
	if !p2.Playing() {
		t.Error("p2 should still be playing")
	}
}

func TestRegistryAutoplayOnce(t *testing.T) {
	reg := NewRegistry()

	if !reg.TryMarkPlayed("m1") {
		t.Error("first TryMarkPlayed should return true")
	}
	if reg.TryMarkPlayed("m1") {
		t.Error("second TryMarkPlayed must return false")
	}
	if !reg.HasPlayed("m1") {
		t.Error("HasPlayed = false")
	}
	if reg.HasPlayed("m2") {
		t.Error("unplayed id reported as played")
	}
	// A different id is independent.
	if !reg.TryMarkPlayed("m2") {
		t.Error("other id should be allowed")
	}
}

// =============================================================================
// CLIP
// =============================================================================

func TestNormalizeBase64(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "QUJD", "QUJD"},
		{"trimmed", "  QUJD  ", "QUJD"},
		{"data uri", "data:audio/mpeg;base64,QUJD", "QUJD"},
		{"data uri case", "DATA:AUDIO/MP4;BASE64,QUJD", "QUJD"},
		{"internal whitespace", "QU\nJD", "QUJD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBase64(tt.in); got != tt.want {
				t.Errorf("NormalizeBase64(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClipLifecycle(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("audio-bytes"))

	clip, err := NewClipFromBase64("data:audio/mpeg;base64," + payload)
	if err != nil {
		t.Fatalf("NewClipFromBase64: %v", err)
	}
	data, err := os.ReadFile(clip.Path())
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("clip content = %q", data)
	}

	path := clip.Path()
	if err := clip.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if clip.Path() != "" {
		t.Error("Path should be empty after Close")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("backing file should be removed")
	}
	// Idempotent.
	if err := clip.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestClipRejectsBadPayload(t *testing.T) {
	if _, err := NewClipFromBase64("!!not base64!!"); err == nil {
		t.Error("invalid base64 should fail")
	}
	if _, err := NewClipFromBase64(""); err == nil {
		t.Error("empty payload should fail")
	}
}
