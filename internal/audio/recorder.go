// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"errors"
	"sync"
)

// MinSendSeconds is the minimum recording length that may be sent. The UI
// keeps the send affordance disabled below it rather than letting the
// orchestrator reject the note.
const MinSendSeconds = 1

// CaptureDevice records microphone input. Implementations capture from
// Start until Stop and expose the latest raw PCM frame for metering.
type CaptureDevice interface {
	// Start begins capturing. Only one capture at a time.
	Start() error
	// Frame returns the most recent unsigned 8-bit PCM samples, nil when
	// none have arrived yet.
	Frame() []byte
	// Stop ends the capture and returns the complete encoded recording.
	Stop() ([]byte, error)
}

// ErrNotRecording is returned by operations that need an active recording.
var ErrNotRecording = errors.New("not recording")

// Recorder tracks one recording session: whole-second duration and the
// live level meter. The caller drives time by calling Tick once per second;
// the recorder itself owns no timers, which keeps it deterministic and fits
// the UI's tick-message loop.
type Recorder struct {
	device CaptureDevice

	mu        sync.Mutex
	recording bool
	seconds   int
}

// NewRecorder creates a recorder over the given device.
func NewRecorder(device CaptureDevice) *Recorder {
	return &Recorder{device: device}
}

// Start begins a recording session with the duration counter at zero.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return errors.New("already recording")
	}
	if err := r.device.Start(); err != nil {
		return err
	}
	r.recording = true
	r.seconds = 0
	return nil
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Tick advances the duration by one second and returns the new value.
func (r *Recorder) Tick() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return r.seconds
	}
	r.seconds++
	return r.seconds
}

// Seconds returns the elapsed whole seconds of the active session.
func (r *Recorder) Seconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seconds
}

// CanSend reports whether the session is long enough to send.
func (r *Recorder) CanSend() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording && r.seconds >= MinSendSeconds
}

// Levels returns the current meter: RecordingBarCount bar heights computed
// from the device's latest frame.
func (r *Recorder) Levels() []int {
	return PeaksToHeights(BucketPeaks(r.device.Frame()))
}

// StopAndSend ends the session and returns its duration and audio. The
// orchestrator receives the pair verbatim.
func (r *Recorder) StopAndSend() (int, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0, nil, ErrNotRecording
	}
	r.recording = false
	seconds := r.seconds
	r.seconds = 0

	data, err := r.device.Stop()
	if err != nil {
		return 0, nil, err
	}
	return seconds, data, nil
}

// Cancel ends the session and discards everything captured. The duration
// counter resets; the orchestrator is never invoked.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.recording = false
	r.seconds = 0
	r.device.Stop() // discard
}
