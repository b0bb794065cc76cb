// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"sync"
	"time"
)

// Backend actually emits sound. Implementations play one source at a time
// from a given offset; Stop halts without error if nothing is playing.
type Backend interface {
	Play(src string, offset time.Duration) error
	Stop() error
}

// DurationProber reports the total length of an audio source. Duration is
// not known until probed, mirroring "metadata loads asynchronously".
type DurationProber interface {
	Duration(src string) (time.Duration, error)
}

// Player exposes play/pause, position, duration and seek over one audio
// source, and participates in cross-message exclusivity through the
// Coordinator.
type Player struct {
	id      string
	src     string
	backend Backend
	prober  DurationProber
	coord   *Coordinator

	mu       sync.Mutex
	playing  bool
	offset   time.Duration // position at last pause/seek
	started  time.Time     // wall clock of last play
	duration time.Duration // zero until probed
	probed   bool
}

// NewPlayer creates a player for src, identified by the message id it
// belongs to. coord may be nil for standalone playback.
func NewPlayer(id, src string, backend Backend, prober DurationProber, coord *Coordinator) *Player {
	return &Player{id: id, src: src, backend: backend, prober: prober, coord: coord}
}

// ID returns the owning message id.
func (p *Player) ID() string {
	return p.id
}

// Play starts or resumes playback and claims the shared "currently playing"
// slot, pausing whichever player held it.
func (p *Player) Play() error {
	if p.coord != nil {
		p.coord.claim(p)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return nil
	}
	if err := p.backend.Play(p.src, p.offset); err != nil {
		return err
	}
	p.playing = true
	p.started = time.Now()
	return nil
}

// Pause halts playback, retaining the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pauseLocked()
}

func (p *Player) pauseLocked() error {
	if !p.playing {
		return nil
	}
	p.offset += time.Since(p.started)
	p.playing = false
	return p.backend.Stop()
}

// Toggle plays when paused and pauses when playing.
func (p *Player) Toggle() error {
	p.mu.Lock()
	playing := p.playing
	p.mu.Unlock()
	if playing {
		return p.Pause()
	}
	return p.Play()
}

// Playing reports whether the player is currently audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Position returns the current playback position, clamped to the known
// duration once one is available.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.offset
	if p.playing {
		pos += time.Since(p.started)
	}
	if p.probed && p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos
}

// Duration returns the total length, probing the source on first call.
// Zero means not yet known.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.probed && p.prober != nil {
		if d, err := p.prober.Duration(p.src); err == nil {
			p.duration = d
		}
		p.probed = true
	}
	return p.duration
}

// SeekFraction jumps to the given fraction of the total duration, clamped
// to [0, 1]. A no-op until the duration is known. Playback state is
// preserved: a playing player continues from the new position.
func (p *Player) SeekFraction(f float64) error {
	total := p.Duration()
	if total <= 0 {
		return nil
	}
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	wasPlaying := p.playing
	if wasPlaying {
		if err := p.backend.Stop(); err != nil {
			return err
		}
		p.playing = false
	}
	p.offset = time.Duration(f * float64(total))
	if wasPlaying {
		if err := p.backend.Play(p.src, p.offset); err != nil {
			return err
		}
		p.playing = true
		p.started = time.Now()
	}
	return nil
}

// Progress returns position/duration in [0, 1], zero until the duration
// is known.
func (p *Player) Progress() float64 {
	total := p.Duration()
	if total <= 0 {
		return 0
	}
	f := float64(p.Position()) / float64(total)
	if f > 1 {
		f = 1
	}
	return f
}
