// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import "sync"

// Coordinator holds the shared "currently playing message id". Exactly one
// player may be audible: claiming the slot pauses the previous holder.
type Coordinator struct {
	mu      sync.Mutex
	current *Player
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// claim makes p the current player, pausing the previous one. Called by
// Player.Play before the backend starts.
func (c *Coordinator) claim(p *Player) {
	c.mu.Lock()
	prev := c.current
	c.current = p
	c.mu.Unlock()

	if prev != nil && prev != p {
		prev.Pause()
	}
}

// CurrentID returns the id of the player holding the slot, empty when none.
func (c *Coordinator) CurrentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.id
}

// =============================================================================
// AUTOPLAY REGISTRY
// =============================================================================

// Registry remembers which message ids have auto-played. It lives for the
// whole process so a reply never autoplays again after its view is rebuilt.
type Registry struct {
	mu     sync.Mutex
	played map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{played: make(map[string]struct{})}
}

// TryMarkPlayed records id as auto-played. Returns true exactly once per
// id: the caller may autoplay only on a true return.
func (r *Registry) TryMarkPlayed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.played[id]; seen {
		return false
	}
	r.played[id] = struct{}{}
	return true
}

// HasPlayed reports whether id has auto-played.
func (r *Registry) HasPlayed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, seen := r.played[id]
	return seen
}
