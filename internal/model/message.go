// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
//
// The JSON shape of Message is shared with the Trends web client's session
// storage, so field names here are load-bearing: transcripts written by one
// client must hydrate in the other.
package model

import (
	"strconv"
	"sync"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// ContentType distinguishes typed messages from voice notes.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVoice ContentType = "voice"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Source is one provenance entry attached to an assistant reply.
type Source struct {
	Date   string `json:"date"`
	Title  string `json:"title"`
	Writer string `json:"writer"`
	URL    string `json:"url"`
}

// Message represents a single message in the conversation.
//
// Optional fields are omitempty so persisted transcripts stay byte-compatible
// with the web client: a plain text message round-trips with exactly the
// fields it started with.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"type"`
	Content string `json:"content"`

	// Timestamp is the locale-formatted wall clock at creation. It is a
	// display string, not a sortable instant; ordering comes from ID.
	Timestamp string `json:"timestamp"`

	ContentType ContentType `json:"contentType,omitempty"`

	// Voice note fields. DurationSeconds is whole seconds as captured;
	// UserAudioBase64 keeps the outgoing recording so the transcript can
	// replay it after hydration.
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	UserAudioBase64 string `json:"userAudioBase64,omitempty"`

	// Assistant reply audio: either a fetchable URL or inline base64.
	VoiceURL    string `json:"voiceUrl,omitempty"`
	AudioBase64 string `json:"audioBase64,omitempty"`

	// Inline infographic image.
	ImageBase64 string `json:"imageBase64,omitempty"`

	Meta []Source `json:"meta,omitempty"`
}

// NewUserMessage creates a text message from the user.
func NewUserMessage(content, timestamp string) *Message {
	return &Message{
		ID:        NextID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: timestamp,
	}
}

// NewUserVoiceMessage creates a voice-note message from the user.
func NewUserVoiceMessage(durationSeconds int, audioBase64, timestamp string) *Message {
	return &Message{
		ID:              NextID(),
		Role:            RoleUser,
		Timestamp:       timestamp,
		ContentType:     ContentVoice,
		DurationSeconds: durationSeconds,
		UserAudioBase64: audioBase64,
	}
}

// NewAssistantMessage creates an assistant reply with the given content.
func NewAssistantMessage(content, timestamp string) *Message {
	return &Message{
		ID:        NextID(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: timestamp,
	}
}

// HasAudio reports whether the message carries playable assistant audio.
func (m *Message) HasAudio() bool {
	return m.VoiceURL != "" || m.AudioBase64 != ""
}

// IsVoiceNote reports whether the message is a recorded user voice note.
func (m *Message) IsVoiceNote() bool {
	return m.ContentType == ContentVoice
}

// DisplaySources returns the sources worth rendering: entries without a URL
// carry nothing a reader can follow and are skipped.
func (m *Message) DisplaySources() []Source {
	var out []Source
	for _, s := range m.Meta {
		if s.URL != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty reports whether the message has no renderable content at all.
func (m *Message) IsEmpty() bool {
	return m.Content == "" && !m.HasAudio() && !m.IsVoiceNote() && m.ImageBase64 == ""
}

// =============================================================================
// ID GENERATION
// =============================================================================

var (
	idMu   sync.Mutex
	lastID int64
)

// NextID returns a unique, strictly increasing message ID. IDs are
// millisecond timestamps rendered as decimal strings; two messages created
// in the same millisecond get consecutive values.
func NextID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}
