// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/jeranaias/trends-tui/internal/logging"
	"github.com/jeranaias/trends-tui/internal/model"
)

// MessagesKey is the storage key holding the serialized transcript. The name
// matches the web client's session storage key.
const MessagesKey = "trends_chat_messages"

// MessageStore is the append-only conversation transcript.
//
// Messages are only ever appended or amended in place by the orchestrator;
// there is no removal short of Clear. Every mutation persists the whole
// transcript, so a crash loses at most the mutation in flight.
//
// The orchestrator appends from request goroutines while the UI reads on
// the event loop, so access is guarded.
type MessageStore struct {
	store Store

	mu       sync.RWMutex
	messages []*model.Message
}

// NewMessageStore hydrates a transcript from the store. A missing key yields
// an empty transcript; a corrupt one is logged and discarded rather than
// blocking startup.
func NewMessageStore(store Store) *MessageStore {
	ms := &MessageStore{store: store}
	raw, ok := store.Get(MessagesKey)
	if !ok || raw == "" {
		return ms
	}
	if err := json.Unmarshal([]byte(raw), &ms.messages); err != nil {
		logging.L().Warn().Err(err).Str("key", MessagesKey).Msg("discarding corrupt transcript")
		ms.messages = nil
	}
	return ms
}

// Append adds msg to the transcript and persists.
func (ms *MessageStore) Append(msg *model.Message) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.messages = append(ms.messages, msg)
	ms.persistLocked()
}

// Amend persists in-place edits already made to a stored message. The
// orchestrator uses it when a reply's audio arrives for a message that is
// already displayed.
func (ms *MessageStore) Amend() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.persistLocked()
}

// Messages returns a snapshot of the transcript in insertion order.
func (ms *MessageStore) Messages() []*model.Message {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]*model.Message, len(ms.messages))
	copy(out, ms.messages)
	return out
}

// Len returns the number of messages.
func (ms *MessageStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.messages)
}

// Last returns the most recent message, or nil when empty.
func (ms *MessageStore) Last() *model.Message {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if len(ms.messages) == 0 {
		return nil
	}
	return ms.messages[len(ms.messages)-1]
}

// Clear empties the transcript and removes the persisted key. The thread id
// is deliberately untouched: a cleared conversation continues on the same
// backend thread.
func (ms *MessageStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.messages = nil
	if err := ms.store.Remove(MessagesKey); err != nil {
		logging.L().Warn().Err(err).Str("key", MessagesKey).Msg("failed to clear transcript")
	}
}

func (ms *MessageStore) persistLocked() {
	data, err := json.Marshal(ms.messages)
	if err != nil {
		logging.L().Error().Err(err).Msg("failed to serialize transcript")
		return
	}
	if err := ms.store.Set(MessagesKey, string(data)); err != nil {
		// Persistence failure is non-fatal: the in-memory conversation
		// keeps working for the life of the process.
		logging.L().Warn().Err(err).Str("key", MessagesKey).Msg("transcript not persisted")
	}
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportMarkdown renders the transcript as Markdown with role labels and
// timestamps. Voice and image payloads are noted, not embedded.
func (ms *MessageStore) ExportMarkdown(threadID string) string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var sb strings.Builder
	sb.WriteString("# Conversation " + threadID + "\n\n---\n\n")

	for _, msg := range ms.messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "**")
		if msg.Timestamp != "" {
			sb.WriteString(" (" + msg.Timestamp + ")")
		}
		sb.WriteString(":\n\n")

		switch {
		case msg.IsVoiceNote():
			sb.WriteString("_[voice note]_")
		case msg.Content != "":
			sb.WriteString(msg.Content)
		}
		if msg.HasAudio() {
			sb.WriteString("\n\n_[voice reply]_")
		}
		if msg.ImageBase64 != "" {
			sb.WriteString("\n\n_[infographic]_")
		}
		if sources := msg.DisplaySources(); len(sources) > 0 {
			sb.WriteString("\n\nSources:\n")
			for _, s := range sources {
				title := s.Title
				if title == "" {
					title = s.URL
				}
				sb.WriteString("- [" + title + "](" + s.URL + ")\n")
			}
		}
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the transcript as pretty-printed JSON in the same shape
// the store persists.
func (ms *MessageStore) ExportJSON() ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return json.MarshalIndent(ms.messages, "", "  ")
}
