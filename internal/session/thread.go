// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/google/uuid"

	"github.com/jeranaias/trends-tui/internal/logging"
)

// ThreadIDKey is the storage key holding the conversation thread id. The
// name matches the web client so a shared session directory interoperates.
const ThreadIDKey = "trends_chat_thread_id"

// GetOrCreateThreadID returns the session's thread id, minting and persisting
// a fresh UUIDv4 on first use. The id correlates every request of a session
// and is never rotated while the session storage survives; clearing the
// transcript does not touch it.
//
// If the store cannot persist the new id, the empty string is returned:
// callers must not issue network requests without a thread id, otherwise the
// backend would see each message as a fresh conversation.
func GetOrCreateThreadID(store Store) string {
	if id, ok := store.Get(ThreadIDKey); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	if err := store.Set(ThreadIDKey, id); err != nil {
		logging.L().Warn().Err(err).Str("key", ThreadIDKey).Msg("thread id not persisted")
		return ""
	}
	return id
}
