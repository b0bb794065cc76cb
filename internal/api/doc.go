// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Trends assistant backend.
//
// Three endpoints, all POST, all correlated by the session thread id:
//
//   - /chat                 text question, answer plus sources and optional image
//   - /voice/chat           multipart voice note, answer plus optional synthesized audio
//   - /infograph/generate   text question, image-only reply
//
// The backend's response conventions are informal but load-bearing: the
// literal string "None" means "absent", sources arrive as an object or an
// array, and the synthesized-audio field has two spellings in the wild.
// Normalization of all of that lives here so the rest of the program only
// ever sees a clean Reply.
package api
