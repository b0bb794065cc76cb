// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio implements voice-note capture and reply playback.
//
// Capture and playback run through the CaptureDevice and Backend
// interfaces; the shipped implementations shell out to ffmpeg, ffplay and
// ffprobe, which keeps the module free of cgo audio bindings. Tests use
// in-memory fakes.
//
// Cross-message exclusivity lives in the Coordinator: at most one player
// is audible, and starting one pauses whichever was playing. The Registry
// remembers which replies have auto-played for the life of the process, so
// a reply never autoplays twice even when its view is torn down and
// rebuilt.
package audio
