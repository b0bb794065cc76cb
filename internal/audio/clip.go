// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// dataURIPrefix matches an audio data-URI header that must be stripped
// before base64 decoding.
var dataURIPrefix = regexp.MustCompile(`(?i)^data:audio/[^;]+;base64,(.+)$`)

// maxClipSize caps a downloaded reply clip.
const maxClipSize = 50 * 1024 * 1024

var clipHTTPClient = &http.Client{Timeout: 60 * time.Second}

// Clip is a locally playable audio resource backed by a temp file.
// Close releases the file; a closed clip must not be played.
type Clip struct {
	path string
}

// NormalizeBase64 strips an optional data-URI header and all whitespace
// from a base64 audio payload.
func NormalizeBase64(input string) string {
	trimmed := strings.TrimSpace(input)
	if m := dataURIPrefix.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	return strings.Join(strings.Fields(trimmed), "")
}

// NewClipFromBase64 decodes a base64 audio payload into a temp file.
func NewClipFromBase64(b64 string) (*Clip, error) {
	data, err := base64.StdEncoding.DecodeString(NormalizeBase64(b64))
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}
	return newClipFromBytes(data)
}

// NewClipFromURL downloads a reply clip into a temp file.
func NewClipFromURL(url string) (*Clip, error) {
	resp, err := clipHTTPClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch audio: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return newClipFromBytes(data)
}

func newClipFromBytes(data []byte) (*Clip, error) {
	f, err := os.CreateTemp("", "trends-audio-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create clip file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write clip file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write clip file: %w", err)
	}
	return &Clip{path: f.Name()}, nil
}

// Path returns the clip's file path, empty after Close.
func (c *Clip) Path() string {
	return c.path
}

// Close removes the backing file. Idempotent.
func (c *Clip) Close() error {
	if c.path == "" {
		return nil
	}
	err := os.Remove(c.path)
	c.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
