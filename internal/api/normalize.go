// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"strings"

	"github.com/jeranaias/trends-tui/internal/model"
)

// noneSentinel is the backend's informal "absent" marker in string fields.
const noneSentinel = "None"

// Reply is a backend response after normalization. Exactly the fields a
// Message needs; empty string always means absent.
type Reply struct {
	Content     string
	Sources     []model.Source
	ImageBase64 string
	AudioBase64 string
	// VoiceURL is set instead of AudioBase64 when the reply's audio is a
	// fetchable resource (the demo fast path).
	VoiceURL string
}

// HasAudio reports whether the reply carries synthesized voice audio.
func (r *Reply) HasAudio() bool {
	return r.AudioBase64 != "" || r.VoiceURL != ""
}

// clean trims s and maps the "None" sentinel and whitespace-only strings
// to absent.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == noneSentinel {
		return ""
	}
	return s
}

// normalizeChat maps a /chat response. When the backend answers with an
// image, the answer field holds the "None" sentinel and the reply is
// image-only.
func normalizeChat(resp *chatResponse) *Reply {
	return &Reply{
		Content:     clean(resp.Answer),
		Sources:     resp.Meta,
		ImageBase64: clean(resp.Image),
	}
}

// normalizeInfograph maps an /infograph/generate response. Image-only:
// there is no text path.
func normalizeInfograph(resp *infographResponse) *Reply {
	return &Reply{
		Sources:     resp.Meta,
		ImageBase64: clean(resp.ImageBase64),
	}
}

// normalizeVoice maps a /voice/chat response. Presence of synthesized audio
// suppresses the text answer entirely: audio is the primary channel. The
// demo fast path substitutes a pre-produced recording for the known demo
// question, as a URL resolved against the backend base.
func normalizeVoice(resp *voiceChatResponse, baseURL string) *Reply {
	if isDemoResponse(resp.transcriptCandidates()) {
		return &Reply{
			Sources:  resp.Meta,
			VoiceURL: baseURL + DemoAudioPath,
		}
	}

	audio := clean(resp.audio())
	content := clean(resp.Answer)
	if audio != "" {
		content = ""
	}
	return &Reply{
		Content:     content,
		Sources:     resp.Meta,
		AudioBase64: audio,
	}
}
