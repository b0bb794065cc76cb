// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"

	"github.com/jeranaias/trends-tui/internal/model"
)

// SourceList tolerates the backend's two shapes for the meta field: a lone
// source object or an array of them. Anything else decodes to empty.
type SourceList []model.Source

// UnmarshalJSON implements the object-or-array normalization.
func (s *SourceList) UnmarshalJSON(data []byte) error {
	var many []model.Source
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one model.Source
	if err := json.Unmarshal(data, &one); err == nil {
		*s = SourceList{one}
		return nil
	}
	// "None", null, a bare string: no sources.
	*s = nil
	return nil
}

// chatResponse is the wire shape of /chat.
type chatResponse struct {
	Answer string     `json:"answer"`
	Meta   SourceList `json:"meta"`
	Image  string     `json:"image"`
}

// voiceChatResponse is the wire shape of /voice/chat. AudioSnake and
// AudioCamel are the two observed spellings of the synthesized-audio field.
// The transcript-ish fields exist only so the demo fast path can sniff what
// the backend heard.
type voiceChatResponse struct {
	Answer string     `json:"answer"`
	Meta   SourceList `json:"meta"`

	AudioSnake string `json:"audio_base64"`
	AudioCamel string `json:"audioBase64"`

	Question      string `json:"question"`
	Query         string `json:"query"`
	Transcript    string `json:"transcript"`
	Transcription string `json:"transcription"`
	UserQuestion  string `json:"user_question"`
	InputText     string `json:"input_text"`
}

// audio returns the synthesized audio payload under either spelling,
// preferring the snake_case one when both are present.
func (r *voiceChatResponse) audio() string {
	if r.AudioSnake != "" {
		return r.AudioSnake
	}
	return r.AudioCamel
}

// transcriptCandidates returns every field the backend might echo the
// spoken question into.
func (r *voiceChatResponse) transcriptCandidates() []string {
	return []string{
		r.Question, r.Query, r.Transcript, r.Transcription,
		r.UserQuestion, r.InputText, r.Answer,
	}
}

// infographResponse is the wire shape of /infograph/generate.
type infographResponse struct {
	Meta        SourceList `json:"meta"`
	ImageBase64 string     `json:"image_base64"`
}
