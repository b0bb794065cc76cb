// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArabic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim and lower", "  Hello  ", "hello"},
		{"fold alif variants", "أمريكا وإيران وآسيا", "امريكا وايران واسيا"},
		{"fold ya and ta marbuta", "علىة", "عليه"},
		{"strip punctuation", "ما هذا؟!", "ما هذا"},
		{"collapse whitespace", "a   b\t c", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArabic(tt.in))
		})
	}
}

func TestIsDemoQuestion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"exact demo question", demoQuestion, true},
		{"diacritics and punctuation drift", "ما جهود الصين في تطوير قدراتها في الذكاء الاصطناعي، وهل تتفوق على أمريكا في هذا المجال", true},
		{"three keyword groups", "هل تتفوق الصين على أمريكا في الذكاء الاصطناعي", true},
		{"two groups only", "ما جهود الصين في الذكاء الاصطناعي", false},
		{"unrelated", "ما هي توقعات الاقتصاد العالمي", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDemoQuestion(tt.in), "input: %q", tt.in)
		})
	}
}

func TestVoiceDemoFastPath(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer": "long generated text", "transcript": "` +
			`هل تتفوق الصين على أمريكا في الذكاء الاصطناعي` + `", "meta": []}`))
	})
	defer srv.Close()

	reply, err := client.VoiceChat(context.Background(), []byte{1}, "t")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+DemoAudioPath, reply.VoiceURL)
	assert.Empty(t, reply.AudioBase64)
	assert.Empty(t, reply.Content, "demo audio suppresses text")
	assert.True(t, reply.HasAudio())
}

func TestVoiceNonDemoUntouched(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer": "جواب عادي", "transcript": "سؤال عادي", "meta": []}`))
	})
	defer srv.Close()

	reply, err := client.VoiceChat(context.Background(), []byte{1}, "t")
	require.NoError(t, err)
	assert.Empty(t, reply.VoiceURL)
	assert.Equal(t, "جواب عادي", reply.Content)
}
