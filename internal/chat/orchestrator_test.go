// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/trends-tui/internal/api"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/session"
)

func newTestOrchestrator(t *testing.T, handler http.HandlerFunc) (*Orchestrator, *session.MessageStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMessageStore(session.NewMemoryStore())
	client := api.NewClient(srv.URL, 5*time.Second)
	return New(client, store, "thread-test", i18n.English), store
}

func TestSendTextAppendsBothTurns(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		w.Write([]byte(`{"answer": "the answer", "meta": [{"title":"S","url":"u"}]}`))
	})

	res := o.SendText("  a question  ")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Assistant)

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "a question", msgs[0].Content, "input is trimmed")
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "the answer", msgs[1].Content)
	assert.Len(t, msgs[1].Meta, 1)
	assert.Equal(t, StateIdle, o.State())
}

func TestSendTextBlankIsSkipped(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	res := o.SendText("   ")
	assert.True(t, res.Skipped)
	assert.Zero(t, store.Len())
}

func TestSendWhileSendingIsRejected(t *testing.T) {
	release := make(chan struct{})
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"answer": "late", "meta": []}`))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.SendText("first")
	}()

	// Wait for the first send to occupy the gate.
	require.Eventually(t, o.Sending, time.Second, time.Millisecond)

	res := o.SendText("second")
	assert.True(t, res.Skipped, "second send must be rejected, not queued")

	close(release)
	wg.Wait()

	// Only the first send's two turns are in the transcript.
	require.Len(t, store.Messages(), 2)
	assert.Equal(t, "first", store.Messages()[0].Content)
}

func TestSendWhileRecordingIsRejected(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	o.SetRecording(true)
	res := o.SendText("question")
	assert.True(t, res.Skipped)
	assert.Zero(t, store.Len())

	o.SetRecording(false)
}

func TestCancelLeavesNoErrorAndNoAssistantTurn(t *testing.T) {
	started := make(chan struct{})
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	go func() {
		<-started
		o.Cancel()
	}()

	res := o.SendText("question")
	assert.True(t, res.Cancelled)
	assert.Empty(t, res.ErrText)
	assert.Nil(t, res.Assistant)

	// The optimistic user turn stays; nothing else was appended.
	require.Len(t, store.Messages(), 1)
	assert.Equal(t, model.RoleUser, store.Messages()[0].Role)
	assert.Equal(t, StateIdle, o.State())
}

func TestCancelIdempotentWhenIdle(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {})
	o.Cancel()
	o.Cancel()
	assert.Equal(t, StateIdle, o.State())
}

func TestServerFailureSurfacesLocalizedError(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	res := o.SendText("question")
	require.Error(t, res.Err)
	assert.Equal(t, i18n.English.T("failedToGetResponse"), res.ErrText)
	assert.Nil(t, res.Assistant)

	require.Len(t, store.Messages(), 1, "no assistant turn on failure")
	assert.Equal(t, StateIdle, o.State(), "orchestrator returns to Idle")

	// The orchestrator is usable again after a failure.
	res2 := o.SendText("question")
	require.Error(t, res2.Err)
	require.Len(t, store.Messages(), 2)
}

func TestInfographToggleSelectsEndpoint(t *testing.T) {
	var path string
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"image_base64": "aW1n", "meta": []}`))
	})

	assert.False(t, o.InfographEnabled())
	assert.True(t, o.ToggleInfograph())

	res := o.SendText("draw it")
	require.NoError(t, res.Err)
	assert.Equal(t, "/infograph/generate", path)

	assistant := store.Messages()[1]
	assert.Equal(t, "aW1n", assistant.ImageBase64)
	assert.Empty(t, assistant.Content, "infograph replies are image-only")

	assert.False(t, o.ToggleInfograph())
}

func TestSendVoice(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voice/chat", r.URL.Path)
		w.Write([]byte(`{"answer": "text", "audio_base64": "QUJD", "meta": []}`))
	})

	res := o.SendVoice(3, []byte{1, 2, 3})
	require.NoError(t, res.Err)

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsVoiceNote())
	assert.Equal(t, 3, msgs[0].DurationSeconds)
	assert.NotEmpty(t, msgs[0].UserAudioBase64)

	assert.Equal(t, "QUJD", msgs[1].AudioBase64)
	assert.Empty(t, msgs[1].Content, "audio suppresses text")
}

func TestSendVoiceEmptyCapture(t *testing.T) {
	o, store := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty capture must not reach the network")
	})

	res := o.SendVoice(2, nil)
	require.Error(t, res.Err)
	assert.Equal(t, i18n.English.T("failedToGetResponse"), res.ErrText)

	// The voice message is still appended, matching optimistic append.
	require.Len(t, store.Messages(), 1)
	assert.True(t, store.Messages()[0].IsVoiceNote())
}

func TestEmptyThreadIDRefusesNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a thread id")
	}))
	defer srv.Close()

	store := session.NewMessageStore(session.NewMemoryStore())
	o := New(api.NewClient(srv.URL, time.Second), store, "", i18n.English)

	res := o.SendText("question")
	require.ErrorIs(t, res.Err, ErrNoThread)
	assert.Equal(t, i18n.English.T("failedToGetResponse"), res.ErrText)
	require.Len(t, store.Messages(), 1, "optimistic user turn only")
}
