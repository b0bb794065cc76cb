// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the request orchestrator: the state machine between user
// input, the backend client, and the transcript.
//
// States are Idle and Sending, with an orthogonal Recording flag that
// precludes sending. At most one request is in flight; a send attempted
// while one is outstanding is rejected, not queued. Cancellation is
// user-initiated, idempotent, and leaves no error and no assistant turn
// behind.
package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/trends-tui/internal/api"
	"github.com/jeranaias/trends-tui/internal/i18n"
	"github.com/jeranaias/trends-tui/internal/logging"
	"github.com/jeranaias/trends-tui/internal/model"
	"github.com/jeranaias/trends-tui/internal/session"
)

// State is the orchestrator's request state.
type State int

const (
	StateIdle State = iota
	StateSending
)

// ErrNoThread is returned when no thread id could be established; without
// one the backend cannot correlate the conversation, so nothing is sent.
var ErrNoThread = errors.New("no thread id available")

// TurnResult is the outcome of one send.
type TurnResult struct {
	// User is the optimistically appended user message, if any.
	User *model.Message
	// Assistant is the reply message; nil on failure, cancellation or skip.
	Assistant *model.Message
	// ErrText is the localized error string to surface, empty when none.
	ErrText string
	// Err is the underlying failure, for logging and errors.Is checks.
	Err error
	// Cancelled marks a user-initiated abort: no error is surfaced.
	Cancelled bool
	// Skipped marks a send rejected by the Idle/Sending gate, a blank
	// input, or the recording lock. Nothing was appended.
	Skipped bool
}

// Orchestrator coordinates sends against the transcript. One per session.
type Orchestrator struct {
	client *api.Client
	store  *session.MessageStore
	locale i18n.Locale

	threadID string

	mu        sync.Mutex
	state     State
	recording bool
	infograph bool

	cancelMgr *cancelManager
}

// New creates an orchestrator over the given client and transcript.
// threadID may be empty when session storage is unavailable; sends will
// then surface the generic error instead of reaching the network.
func New(client *api.Client, store *session.MessageStore, threadID string, locale i18n.Locale) *Orchestrator {
	return &Orchestrator{
		client:    client,
		store:     store,
		locale:    locale,
		threadID:  threadID,
		state:     StateIdle,
		cancelMgr: newCancelManager(),
	}
}

// State returns the current request state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Sending reports whether a request is in flight.
func (o *Orchestrator) Sending() bool {
	return o.State() == StateSending
}

// SetRecording flips the recording lock. While recording, sends are
// rejected; while sending, callers must not start recording.
func (o *Orchestrator) SetRecording(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recording = on
}

// Recording reports whether the recording lock is held.
func (o *Orchestrator) Recording() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recording
}

// ToggleInfograph flips the infograph mode and returns the new value.
// The toggle selects which endpoint the next text send uses.
func (o *Orchestrator) ToggleInfograph() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.infograph = !o.infograph
	return o.infograph
}

// InfographEnabled reports whether text sends go to the infograph endpoint.
func (o *Orchestrator) InfographEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.infograph
}

// Cancel aborts the outstanding request, if any. Idempotent.
func (o *Orchestrator) Cancel() {
	o.cancelMgr.cancel()
}

// =============================================================================
// SENDS
// =============================================================================

// SendText sends a typed question. Blocks until the reply, failure or
// cancellation; the UI runs it inside a command. Blank input or a busy
// orchestrator yields a Skipped result with no transcript change.
func (o *Orchestrator) SendText(question string) TurnResult {
	question = strings.TrimSpace(question)
	if question == "" {
		return TurnResult{Skipped: true}
	}
	infograph, ok := o.beginSend()
	if !ok {
		return TurnResult{Skipped: true}
	}
	defer o.endSend()

	user := model.NewUserMessage(question, o.locale.FormatTime(time.Now(), false))
	o.store.Append(user)

	reply, err := o.roundTrip(func(ctx context.Context) (*api.Reply, error) {
		if infograph {
			return o.client.Infograph(ctx, question, o.threadID)
		}
		return o.client.Chat(ctx, question, o.threadID)
	})
	return o.finishTurn(user, reply, err)
}

// SendVoice sends a recorded voice note. The user message is appended
// unconditionally, matching the optimistic-append contract; an empty
// capture then skips the network and surfaces the generic error.
func (o *Orchestrator) SendVoice(durationSeconds int, audio []byte) TurnResult {
	if _, ok := o.beginSend(); !ok {
		return TurnResult{Skipped: true}
	}
	defer o.endSend()

	var encoded string
	if len(audio) > 0 {
		encoded = base64.StdEncoding.EncodeToString(audio)
	}
	user := model.NewUserVoiceMessage(durationSeconds, encoded, o.locale.FormatTime(time.Now(), false))
	o.store.Append(user)

	if len(audio) == 0 {
		return TurnResult{User: user, ErrText: o.locale.T("failedToGetResponse"), Err: errors.New("empty capture")}
	}

	reply, err := o.roundTrip(func(ctx context.Context) (*api.Reply, error) {
		return o.client.VoiceChat(ctx, audio, o.threadID)
	})
	return o.finishTurn(user, reply, err)
}

// beginSend takes the Idle→Sending transition. Returns the infograph
// toggle snapshot for this send and whether the transition was won.
func (o *Orchestrator) beginSend() (infograph bool, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSending || o.recording {
		return false, false
	}
	o.state = StateSending
	return o.infograph, true
}

func (o *Orchestrator) endSend() {
	o.cancelMgr.clear()
	o.mu.Lock()
	o.state = StateIdle
	o.mu.Unlock()
}

// roundTrip runs one cancellable backend call.
func (o *Orchestrator) roundTrip(call func(context.Context) (*api.Reply, error)) (*api.Reply, error) {
	if o.threadID == "" {
		return nil, ErrNoThread
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancelMgr.set(cancel)
	return call(ctx)
}

// finishTurn maps a reply or failure onto the transcript.
func (o *Orchestrator) finishTurn(user *model.Message, reply *api.Reply, err error) TurnResult {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// User abort: clear the in-flight handle and stop. No
			// error banner, no assistant turn.
			return TurnResult{User: user, Cancelled: true}
		}
		logging.L().Warn().Err(err).Msg("send failed")
		return TurnResult{User: user, ErrText: o.locale.T("failedToGetResponse"), Err: err}
	}

	assistant := model.NewAssistantMessage(reply.Content, o.locale.FormatTime(time.Now(), true))
	assistant.Meta = reply.Sources
	assistant.ImageBase64 = reply.ImageBase64
	assistant.AudioBase64 = reply.AudioBase64
	assistant.VoiceURL = reply.VoiceURL
	o.store.Append(assistant)

	return TurnResult{User: user, Assistant: assistant}
}
