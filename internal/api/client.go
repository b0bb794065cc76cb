// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/trends-tui/internal/logging"
)

const (
	// MaxResponseSize caps a response body read.
	// SECURITY: Response size limit prevents memory exhaustion.
	// Voice replies carry whole audio files as base64, so the cap is
	// generous.
	MaxResponseSize = 50 * 1024 * 1024

	// voiceFileName is the filename sent with the multipart audio part;
	// the backend keys its decoder off the extension.
	voiceFileName = "audio.webm"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all backend requests; per-request deadlines come
// from the caller's context, not a client timeout, so a send can be
// cancelled promptly without tearing the pool down.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// ERRORS
// =============================================================================

// APIError is a non-2xx backend response.
type APIError struct {
	Endpoint   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Endpoint, e.StatusCode)
}

// Is matches any APIError, or one with the same endpoint and status.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	if t.Endpoint != "" && t.Endpoint != e.Endpoint {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Trends assistant backend. Safe for concurrent use,
// though the orchestrator only ever has one request in flight.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. timeout bounds a
// single round trip on top of whatever deadline the caller's context has.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: sharedHTTPClient,
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends a text question and returns the normalized reply.
func (c *Client) Chat(ctx context.Context, question, threadID string) (*Reply, error) {
	body, err := c.postJSON(ctx, "/chat", map[string]string{
		"question":  question,
		"thread_id": threadID,
	})
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return normalizeChat(&resp), nil
}

// Infograph requests an infographic for the question and returns the
// normalized image-only reply.
func (c *Client) Infograph(ctx context.Context, question, threadID string) (*Reply, error) {
	body, err := c.postJSON(ctx, "/infograph/generate", map[string]string{
		"question":  question,
		"thread_id": threadID,
	})
	if err != nil {
		return nil, err
	}

	var resp infographResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode infograph response: %w", err)
	}
	return normalizeInfograph(&resp), nil
}

// VoiceChat uploads a recorded voice note and returns the normalized reply,
// which may carry synthesized audio instead of text.
func (c *Client) VoiceChat(ctx context.Context, audio []byte, threadID string) (*Reply, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", voiceFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.WriteField("thread_id", threadID); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.WriteField("mode", "audio"); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	body, err := c.post(ctx, "/voice/chat", w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var resp voiceChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode voice response: %w", err)
	}
	return normalizeVoice(&resp, c.baseURL), nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.post(ctx, endpoint, "application/json", bytes.NewReader(bodyBytes))
}

func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.L().Warn().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		logging.L().Warn().Err(err).Str("endpoint", endpoint).Msg("response read failed")
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.L().Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("backend error")
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return data, nil
}

// readResponse reads the body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
