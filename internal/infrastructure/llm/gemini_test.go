package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-test",
		Timeout: timeout,
	}, srv.Client())
}

func chatReq() port.ChatRequest {
	return port.ChatRequest{
		SystemInstruction: "be helpful",
		UserContent:       "enhance: a cat",
		Temperature:       0.7,
		TopP:              0.95,
		TopK:              40,
	}
}

func TestGeminiGenerateSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gen := body["generationConfig"].(map[string]any)
		assert.InDelta(t, 0.7, gen["temperature"], 1e-9)
		assert.InDelta(t, 0.95, gen["topP"], 1e-9)
		assert.InDelta(t, 40, gen["topK"], 1e-9)
		sys := body["systemInstruction"].(map[string]any)
		assert.Equal(t, "be helpful", sys["parts"].([]any)[0].(map[string]any)["text"])

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"  A sleepy tabby  "}]}}]}`)
	}, time.Second)

	got, err := c.Generate(context.Background(), chatReq())
	require.NoError(t, err)
	assert.Equal(t, "A sleepy tabby", got)
	assert.Equal(t, "gemini", c.Provider())
	assert.Equal(t, "gemini-test", c.Model())
}

func TestGeminiGenerateResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		reason  string
	}{
		{name: "blocked", body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, wantErr: ErrBlockedContent, reason: "SAFETY"},
		{name: "no candidates", body: `{}`, wantErr: ErrMalformedResponse},
		{name: "empty text", body: `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`, wantErr: ErrEmptyResponse},
		{name: "missing content", body: `{"candidates":[{"finishReason":"STOP"}]}`, wantErr: ErrEmptyResponse},
		{name: "not json", body: `<html>`, wantErr: ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}, time.Second)

			_, err := c.Generate(context.Background(), chatReq())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.reason != "" {
				var blocked *BlockedError
				require.ErrorAs(t, err, &blocked)
				assert.Equal(t, tt.reason, blocked.Reason)
				assert.Equal(t, "Request blocked: SAFETY", err.Error())
			}
		})
	}
}

func TestGeminiGenerateStatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusServiceUnavailable, ErrUpstreamUnavailable},
		{http.StatusGatewayTimeout, ErrUpstreamTimeout},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, time.Second)
			_, err := c.Generate(context.Background(), chatReq())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"API key not valid"}}`)
	}, time.Second)
	_, err := c.Generate(context.Background(), chatReq())
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.Contains(t, perr.Error(), "API key not valid")
}

func TestGeminiGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := c.Generate(context.Background(), chatReq())
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestGeminiGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: url, Model: "m", Timeout: time.Second}, nil)
	_, err := c.Generate(context.Background(), chatReq())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestGeminiMissingAPIKey(t *testing.T) {
	c := NewGeminiClient(GeminiConfig{Model: "m"}, nil)
	_, err := c.Generate(context.Background(), chatReq())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiStreamRelaysChunksInOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"one ", "", "two ", "three"} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":%q}]}}]}\n\n", chunk)
			w.(http.Flusher).Flush()
		}
	}, time.Second)

	stream, err := c.Stream(context.Background(), chatReq())
	require.NoError(t, err)
	defer stream.Close()

	var got []string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, chunk)
	}
	assert.Equal(t, []string{"one ", "two ", "three"}, got)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, stream.Close())
}

func TestGeminiStreamErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"promptFeedback\":{\"blockReason\":\"PROHIBITED_CONTENT\"}}\n\n")
	}, time.Second)
	stream, err := c.Stream(context.Background(), chatReq())
	require.NoError(t, err)
	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrBlockedContent)
	require.NoError(t, stream.Close())

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {not json}\n\n")
	}, time.Second)
	stream, err = c.Stream(context.Background(), chatReq())
	require.NoError(t, err)
	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrMalformedResponse)
	require.NoError(t, stream.Close())

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Second)
	_, err = c.Stream(context.Background(), chatReq())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestGeminiStreamRecordsOutcomeAtEnd(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n\n")
		_, _ = io.WriteString(w, "data: {not json}\n\n")
	}, time.Second)
	success := metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "success")
	failure := metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "error")
	okBefore, errBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	stream, err := c.Stream(context.Background(), chatReq())
	require.NoError(t, err)
	assert.Equal(t, okBefore, testutil.ToFloat64(success))
	assert.Equal(t, errBefore, testutil.ToFloat64(failure))

	chunk, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "ok", chunk)
	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrMalformedResponse)
	require.NoError(t, stream.Close())

	assert.Equal(t, okBefore, testutil.ToFloat64(success))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(failure))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"done\"}]}}]}\n\n")
	}, time.Second)
	stream, err = c.Stream(context.Background(), chatReq())
	require.NoError(t, err)
	for {
		if _, err := stream.Recv(); err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
	}
	require.NoError(t, stream.Close())
	assert.Equal(t, okBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(failure))
}

func TestExtractText(t *testing.T) {
	_, err := ExtractText(nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var resp GeminiResponse
	require.NoError(t, json.Unmarshal([]byte(`{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}]}}]}`), &resp))
	got, err := ExtractText(&resp)
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}
