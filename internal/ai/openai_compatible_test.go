package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"vision",
"choices":[{"index":0,"message":{"role":"assistant","content":"{\"materials\":[]}"},"finish_reason":"stop"}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAICompatibleClient(ChatConfig{
		BaseURL: srv.URL + "/v1",
		APIKey:  "test-key",
		Model:   "vision",
		Timeout: 5 * time.Second,
	})
}

func TestComplete_SendsImageAndJSONFormat(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	text, err := client.Complete(context.Background(), CompletionRequest{
		System:       "extract",
		Prompt:       "read this drawing",
		ImageDataURL: "data:image/png;base64,AAAA",
		JSON:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"materials":[]}`, text)

	assert.Equal(t, "vision", got["model"])
	format, ok := got["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	parts, ok := user["content"].([]any)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "image_url", parts[1].(map[string]any)["type"])
}

func TestComplete_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"slow down","type":"requests","code":"rate_limit_exceeded"}}`,
			wantErr: ErrQuotaExceeded,
		},
		{
			name:    "quota code on 403",
			status:  http.StatusForbidden,
			body:    `{"error":{"message":"no credit","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantErr: ErrQuotaExceeded,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"boom","type":"server_error"}}`,
			wantErr: ErrProviderUnavailable,
		},
		{
			name:    "bad gateway html",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: ErrProviderUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestComplete_MissingCredential(t *testing.T) {
	client := NewOpenAICompatibleClient(ChatConfig{BaseURL: "http://127.0.0.1:1", Model: "vision"})

	assert.False(t, client.Available())
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrMissingCredential)
}
