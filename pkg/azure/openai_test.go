package azure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsDeploymentRequest(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-4o-mini/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-02-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ACAO:RELATORIO"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/", "test-key", "2024-02-01", "gpt-4o-mini", "")
	reply, err := client.Complete(context.Background(), "system", "user", 50, 0)

	require.NoError(t, err)
	assert.Equal(t, "ACAO:RELATORIO", reply)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Content)
}

func TestCompleteReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":"429","message":"rate limited"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "test-key", "2024-02-01", "dep", "")
	_, err := client.Complete(context.Background(), "s", "u", 10, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "test-key", "2024-02-01", "dep", "")
	_, err := client.Complete(context.Background(), "s", "u", 10, 0)
	assert.Error(t, err)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewOpenAIClient("http://127.0.0.1:1", "", "v", "dep", "")
	_, err := client.Complete(context.Background(), "s", "u", 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
