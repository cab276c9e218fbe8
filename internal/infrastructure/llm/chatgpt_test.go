package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DevInsights/internal/config"
	"DevInsights/internal/ports"
)

func TestChatGPTGenerate(t *testing.T) {
	t.Parallel()

	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"skills\":[\"Go\"]}"}}]}`))
	}))
	defer srv.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{Endpoint: srv.URL, Model: "gpt-test", APIKey: "sk-test"})
	out, err := client.Generate(context.Background(), ports.GenerateRequest{
		Prompt:           "analyze",
		ResponseMIMEType: "application/json",
		Temperature:      0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"skills":["Go"]}`, out)
	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "analyze", got.Messages[1].Content)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
}

func TestChatGPTGenerateErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quota":
			http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
		case "/empty":
			_, _ = w.Write([]byte(`{"choices":[]}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	for path, want := range map[string]string{
		"/quota":  "429",
		"/empty":  "no content",
		"/broken": "decode chatgpt response",
	} {
		client := NewChatGPTClient(config.ChatGPTConfig{Endpoint: srv.URL + path, Model: "m", APIKey: "k"})
		_, err := client.Generate(context.Background(), ports.GenerateRequest{Prompt: "p"})
		assert.ErrorContains(t, err, want, path)
	}

	_, err := NewChatGPTClient(config.ChatGPTConfig{}).Generate(context.Background(), ports.GenerateRequest{})
	assert.ErrorContains(t, err, "misconfigured")
}
