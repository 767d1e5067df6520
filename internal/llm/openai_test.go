package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/healthiq/internal/config"
)

func TestOpenAICompatibleComplete(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"diet\":\"x\"}"},"finish_reason":"stop"}],"usage":{"total_tokens":7}}`))
	}))
	defer srv.Close()

	p := NewCustomProvider(srv.URL, "k", "local-model")
	resp, err := p.Complete(context.Background(), NewRequest("", "sys", "hi"))
	require.NoError(t, err)

	assert.Equal(t, `{"diet":"x"}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, "local-model", got.Model)
	assert.Nil(t, got.ResponseFormat, "only openai gets response_format")
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestOpenAICompatibleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewCustomProvider(srv.URL, "", "m")
	_, err := p.Complete(context.Background(), NewRequest("", "", "hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestOpenAICompatiblePing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, NewCustomProvider(srv.URL, "good", "m").Ping(context.Background()))
	assert.EqualError(t, NewCustomProvider(srv.URL, "bad", "m").Ping(context.Background()), "invalid API key")
}

func TestOllamaComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"ok"},"done":true,"prompt_eval_count":3,"eval_count":2}`))
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL, "llama3").Complete(context.Background(), NewRequest("", "sys", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{"ollama", config.Config{Provider: "ollama"}, "ollama", false},
		{"groq", config.Config{Provider: "groq", APIKey: "k"}, "groq", false},
		{"groq no key", config.Config{Provider: "groq"}, "", true},
		{"openai", config.Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{"anthropic", config.Config{Provider: "anthropic", APIKey: "k"}, "anthropic", false},
		{"openrouter", config.Config{Provider: "openrouter", APIKey: "k"}, "openrouter", false},
		{"custom", config.Config{Provider: "custom", BaseURL: "http://localhost:1234/v1"}, "custom", false},
		{"custom no url", config.Config{Provider: "custom"}, "", true},
		{"gemini no key", config.Config{Provider: "gemini"}, "", true},
		{"unknown", config.Config{Provider: "nope"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), &tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}
