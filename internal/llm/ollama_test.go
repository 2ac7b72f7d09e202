package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.InDelta(t, 0.3, req.Options.Temperature, 0.001)
		assert.Equal(t, 500, req.Options.NumPredict)

		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: `{"subject":"s","body":"b"}`})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3.2")
	out, err := c.Generate(context.Background(), "write an email")
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"s","body":"b"}`, out)
}

func TestOllamaGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{Error: "model not found"})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "missing-model")
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3.2")
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOllamaGenerate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3.2")
	_, err := c.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestOllamaCheckConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL+"/", "llama3.2") // trailing slash is trimmed
	assert.NoError(t, c.CheckConnection(context.Background()))
}

func TestOllamaCheckConnection_Unreachable(t *testing.T) {
	c := NewOllamaClient("http://127.0.0.1:1", "llama3.2")
	assert.Error(t, c.CheckConnection(context.Background()))
}
