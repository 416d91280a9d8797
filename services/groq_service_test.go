package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowfeed-api/config"
)

func newTestGroqService(url string) *GroqService {
	return NewGroqService(&config.Config{
		GroqAPIKey:  "test-key",
		GroqBaseURL: url,
		GroqModel:   "llama-3.1-8b-instant",
		GroqTimeout: 5 * time.Second,
	})
}

func TestGroqService_Chat(t *testing.T) {
	var gotReq groqRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Try a gentle cleanser first."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	gs := newTestGroqService(server.URL)
	out, err := gs.Chat(context.Background(), []GroqMessage{
		{Role: "user", Content: "where do I start?"},
	}, GroqOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Try a gentle cleanser first.", out)

	assert.Equal(t, "llama-3.1-8b-instant", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 0.7, gotReq.Temperature)
	assert.Equal(t, 1024, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "where do I start?", gotReq.Messages[0].Content)
}

func TestGroqService_ChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	out, err := newTestGroqService(server.URL).Chat(context.Background(), nil, GroqOptions{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGroqService_ChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n"))
		w.Write([]byte("data: [DONE]\n"))
	}))
	defer server.Close()

	var deltas []string
	full, err := newTestGroqService(server.URL).ChatStream(context.Background(), []GroqMessage{
		{Role: "user", Content: "hi"},
	}, GroqOptions{}, func(delta string) {
		deltas = append(deltas, delta)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	assert.Equal(t, "Hello", full)
}

func TestGroqService_ErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer server.Close()

	_, err := newTestGroqService(server.URL).Chat(context.Background(), nil, GroqOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit reached")
}
