package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseChunk(content string) string {
	return fmt.Sprintf(`data: {"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":%q},"finish_reason":""}]}`+"\n\n", content)
}

func TestOpenStreamDeliversFragmentsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk("Hel"))
		fmt.Fprint(w, sseChunk("lo"))
		fmt.Fprint(w, `data: {"id":"chatcmpl-1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")
	stream, err := client.OpenStream(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	var frags []StreamingResponse
	for f := range stream.Fragments() {
		frags = append(frags, f)
	}
	require.NoError(t, stream.Err())
	require.Len(t, frags, 3)
	assert.Equal(t, "Hel", frags[0].DeltaContent())
	assert.Equal(t, "lo", frags[1].DeltaContent())
	assert.Equal(t, "stop", frags[2].Choices[0].FinishReason)
}

func TestOpenStreamSkipsBlankAndMalformedLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: {not valid json}\n\n")
		fmt.Fprint(w, sseChunk("ok"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")
	stream, err := client.OpenStream(context.Background(), nil)
	require.NoError(t, err)

	var frags []StreamingResponse
	for f := range stream.Fragments() {
		frags = append(frags, f)
	}
	require.NoError(t, stream.Err())
	require.Len(t, frags, 1)
	assert.Equal(t, "ok", frags[0].DeltaContent())
}

func TestOpenStreamClosesOnEOFWithoutDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseChunk("partial"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")
	stream, err := client.OpenStream(context.Background(), nil)
	require.NoError(t, err)

	var frags []StreamingResponse
	for f := range stream.Fragments() {
		frags = append(frags, f)
	}
	require.Len(t, frags, 1)
	assert.Equal(t, "partial", frags[0].DeltaContent())
}

func TestOpenStreamAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"Incorrect API key provided"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "gpt-4o-mini")
	_, err := client.OpenStream(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 401")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestStreamFoldsIntoCompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseChunk("The answer "))
		fmt.Fprint(w, sseChunk("is 42."))
		fmt.Fprint(w, `data: {"id":"chatcmpl-1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini")
	stream, err := client.OpenStream(context.Background(), nil)
	require.NoError(t, err)

	acc := NewAccumulator()
	acc.Open()
	var visible string
	for f := range stream.Fragments() {
		visible += acc.Fold(f)
	}
	resp := acc.Close()

	// What the viewer saw incrementally equals the final folded response.
	assert.Equal(t, "The answer is 42.", visible)
	assert.Equal(t, visible, resp.Choices[0].Message.Content)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}
