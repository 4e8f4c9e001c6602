package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Stream is an open SSE response stream. Fragments arrive on Fragments() in
// transport order; the channel closes when the producer signals completion
// ([DONE]) or the connection ends. Err reports a mid-stream transport
// failure and is valid only after the channel has closed.
type Stream struct {
	fragments chan StreamingResponse
	body      io.ReadCloser
	err       error
}

// OpenStream sends a streaming chat completion request and returns the open
// stream. The caller owns the stream and must drain it to completion.
func (c *Client) OpenStream(ctx context.Context, messages []Message) (*Stream, error) {
	jsonData, err := json.Marshal(ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, parseAPIError(resp.StatusCode, body)
	}

	s := &Stream{
		fragments: make(chan StreamingResponse, 64),
		body:      resp.Body,
	}
	go s.read()
	return s, nil
}

// Fragments returns the fragment channel.
func (s *Stream) Fragments() <-chan StreamingResponse {
	return s.fragments
}

// Err returns the transport error that ended the stream, if any. Only valid
// after Fragments() has closed.
func (s *Stream) Err() error {
	return s.err
}

// read decodes SSE lines into fragments until [DONE], EOF, or a transport
// error, then closes the fragment channel.
func (s *Stream) read() {
	defer close(s.fragments)
	defer s.body.Close()

	reader := bufio.NewReader(s.body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		data, found := strings.CutPrefix(line, "data: ")
		if !found {
			continue
		}
		if data == "[DONE]" {
			return
		}

		var frag StreamingResponse
		if err := json.Unmarshal([]byte(data), &frag); err != nil {
			// Malformed chunk; skip it rather than kill the stream.
			continue
		}
		s.fragments <- frag
	}
}
