package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"filechat/pkg/events"
	"filechat/pkg/llm"
)

// Message types
type streamStartedMsg struct {
	stream *llm.Stream
}

type streamOpenErrMsg struct {
	err error
}

type fragmentMsg struct {
	frag llm.StreamingResponse
}

type streamDoneMsg struct {
	err error
}

type busEventMsg struct {
	event events.Event
}

// openStream requests a streaming completion for the conversation so far.
func openStream(client *llm.Client, history []llm.Message) tea.Cmd {
	return func() tea.Msg {
		stream, err := client.OpenStream(context.Background(), history)
		if err != nil {
			return streamOpenErrMsg{err: err}
		}
		return streamStartedMsg{stream: stream}
	}
}

// waitForFragment blocks on the next stream fragment. The Update loop
// re-issues it after applying each fragment, so fragments arrive one per
// Update cycle, in order.
func waitForFragment(stream *llm.Stream) tea.Cmd {
	return func() tea.Msg {
		frag, ok := <-stream.Fragments()
		if !ok {
			return streamDoneMsg{err: stream.Err()}
		}
		return fragmentMsg{frag: frag}
	}
}

// waitForBusEvent delivers the next background event. It returns immediately
// when the queue is non-empty, otherwise it parks on the bus wake signal.
// Wakes are coalesced, so a wake with an empty queue just parks again.
func waitForBusEvent(bus *events.Bus) tea.Cmd {
	return func() tea.Msg {
		for {
			if ev, ok := bus.TryNext(); ok {
				return busEventMsg{event: ev}
			}
			<-bus.Wake()
		}
	}
}
