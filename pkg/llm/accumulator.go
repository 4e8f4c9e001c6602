package llm

import "strings"

// AccumulatorState tracks the lifecycle of one streamed response.
type AccumulatorState int

const (
	// StateNoStream means no stream has been requested.
	StateNoStream AccumulatorState = iota
	// StateOpen means the stream was requested and no fragment has arrived.
	StateOpen
	// StateDraining means fragments are arriving.
	StateDraining
	// StateClosed means the producer signaled completion. Terminal.
	StateClosed
)

// Accumulator folds an in-order sequence of stream fragments into one
// logical complete response. Content extends across fragments; metadata
// fields are overridden by later fragments, matching the transport's
// incremental-update semantics. Folding out of arrival order is a bug:
// the merge is not commutative.
type Accumulator struct {
	state        AccumulatorState
	id           string
	created      int64
	model        string
	content      strings.Builder
	finishReason string
}

// NewAccumulator returns an accumulator in the NoStream state.
func NewAccumulator() *Accumulator {
	return &Accumulator{state: StateNoStream}
}

// State returns the current lifecycle state.
func (a *Accumulator) State() AccumulatorState {
	return a.state
}

// Open marks the stream as requested. The caller appends the empty
// assistant turn that fragment text will flow into.
func (a *Accumulator) Open() {
	a.state = StateOpen
}

// Fold merges one fragment and returns its incremental text so the caller
// can append it to the visible turn.
func (a *Accumulator) Fold(frag StreamingResponse) string {
	a.state = StateDraining

	if frag.ID != "" {
		a.id = frag.ID
	}
	if frag.Created != 0 {
		a.created = frag.Created
	}
	if frag.Model != "" {
		a.model = frag.Model
	}

	delta := ""
	if len(frag.Choices) > 0 {
		choice := frag.Choices[0]
		if choice.FinishReason != "" {
			a.finishReason = choice.FinishReason
		}
		delta = choice.Delta.Content
		a.content.WriteString(delta)
	}
	return delta
}

// Content returns the text folded so far.
func (a *Accumulator) Content() string {
	return a.content.String()
}

// Close finalizes the accumulator into one complete response. No data is
// lost: every folded fragment's text appears in the result exactly once,
// in arrival order.
func (a *Accumulator) Close() *ChatResponse {
	a.state = StateClosed

	finishReason := a.finishReason
	if finishReason == "" {
		finishReason = "stop"
	}

	return &ChatResponse{
		ID:      a.id,
		Object:  "chat.completion",
		Created: a.created,
		Model:   a.model,
		Choices: []Choice{
			{
				Index: 0,
				Message: Message{
					Role:    "assistant",
					Content: a.content.String(),
				},
				FinishReason: finishReason,
			},
		},
	}
}
