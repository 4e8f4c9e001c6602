package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frag(id, model, content, finish string) StreamingResponse {
	return StreamingResponse{
		ID:    id,
		Model: model,
		Choices: []StreamingChoice{
			{Delta: StreamingDelta{Content: content}, FinishReason: finish},
		},
	}
}

func TestAccumulatorStateTransitions(t *testing.T) {
	acc := NewAccumulator()
	assert.Equal(t, StateNoStream, acc.State())

	acc.Open()
	assert.Equal(t, StateOpen, acc.State())

	acc.Fold(frag("id-1", "", "hi", ""))
	assert.Equal(t, StateDraining, acc.State())

	acc.Close()
	assert.Equal(t, StateClosed, acc.State())
}

func TestAccumulatorConcatenatesContentInOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Open()

	pieces := []string{"Hel", "lo", ", ", "wor", "ld"}
	for _, p := range pieces {
		delta := acc.Fold(frag("id-1", "gpt-4o-mini", p, ""))
		assert.Equal(t, p, delta)
	}

	assert.Equal(t, "Hello, world", acc.Content())

	resp := acc.Close()
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hello, world", resp.Choices[0].Message.Content)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
}

func TestAccumulatorLaterFieldsOverride(t *testing.T) {
	acc := NewAccumulator()
	acc.Open()

	acc.Fold(frag("first", "model-a", "a", ""))
	acc.Fold(frag("second", "model-b", "b", ""))
	acc.Fold(StreamingResponse{Choices: []StreamingChoice{
		{Delta: StreamingDelta{}, FinishReason: "length"},
	}})

	resp := acc.Close()
	assert.Equal(t, "second", resp.ID)
	assert.Equal(t, "model-b", resp.Model)
	assert.Equal(t, "ab", resp.Choices[0].Message.Content)
	assert.Equal(t, "length", resp.Choices[0].FinishReason)
}

func TestAccumulatorCloseDefaultsFinishReason(t *testing.T) {
	acc := NewAccumulator()
	acc.Open()
	acc.Fold(frag("id", "m", "x", ""))

	resp := acc.Close()
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}

func TestAccumulatorEmptyStream(t *testing.T) {
	acc := NewAccumulator()
	acc.Open()

	resp := acc.Close()
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}

func TestAccumulatorFragmentWithoutChoices(t *testing.T) {
	acc := NewAccumulator()
	acc.Open()

	delta := acc.Fold(StreamingResponse{ID: "meta-only"})
	assert.Equal(t, "", delta)
	assert.Equal(t, StateDraining, acc.State())

	acc.Fold(frag("", "", "text", ""))
	resp := acc.Close()
	assert.Equal(t, "meta-only", resp.ID)
	assert.Equal(t, "text", resp.Choices[0].Message.Content)
}
