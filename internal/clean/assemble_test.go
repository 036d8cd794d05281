package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convosync/convosync/internal/transcript"
)

func TestAssembleConcatenatesInOrder(t *testing.T) {
	parts := []transcript.Part{
		{Text: "The answer "},
		{Text: "is "},
		{Text: "42."},
	}

	text, surviving := Assemble(parts, false)
	assert.Equal(t, "The answer is 42.", text)
	assert.Equal(t, 3, surviving)
}

func TestAssembleDropsThoughtParts(t *testing.T) {
	parts := []transcript.Part{
		{Text: "hidden reasoning", Thought: true},
		{Text: "visible answer"},
	}

	text, surviving := Assemble(parts, false)
	assert.Equal(t, "visible answer", text)
	assert.Equal(t, 1, surviving)

	text, surviving = Assemble(parts, true)
	assert.Equal(t, "hidden reasoningvisible answer", text)
	assert.Equal(t, 2, surviving)
}

func TestAssembleAllThoughts(t *testing.T) {
	parts := []transcript.Part{
		{Text: "a", Thought: true},
		{Text: "b", Thought: true},
	}

	text, surviving := Assemble(parts, false)
	assert.Equal(t, "", text)
	assert.Equal(t, 0, surviving)
}

func TestAssembleMissingText(t *testing.T) {
	parts := []transcript.Part{
		{Text: "start"},
		{},
		{Text: "end"},
	}

	text, surviving := Assemble(parts, false)
	assert.Equal(t, "startend", text)
	assert.Equal(t, 3, surviving)
}
