package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convosync/convosync/internal/transcript"
)

const sampleExport = `{
  "runSettings": {"temperature": 0.7, "model": "some-model"},
  "systemInstruction": {"text": "be helpful"},
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "Please fix this:\n` + "```" + `python\nprint(x)\n` + "```" + `\nthanks", "tokenCount": 25},
      {"role": "model", "isThought": true, "text": "secret reasoning"},
      {"role": "model", "parts": [{"text": "more reasoning", "thought": true}, {"text": "Sure, done."}], "tokenCount": 12},
      {"role": "user", "driveDocument": {"id": "file-123"}},
      {"bogus": true}
    ]
  }
}`

func mustDecode(t *testing.T, data string) *transcript.Document {
	t.Helper()
	doc, err := transcript.Decode([]byte(data))
	require.NoError(t, err)
	return doc
}

func TestCleanStripsThoughtsAndCode(t *testing.T) {
	doc := mustDecode(t, sampleExport)

	cleaner := NewCleaner(Options{})
	out, stats := cleaner.Clean(doc)

	assert.Equal(t, 3, stats.TotalChunks)
	assert.Equal(t, 2, stats.UserCount)
	assert.Equal(t, 1, stats.ModelCount)
	assert.Equal(t, 1, stats.RemovedThoughtCount)
	assert.Equal(t, 1, stats.RemovedCodeBlockCount)
	assert.Equal(t, 1, stats.ReferenceCount)
	assert.Equal(t, 1, stats.SkippedChunks)

	require.NotNil(t, out.ChunkedPrompt)
	chunks := out.ChunkedPrompt.Chunks
	require.Len(t, chunks, 3)

	// code block stripped from the user chunk, stale tokenCount dropped
	require.NotNil(t, chunks[0].Text)
	assert.Equal(t, "Please fix this:\nthanks", *chunks[0].Text)
	assert.Nil(t, chunks[0].TokenCount)

	// thought part dropped, surviving part kept
	require.NotNil(t, chunks[1].Text)
	assert.Equal(t, "Sure, done.", *chunks[1].Text)
	assert.Nil(t, chunks[1].TokenCount)

	// file reference passes through byte-for-byte
	assert.True(t, chunks[2].IsPassthrough())
}

func TestCleanKeepThinking(t *testing.T) {
	doc := mustDecode(t, sampleExport)

	cleaner := NewCleaner(Options{KeepThinking: true, KeepCode: true})
	out, stats := cleaner.Clean(doc)

	assert.Equal(t, 0, stats.RemovedThoughtCount)
	assert.Equal(t, 0, stats.RemovedCodeBlockCount)

	chunks := out.ChunkedPrompt.Chunks
	require.Len(t, chunks, 4)
	assert.Equal(t, "secret reasoning", *chunks[1].Text)
	assert.Equal(t, "more reasoningSure, done.", *chunks[2].Text)
}

func TestCleanKeepsTokenCountWhenUnmodified(t *testing.T) {
	input := `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "no fences here", "tokenCount": 4}
    ]
  }
}`
	doc := mustDecode(t, input)

	cleaner := NewCleaner(Options{})
	out, _ := cleaner.Clean(doc)

	chunks := out.ChunkedPrompt.Chunks
	require.Len(t, chunks, 1)
	require.NotNil(t, chunks[0].TokenCount)
	assert.Equal(t, 4, *chunks[0].TokenCount)
}

func TestCleanPlaceholder(t *testing.T) {
	input := `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "model", "text": "Fix:\n` + "```" + `python\nprint(x)\n` + "```" + `"}
    ]
  }
}`
	doc := mustDecode(t, input)

	cleaner := NewCleaner(Options{Placeholder: "[code removed]"})
	out, stats := cleaner.Clean(doc)

	assert.Equal(t, 1, stats.RemovedCodeBlockCount)
	assert.Equal(t, "Fix:\n[code removed]", *out.ChunkedPrompt.Chunks[0].Text)
}

func TestCleanMetadataPassthrough(t *testing.T) {
	doc := mustDecode(t, sampleExport)

	cleaner := NewCleaner(Options{})
	out, _ := cleaner.Clean(doc)

	assert.JSONEq(t, `{"temperature": 0.7, "model": "some-model"}`, string(out.RunSettings))
	assert.JSONEq(t, `{"text": "be helpful"}`, string(out.SystemInstruction))
}

func TestCleanFlatLayout(t *testing.T) {
	input := `{
  "conversations": [
    {"role": "user", "text": "hi there"},
    {"role": "model", "text": "hello"}
  ]
}`
	doc := mustDecode(t, input)

	cleaner := NewCleaner(Options{})
	out, stats := cleaner.Clean(doc)

	assert.Nil(t, out.ChunkedPrompt)
	assert.Len(t, out.Conversations, 2)
	assert.Equal(t, 2, stats.TotalChunks)
}

func TestCleanIdempotent(t *testing.T) {
	doc := mustDecode(t, sampleExport)

	cleaner := NewCleaner(Options{})
	first, firstStats := cleaner.Clean(doc)

	encoded, err := transcript.Encode(first)
	require.NoError(t, err)

	redecoded, err := transcript.Decode(encoded)
	require.NoError(t, err)

	second, secondStats := cleaner.Clean(redecoded)

	reEncoded, err := transcript.Encode(second)
	require.NoError(t, err)
	assert.Equal(t, string(encoded), string(reEncoded))

	assert.Equal(t, firstStats.TotalChunks, secondStats.TotalChunks)
	assert.Equal(t, 0, secondStats.RemovedThoughtCount)
	assert.Equal(t, 0, secondStats.RemovedCodeBlockCount)
}
