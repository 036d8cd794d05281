package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChunkShapes(t *testing.T) {
	input := `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "plain", "tokenCount": 3},
      {"role": "model", "parts": [{"text": "a"}, {"text": "b", "thought": true}]},
      {"role": "user", "driveDocument": {"id": "f1"}},
      {"something": "else"}
    ]
  }
}`
	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Chunks, 4)
	assert.False(t, doc.Flat)

	assert.Equal(t, ShapeText, doc.Chunks[0].Shape)
	require.NotNil(t, doc.Chunks[0].Text)
	assert.Equal(t, "plain", *doc.Chunks[0].Text)
	require.NotNil(t, doc.Chunks[0].TokenCount)
	assert.Equal(t, 3, *doc.Chunks[0].TokenCount)

	assert.Equal(t, ShapeParts, doc.Chunks[1].Shape)
	require.Len(t, doc.Chunks[1].Parts, 2)
	assert.True(t, doc.Chunks[1].Parts[1].Thought)

	assert.Equal(t, ShapeReference, doc.Chunks[2].Shape)
	assert.Equal(t, ShapeUnknown, doc.Chunks[3].Shape)
}

func TestDecodeFlatLayout(t *testing.T) {
	input := `{"conversations": [{"role": "user", "text": "hi"}]}`

	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.True(t, doc.Flat)
	require.Len(t, doc.Chunks, 1)
	assert.Equal(t, ShapeText, doc.Chunks[0].Shape)
}

func TestDecodeStructureErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"invalid json", `{not json`},
		{"no containers", `{"runSettings": {}}`},
		{"top-level array", `[1, 2, 3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input))
			require.Error(t, err)
			var se *StructureError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestDecodeEmptyChunkList(t *testing.T) {
	input := `{"chunkedPrompt": {"chunks": []}}`

	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, doc.Chunks)
}

func TestDecodeThoughtFlag(t *testing.T) {
	input := `{
  "chunkedPrompt": {
    "chunks": [{"role": "model", "isThought": true, "text": "hmm"}]
  }
}`
	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.True(t, doc.Chunks[0].IsThought)
}

func TestEncodeTrailingNewline(t *testing.T) {
	text := "hello"
	doc := &NormalizedDocument{
		ChunkedPrompt: &NormalizedPrompt{
			Chunks: []NormalizedChunk{{Role: RoleUser, Text: &text}},
		},
	}

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.True(t, len(data) > 0 && data[len(data)-1] == '\n')
	assert.Contains(t, string(data), `"role": "user"`)
}

func TestPassthroughChunkMarshal(t *testing.T) {
	raw := []byte(`{"driveDocument":{"id":"f1"},"role":"user"}`)
	c := PassthroughChunk(raw)

	assert.True(t, c.IsPassthrough())

	out, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}
