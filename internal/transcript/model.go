// Package transcript models exported AI Studio conversation documents:
// the raw chunk tree on the way in, and the normalized flat-text form
// on the way out.
package transcript

import "encoding/json"

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Shape identifies which of the recognized chunk layouts a chunk uses.
type Shape int

const (
	ShapeUnknown   Shape = iota
	ShapeText            // single flat "text" field
	ShapeParts           // fragmented "parts" array
	ShapeReference       // uploaded file reference, passed through verbatim
)

// Part is one fragment of a chunk's text. Upstream streaming may split a
// single logical message across many parts; order is significant.
type Part struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought,omitempty"`
}

// Chunk is one turn of the transcript tree.
type Chunk struct {
	Role       string
	IsThought  bool
	TokenCount *int
	Text       *string // ShapeText only
	Parts      []Part  // ShapeParts only
	Shape      Shape
	Raw        json.RawMessage // original bytes, kept for ShapeReference passthrough
}

// Document is a decoded export. Top-level metadata stays as raw bytes so
// the cleaner can copy it through without interpreting it.
type Document struct {
	RunSettings       json.RawMessage
	SystemInstruction json.RawMessage
	Chunks            []Chunk
	Flat              bool // decoded from the degenerate "conversations" layout
}

// NormalizedChunk is a surviving chunk reduced to role plus a flat text
// field. Reference chunks are carried as their original bytes.
type NormalizedChunk struct {
	Role       string  `json:"role,omitempty"`
	Text       *string `json:"text,omitempty"`
	TokenCount *int    `json:"tokenCount,omitempty"`

	raw json.RawMessage
}

// PassthroughChunk wraps original chunk bytes that must survive cleaning
// untouched (file references).
func PassthroughChunk(raw json.RawMessage) NormalizedChunk {
	return NormalizedChunk{raw: append(json.RawMessage(nil), raw...)}
}

func (c NormalizedChunk) IsPassthrough() bool { return c.raw != nil }

func (c NormalizedChunk) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return append([]byte(nil), c.raw...), nil
	}
	type plain NormalizedChunk
	return json.Marshal(plain(c))
}

// NormalizedPrompt is the cleaned chunk container.
type NormalizedPrompt struct {
	Chunks []NormalizedChunk `json:"chunks"`
}

// NormalizedDocument is the cleaner's output tree. Metadata keys mirror
// the input; exactly one of ChunkedPrompt or Conversations is set,
// matching the container the input used.
type NormalizedDocument struct {
	RunSettings       json.RawMessage   `json:"runSettings,omitempty"`
	SystemInstruction json.RawMessage   `json:"systemInstruction,omitempty"`
	ChunkedPrompt     *NormalizedPrompt `json:"chunkedPrompt,omitempty"`
	Conversations     []NormalizedChunk `json:"conversations,omitempty"`
}

// MessageChunks returns the chunk sequence regardless of container layout.
func (d *NormalizedDocument) MessageChunks() []NormalizedChunk {
	if d.ChunkedPrompt != nil {
		return d.ChunkedPrompt.Chunks
	}
	return d.Conversations
}
