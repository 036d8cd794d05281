package transcript

import (
	"encoding/json"
	"fmt"
	"os"
)

// StructureError reports input that is not a recognizable transcript at
// all. It is the only condition that aborts a run; anything below the
// document level degrades to a skipped chunk instead.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return "unrecognized document structure: " + e.Reason
}

type documentJSON struct {
	RunSettings       json.RawMessage    `json:"runSettings,omitempty"`
	SystemInstruction json.RawMessage    `json:"systemInstruction,omitempty"`
	ChunkedPrompt     *chunkedPromptJSON `json:"chunkedPrompt,omitempty"`
	Conversations     []json.RawMessage  `json:"conversations,omitempty"`
}

type chunkedPromptJSON struct {
	Chunks []json.RawMessage `json:"chunks"`
}

type chunkJSON struct {
	Role          string          `json:"role"`
	IsThought     bool            `json:"isThought"`
	TokenCount    *int            `json:"tokenCount"`
	Text          *string         `json:"text"`
	Parts         []Part          `json:"parts"`
	DriveDocument json.RawMessage `json:"driveDocument"`
}

// Decode parses an exported transcript. It accepts the chunked AI Studio
// layout (chunkedPrompt.chunks) and the flat conversations layout.
// Individual chunks never fail decoding; unrecognizable ones come back
// with ShapeUnknown so the cleaner can count and skip them.
func Decode(data []byte) (*Document, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &StructureError{Reason: err.Error()}
	}
	if raw.ChunkedPrompt == nil && raw.Conversations == nil {
		return nil, &StructureError{Reason: "neither chunkedPrompt.chunks nor conversations present"}
	}

	doc := &Document{
		RunSettings:       raw.RunSettings,
		SystemInstruction: raw.SystemInstruction,
	}

	var rawChunks []json.RawMessage
	if raw.ChunkedPrompt != nil {
		rawChunks = raw.ChunkedPrompt.Chunks
	} else {
		rawChunks = raw.Conversations
		doc.Flat = true
	}

	doc.Chunks = make([]Chunk, 0, len(rawChunks))
	for _, rc := range rawChunks {
		doc.Chunks = append(doc.Chunks, decodeChunk(rc))
	}
	return doc, nil
}

// Load reads and decodes a transcript file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func decodeChunk(raw json.RawMessage) Chunk {
	var cj chunkJSON
	if err := json.Unmarshal(raw, &cj); err != nil {
		return Chunk{Shape: ShapeUnknown, Raw: raw}
	}

	c := Chunk{
		Role:       cj.Role,
		IsThought:  cj.IsThought,
		TokenCount: cj.TokenCount,
		Raw:        raw,
	}
	switch {
	case cj.DriveDocument != nil:
		c.Shape = ShapeReference
	case cj.Text != nil:
		c.Shape = ShapeText
		c.Text = cj.Text
	case cj.Parts != nil:
		c.Shape = ShapeParts
		c.Parts = cj.Parts
	default:
		c.Shape = ShapeUnknown
	}
	return c
}

// Encode marshals a normalized document with two-space indentation,
// matching the formatting of the upstream exports.
func Encode(doc *NormalizedDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes a normalized document to path.
func Save(doc *NormalizedDocument, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
