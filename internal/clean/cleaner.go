package clean

import (
	"fmt"

	"github.com/convosync/convosync/internal/transcript"
)

// Options controls one cleaning run.
type Options struct {
	// KeepThinking retains thought chunks and thought parts instead of
	// dropping them.
	KeepThinking bool
	// KeepCode leaves classified code blocks in place, renormalizing
	// their fence depth instead of stripping them.
	KeepCode bool
	// Placeholder is emitted where a code block was stripped. Empty
	// means full removal.
	Placeholder string
	// Rules overrides the classifier rule set. Zero value means
	// DefaultRules.
	Rules *Rules
}

// Stats is the tally of one cleaning run. It is recomputed every run and
// never persisted on its own.
type Stats struct {
	TotalChunks           int `json:"totalChunks"`
	UserCount             int `json:"userCount"`
	ModelCount            int `json:"modelCount"`
	RemovedThoughtCount   int `json:"removedThoughtCount"`
	RemovedCodeBlockCount int `json:"removedCodeBlockCount"`
	ReferenceCount        int `json:"referenceCount"`
	SkippedChunks         int `json:"skippedChunks"`
}

func (s Stats) String() string {
	return fmt.Sprintf("chunks=%d users=%d models=%d refs=%d thoughts_removed=%d code_blocks_removed=%d skipped=%d",
		s.TotalChunks, s.UserCount, s.ModelCount, s.ReferenceCount,
		s.RemovedThoughtCount, s.RemovedCodeBlockCount, s.SkippedChunks)
}

// Cleaner walks a decoded transcript and produces a normalized document:
// thought chunks dropped, fragmented parts reassembled, fenced code
// stripped or kept per options, metadata passed through untouched.
type Cleaner struct {
	opts  Options
	fence *FenceNormalizer
}

func NewCleaner(opts Options) *Cleaner {
	rules := DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	classifier := NewClassifier(rules)
	return &Cleaner{
		opts:  opts,
		fence: NewFenceNormalizer(classifier, opts.KeepCode, opts.Placeholder),
	}
}

// Clean produces a fresh output tree; the input document is not aliased,
// so the caller may discard either independently. A malformed chunk is
// recorded in Stats and skipped; only an unrecognizable document aborts,
// and that is caught earlier, at decode time.
func (c *Cleaner) Clean(doc *transcript.Document) (*transcript.NormalizedDocument, Stats) {
	var stats Stats
	out := &transcript.NormalizedDocument{
		RunSettings:       doc.RunSettings,
		SystemInstruction: doc.SystemInstruction,
	}

	chunks := make([]transcript.NormalizedChunk, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		nc, ok := c.cleanChunk(chunk, &stats)
		if !ok {
			continue
		}
		chunks = append(chunks, nc)
		stats.TotalChunks++
		switch chunk.Role {
		case transcript.RoleUser:
			stats.UserCount++
		case transcript.RoleModel:
			stats.ModelCount++
		}
	}

	if doc.Flat {
		out.Conversations = chunks
	} else {
		out.ChunkedPrompt = &transcript.NormalizedPrompt{Chunks: chunks}
	}
	return out, stats
}

func (c *Cleaner) cleanChunk(chunk transcript.Chunk, stats *Stats) (transcript.NormalizedChunk, bool) {
	// File references survive cleaning byte-for-byte.
	if chunk.Shape == transcript.ShapeReference {
		stats.ReferenceCount++
		return transcript.PassthroughChunk(chunk.Raw), true
	}

	if chunk.IsThought && !c.opts.KeepThinking {
		stats.RemovedThoughtCount++
		return transcript.NormalizedChunk{}, false
	}

	if chunk.Shape == transcript.ShapeUnknown || chunk.Role == "" {
		stats.SkippedChunks++
		return transcript.NormalizedChunk{}, false
	}

	var text string
	modified := false
	switch chunk.Shape {
	case transcript.ShapeText:
		text = *chunk.Text
	case transcript.ShapeParts:
		assembled, surviving := Assemble(chunk.Parts, c.opts.KeepThinking)
		if surviving == 0 {
			// Every part was thought-only: the chunk has no content left.
			stats.RemovedThoughtCount++
			return transcript.NormalizedChunk{}, false
		}
		text = assembled
		if surviving != len(chunk.Parts) || len(chunk.Parts) > 1 {
			modified = true
		}
	}

	normalized, removed := c.fence.Normalize(text)
	stats.RemovedCodeBlockCount += removed
	if normalized != text {
		modified = true
	}

	nc := transcript.NormalizedChunk{
		Role: chunk.Role,
		Text: &normalized,
	}
	// tokenCount was measured against the original text; keep it only
	// when cleaning left that text intact.
	if !modified {
		nc.TokenCount = chunk.TokenCount
	}
	return nc, true
}
