// Package markdown renders a normalized transcript as a readable
// conversation log. It is a pure consumer: chunks come out in insertion
// order, one section per surviving chunk, and nothing here re-interprets
// the text beyond skipping empty entries.
package markdown

import (
	"fmt"
	"strings"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/transcript"
)

// Options controls rendering.
type Options struct {
	// Stats appends a trailing summary block when set.
	Stats *clean.Stats
}

// Counts tracks how many sections were written per role.
type Counts struct {
	Users  int
	Models int
	Total  int
}

// Render produces the Markdown transcript for a normalized document.
func Render(doc *transcript.NormalizedDocument, opts Options) (string, Counts) {
	chunks := doc.MessageChunks()

	var b strings.Builder
	var counts Counts

	b.WriteString("# Conversation Log\n\n")
	fmt.Fprintf(&b, "> Total %d messages\n\n", len(chunks))
	b.WriteString("---\n\n")

	for _, c := range chunks {
		if c.IsPassthrough() || c.Text == nil {
			continue
		}
		text := strings.TrimSpace(*c.Text)
		if text == "" {
			continue
		}

		role := strings.ToLower(c.Role)
		switch role {
		case transcript.RoleUser:
			b.WriteString("**Human:**\n\n")
			counts.Users++
		case transcript.RoleModel:
			b.WriteString("**Assistant:**\n\n")
			counts.Models++
		default:
			fmt.Fprintf(&b, "**%s:**\n\n", capitalize(role))
		}
		counts.Total++

		b.WriteString(text)
		b.WriteString("\n\n---\n---\n\n")
	}

	if opts.Stats != nil {
		writeStats(&b, *opts.Stats)
	}

	return b.String(), counts
}

func writeStats(b *strings.Builder, s clean.Stats) {
	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(b, "- Total chunks: %d\n", s.TotalChunks)
	fmt.Fprintf(b, "- User messages: %d\n", s.UserCount)
	fmt.Fprintf(b, "- Model messages: %d\n", s.ModelCount)
	fmt.Fprintf(b, "- File references: %d\n", s.ReferenceCount)
	fmt.Fprintf(b, "- Thinking sections removed: %d\n", s.RemovedThoughtCount)
	fmt.Fprintf(b, "- Code blocks removed: %d\n", s.RemovedCodeBlockCount)
	if s.SkippedChunks > 0 {
		fmt.Fprintf(b, "- Malformed chunks skipped: %d\n", s.SkippedChunks)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
