package clean

import (
	"strings"

	"github.com/convosync/convosync/internal/transcript"
)

// Assemble reconstructs a chunk's logical text from its fragmented
// parts. Parts are concatenated in original order with nothing inserted
// between them; upstream streaming decides where fragments split, and a
// lost fragment silently corrupts the sentence, so this must stay
// lossless. A part with a missing text field contributes the empty
// string rather than failing.
//
// When includeThought is false, thought-flagged parts are dropped. The
// surviving count tells the caller whether anything non-thought was
// present at all: zero survivors means the enclosing chunk had no
// user-facing content and should be dropped entirely.
func Assemble(parts []transcript.Part, includeThought bool) (text string, surviving int) {
	var b strings.Builder
	for _, p := range parts {
		if p.Thought && !includeThought {
			continue
		}
		b.WriteString(p.Text)
		surviving++
	}
	return b.String(), surviving
}
