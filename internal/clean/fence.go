package clean

import "strings"

// FenceNormalizer scans assembled message text for backtick-fenced
// regions and rewrites them according to the classifier's verdict:
// code is stripped (or depth-normalized in keep mode), prose is
// unwrapped so only the fence markers disappear.
type FenceNormalizer struct {
	classifier  *Classifier
	keepCode    bool
	placeholder string
}

// NewFenceNormalizer builds a normalizer. placeholder is emitted in
// place of each stripped block; empty means full removal.
func NewFenceNormalizer(c *Classifier, keepCode bool, placeholder string) *FenceNormalizer {
	return &FenceNormalizer{classifier: c, keepCode: keepCode, placeholder: placeholder}
}

// Normalize rewrites text and returns it along with the number of code
// blocks removed. Fenced regions are handled left to right and never
// overlap. An opening fence with no matching close is malformed input;
// the remainder passes through as plain text rather than being deleted.
func (n *FenceNormalizer) Normalize(text string) (string, int) {
	if !strings.Contains(text, "```") {
		return text, 0
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	removed := 0

	i := 0
	for i < len(lines) {
		openLen, tag, ok := parseFenceOpen(lines[i])
		if !ok {
			out = append(out, lines[i])
			i++
			continue
		}

		closeIdx := findFenceClose(lines, i+1, openLen)
		if closeIdx < 0 {
			// Unterminated fence: everything from here on is plain text.
			out = append(out, lines[i:]...)
			break
		}

		bodyLines := lines[i+1 : closeIdx]
		body := strings.Join(bodyLines, "\n")

		switch n.classifier.Classify(tag, body) {
		case Code:
			if n.keepCode {
				fence := strings.Repeat("`", keepFenceDepth(body))
				out = append(out, fence+tag)
				out = append(out, bodyLines...)
				out = append(out, fence)
			} else {
				removed++
				if n.placeholder != "" {
					out = append(out, n.placeholder)
				}
			}
		default:
			// A fence wrapped around natural language: unwrap, keep the
			// body verbatim.
			out = append(out, bodyLines...)
		}
		i = closeIdx + 1
	}

	return strings.Join(out, "\n"), removed
}

// parseFenceOpen reports whether a line opens a fenced region: a run of
// three or more backticks, optionally followed by an info string.
func parseFenceOpen(line string) (fenceLen int, tag string, ok bool) {
	run := 0
	for run < len(line) && line[run] == '`' {
		run++
	}
	if run < 3 {
		return 0, "", false
	}
	rest := line[run:]
	// An info string containing backticks is not a fence opener.
	if strings.Contains(rest, "`") {
		return 0, "", false
	}
	return run, strings.TrimSpace(rest), true
}

// findFenceClose returns the index of the first line at or after start
// that closes a fence of openLen backticks, or -1. Shorter runs inside
// the body are content, not delimiters.
func findFenceClose(lines []string, start, openLen int) int {
	for j := start; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if len(trimmed) < openLen {
			continue
		}
		if strings.Count(trimmed, "`") != len(trimmed) {
			continue
		}
		return j
	}
	return -1
}

// keepFenceDepth picks the smallest fence that no backtick run inside
// the body can terminate early.
func keepFenceDepth(body string) int {
	depth := longestBacktickRun(body) + 1
	if depth < 3 {
		depth = 3
	}
	return depth
}

func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
