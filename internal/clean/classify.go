package clean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verdict is the outcome of classifying one fenced block.
type Verdict int

const (
	Prose Verdict = iota
	Code
)

func (v Verdict) String() string {
	if v == Code {
		return "code"
	}
	return "prose"
}

// Rules holds the tunable inputs of the classifier. Callers usually start
// from DefaultRules and override individual fields (the config file maps
// onto this).
type Rules struct {
	// LanguageTags are fence info strings that mark a block as code
	// outright.
	LanguageTags []string
	// Keywords are matched as whole tokens anywhere in the body.
	Keywords []string
	// Symbols are counted across the body; SymbolThreshold or more
	// occurrences in total reads as code.
	Symbols         []string
	SymbolThreshold int
	// IndentMinLines is how many consistently indented lines (4 spaces
	// or a tab) it takes before indentation reads as code.
	IndentMinLines int
	// MaxProseLines is the length fallback: an untagged block longer
	// than this is assumed to be pasted code.
	MaxProseLines int
}

// DefaultRules mirrors the vocabulary the upstream exports were tuned
// against.
func DefaultRules() Rules {
	return Rules{
		LanguageTags: []string{
			"python", "javascript", "typescript", "java", "cpp", "c",
			"rust", "go", "golang", "ruby", "php", "shell", "bash", "sh",
			"zsh", "sql", "html", "css", "json", "yaml", "xml",
			"markdown", "kotlin", "swift", "code",
		},
		Keywords: []string{
			"def", "class", "import", "from", "return", "function",
			"func", "const", "let", "var", "elif", "async", "await",
			"catch", "except", "finally", "throw", "public", "private",
			"protected", "static", "void", "struct", "enum",
			"interface", "impl", "fn", "package", "lambda", "typedef",
		},
		Symbols:         []string{"{", "}", "[", "]", "()", "=>", "->", ";"},
		SymbolThreshold: 3,
		IndentMinLines:  2,
		MaxProseLines:   10,
	}
}

// classifierRule is one signal in the decision chain. Earlier rules are
// higher-confidence and short-circuit the rest; reordering them changes
// classification outcomes, so the chain is built once, in order.
type classifierRule struct {
	name  string
	match func(tag, body string) bool
}

// Classifier decides code-vs-prose for fenced blocks. It is a pure
// function of its inputs: no I/O, no state mutation after construction.
type Classifier struct {
	languages map[string]bool
	keywords  map[string]bool
	rules     Rules
	chain     []classifierRule
}

func NewClassifier(rules Rules) *Classifier {
	c := &Classifier{
		languages: make(map[string]bool, len(rules.LanguageTags)),
		keywords:  make(map[string]bool, len(rules.Keywords)),
		rules:     rules,
	}
	for _, l := range rules.LanguageTags {
		c.languages[strings.ToLower(l)] = true
	}
	for _, k := range rules.Keywords {
		c.keywords[strings.ToLower(k)] = true
	}
	c.chain = []classifierRule{
		{"language-tag", c.matchLanguageTag},
		{"keyword", c.matchKeyword},
		{"symbol-density", c.matchSymbolDensity},
		{"indentation", c.matchIndentation},
		{"call-pattern", c.matchCallPattern},
		{"length", c.matchLength},
	}
	return c
}

// Classify runs the rule chain over one fenced block. The first matching
// rule wins; if nothing fires the block is prose.
func (c *Classifier) Classify(languageTag, body string) Verdict {
	for _, r := range c.chain {
		if r.match(languageTag, body) {
			return Code
		}
	}
	return Prose
}

func (c *Classifier) matchLanguageTag(tag, _ string) bool {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" {
		return false
	}
	// Info strings may carry extra tokens after the language.
	if i := strings.IndexFunc(tag, unicode.IsSpace); i >= 0 {
		tag = tag[:i]
	}
	return c.languages[tag]
}

func (c *Classifier) matchKeyword(_, body string) bool {
	for _, tok := range tokenize(body) {
		if c.keywords[tok] {
			return true
		}
	}
	return false
}

func (c *Classifier) matchSymbolDensity(_, body string) bool {
	count := 0
	for _, sym := range c.rules.Symbols {
		count += strings.Count(body, sym)
		if count >= c.rules.SymbolThreshold {
			return true
		}
	}
	return false
}

func (c *Classifier) matchIndentation(_, body string) bool {
	indented := 0
	for _, line := range strings.Split(body, "\n") {
		if !hasCodeIndent(line) {
			continue
		}
		// Indented list/quote continuations are ordinary prose layout.
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "> ") {
			continue
		}
		indented++
		if indented >= c.rules.IndentMinLines {
			return true
		}
	}
	return false
}

// hasCodeIndent reports a line starting with a tab or a run of exactly
// four spaces followed by content.
func hasCodeIndent(line string) bool {
	if strings.HasPrefix(line, "\t") {
		return strings.TrimSpace(line) != ""
	}
	if !strings.HasPrefix(line, "    ") {
		return false
	}
	rest := line[4:]
	return rest != "" && rest[0] != ' ' && strings.TrimSpace(rest) != ""
}

// callRe finds identifier( args ) shapes. Go's \w is ASCII-only, which is
// what we want: the CJK guard below handles the rest.
var callRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_.]*\([^)]*\)`)

func (c *Classifier) matchCallPattern(_, body string) bool {
	for _, loc := range callRe.FindAllStringIndex(body, -1) {
		// "词语abc(备注)" is parenthetical prose in CJK text, not a call.
		if r := runeBefore(body, loc[0]); isCJK(r) {
			continue
		}
		return true
	}
	return false
}

func (c *Classifier) matchLength(_, body string) bool {
	return lineCount(body) > c.rules.MaxProseLines
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

// tokenize lowercases the body and splits it into identifier-like tokens.
func tokenize(body string) []string {
	return strings.FieldsFunc(strings.ToLower(body), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func runeBefore(s string, i int) rune {
	if i <= 0 {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r
}

// isCJK covers Han ideographs plus CJK and fullwidth punctuation.
func isCJK(r rune) bool {
	if unicode.Is(unicode.Han, r) {
		return true
	}
	return (r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}
