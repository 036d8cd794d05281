package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLanguageTag(t *testing.T) {
	c := NewClassifier(DefaultRules())

	assert.Equal(t, Code, c.Classify("python", "anything at all"))
	assert.Equal(t, Code, c.Classify("Go", "anything at all"))
	assert.Equal(t, Code, c.Classify("python linenums", "anything at all"))
	assert.Equal(t, Prose, c.Classify("quote", "anything at all"))
	assert.Equal(t, Prose, c.Classify("", "anything at all"))
}

func TestClassifyKeyword(t *testing.T) {
	c := NewClassifier(DefaultRules())

	assert.Equal(t, Code, c.Classify("", "def helper"))
	assert.Equal(t, Code, c.Classify("", "the fix is to return early"))
	// keywords match whole tokens only
	assert.Equal(t, Prose, c.Classify("", "the classroom was empty"))
	assert.Equal(t, Prose, c.Classify("", "definitely not about that"))
}

func TestClassifySymbolDensity(t *testing.T) {
	c := NewClassifier(DefaultRules())

	assert.Equal(t, Code, c.Classify("", "a { b } c ;"))
	assert.Equal(t, Prose, c.Classify("", "a { b } only two symbols"))
}

func TestClassifyIndentation(t *testing.T) {
	c := NewClassifier(DefaultRules())

	indented := "    first indented line\n    second indented line"
	assert.Equal(t, Code, c.Classify("", indented))

	// one indented line is not enough
	assert.Equal(t, Prose, c.Classify("", "    single indented line\nplain line"))

	// indented list continuations are prose layout
	list := "    - first bullet\n    - second bullet"
	assert.Equal(t, Prose, c.Classify("", list))

	tabbed := "\tfirst line\n\tsecond line"
	assert.Equal(t, Code, c.Classify("", tabbed))
}

func TestClassifyCallPattern(t *testing.T) {
	c := NewClassifier(DefaultRules())

	assert.Equal(t, Code, c.Classify("", "print(x)"))
	assert.Equal(t, Code, c.Classify("", "call os.path.join(a, b) to build it"))
	// identifier preceded by a CJK rune is parenthetical prose
	assert.Equal(t, Prose, c.Classify("", "这个词abc(备注)只是注释"))
}

func TestClassifyLengthFallback(t *testing.T) {
	c := NewClassifier(DefaultRules())

	long := strings.Repeat("plain words only\n", 11)
	assert.Equal(t, Code, c.Classify("", strings.TrimRight(long, "\n")))

	short := "plain words only\nplain words only"
	assert.Equal(t, Prose, c.Classify("", short))
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(DefaultRules())
	body := "some body with a call(here) and { three } symbols;"
	first := c.Classify("", body)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("", body))
	}
}

func TestClassifyCustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = append(rules.Keywords, "selectstar")
	rules.MaxProseLines = 2
	c := NewClassifier(rules)

	assert.Equal(t, Code, c.Classify("", "run selectstar here"))
	assert.Equal(t, Code, c.Classify("", "one\ntwo\nthree"))
}
