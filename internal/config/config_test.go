package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convosync/convosync/internal/clean"
)

func TestRulesDefaults(t *testing.T) {
	cfg := &Config{}
	rules := cfg.Rules()

	defaults := clean.DefaultRules()
	assert.Equal(t, defaults.SymbolThreshold, rules.SymbolThreshold)
	assert.Equal(t, defaults.MaxProseLines, rules.MaxProseLines)
	assert.Equal(t, defaults.Keywords, rules.Keywords)
}

func TestRulesOverrides(t *testing.T) {
	cfg := &Config{
		Classifier: Classifier{
			ExtraKeywords:   []string{"customword"},
			ExtraLanguages:  []string{"zig"},
			SymbolThreshold: 5,
			MaxProseLines:   20,
		},
	}
	rules := cfg.Rules()

	assert.Contains(t, rules.Keywords, "customword")
	assert.Contains(t, rules.Keywords, "def")
	assert.Contains(t, rules.LanguageTags, "zig")
	assert.Equal(t, 5, rules.SymbolThreshold)
	assert.Equal(t, 20, rules.MaxProseLines)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/u/exports", expandHome("~/exports", "/home/u"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path", "/home/u"))
	assert.Equal(t, "~", expandHome("~", "/home/u"))
}
