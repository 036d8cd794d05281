package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/convosync/convosync/internal/clean"
)

// Classifier holds the tunable knobs of the code-block classifier. Zero
// values mean "use the built-in default"; list fields extend the
// built-in vocabularies rather than replacing them.
type Classifier struct {
	ExtraKeywords   []string `toml:"extra_keywords"`
	ExtraLanguages  []string `toml:"extra_languages"`
	SymbolThreshold int      `toml:"symbol_threshold"`
	MaxProseLines   int      `toml:"max_prose_lines"`
}

type Config struct {
	// ExportRoot is where AI Studio JSON exports live; index scans it.
	ExportRoot string `toml:"export_root"`
	DBPath     string `toml:"db_path"`
	// CodePlaceholder replaces stripped code blocks; empty removes them
	// outright.
	CodePlaceholder string     `toml:"code_placeholder"`
	Classifier      Classifier `toml:"classifier"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ExportRoot: filepath.Join(home, "ai-studio-exports"),
		DBPath:     filepath.Join(home, ".config", "convosync", "convosync.db"),
	}

	cfgPath := filepath.Join(home, ".config", "convosync", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

// Rules merges the config overrides into the default classifier rules.
func (c *Config) Rules() clean.Rules {
	rules := clean.DefaultRules()
	rules.Keywords = append(rules.Keywords, c.Classifier.ExtraKeywords...)
	rules.LanguageTags = append(rules.LanguageTags, c.Classifier.ExtraLanguages...)
	if c.Classifier.SymbolThreshold > 0 {
		rules.SymbolThreshold = c.Classifier.SymbolThreshold
	}
	if c.Classifier.MaxProseLines > 0 {
		rules.MaxProseLines = c.Classifier.MaxProseLines
	}
	return rules
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
