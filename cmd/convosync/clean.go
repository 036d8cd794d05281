package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/transcript"
)

// cleanOutputPath derives the default cleaned-copy path from the input.
func cleanOutputPath(input string) string {
	return strings.TrimSuffix(input, ".json") + ".cleaned.json"
}

// cleanOptions merges config defaults with command-line flags. The
// placeholder flag wins over config only when explicitly set, so an
// empty --placeholder still means "remove outright".
func cleanOptions(cfg *config.Config, keepThinking, keepCode bool, placeholder string, placeholderSet bool) clean.Options {
	opts := clean.Options{
		KeepThinking: keepThinking,
		KeepCode:     keepCode,
		Placeholder:  cfg.CodePlaceholder,
	}
	if placeholderSet {
		opts.Placeholder = placeholder
	}
	rules := cfg.Rules()
	opts.Rules = &rules
	return opts
}

func cleanCmd() *cobra.Command {
	var output, placeholder string
	var keepThinking, keepCode, showStats bool

	cmd := &cobra.Command{
		Use:   "clean <export.json>",
		Short: "Strip thinking and code blocks from an AI Studio export",
		Long: `Reads an AI Studio JSON export, removes thought content and (unless
--keep-code) fenced code blocks, and writes a cleaned copy next to the
input. Settings and system instructions pass through untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			doc, err := transcript.Load(args[0])
			if err != nil {
				return fmt.Errorf("load export: %w", err)
			}

			opts := cleanOptions(cfg, keepThinking, keepCode, placeholder, cmd.Flags().Changed("placeholder"))
			cleaner := clean.NewCleaner(opts)
			normalized, stats := cleaner.Clean(doc)

			if output == "" {
				output = cleanOutputPath(args[0])
			}
			if err := transcript.Save(normalized, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			if showStats {
				fmt.Fprintln(os.Stderr, stats)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <input>.cleaned.json)")
	cmd.Flags().BoolVar(&keepThinking, "keep-thinking", false, "Keep thought chunks and parts")
	cmd.Flags().BoolVar(&keepCode, "keep-code", false, "Keep fenced code blocks")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "Text replacing removed code blocks")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print cleaning statistics")

	return cmd
}
