package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/markdown"
	"github.com/convosync/convosync/internal/transcript"
)

func mdOutputPath(input string) string {
	return strings.TrimSuffix(input, ".json") + ".md"
}

func convertCmd() *cobra.Command {
	var output string
	var keepThinking, showStats bool

	cmd := &cobra.Command{
		Use:   "convert <export.json>",
		Short: "Convert an AI Studio export to a Markdown conversation log",
		Long: `Renders the conversation as readable Markdown with Human/Assistant
sections. Code blocks survive conversion; thought content is dropped
unless --keep-thinking is set.`,
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

			opts := cleanOptions(cfg, keepThinking, true, "", false)
			cleaner := clean.NewCleaner(opts)
			normalized, stats := cleaner.Clean(doc)

			mdOpts := markdown.Options{}
			if showStats {
				mdOpts.Stats = &stats
			}
			out, _ := markdown.Render(normalized, mdOpts)

			if output == "" {
				output = mdOutputPath(args[0])
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			if showStats {
				fmt.Fprintln(os.Stderr, stats)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <input>.md)")
	cmd.Flags().BoolVar(&keepThinking, "keep-thinking", false, "Keep thought chunks and parts")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Append a statistics section and print stats")

	return cmd
}
