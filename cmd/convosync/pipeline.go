package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/markdown"
	"github.com/convosync/convosync/internal/transcript"
)

func pipelineCmd() *cobra.Command {
	var cleanOutput, mdOutput, placeholder string
	var keepThinking, keepCode, showStats bool

	cmd := &cobra.Command{
		Use:   "pipeline <export.json>",
		Short: "Clean an export and convert it to Markdown in one pass",
		Long: `Runs clean and convert back to back without re-reading the input.
The cleaned JSON and the Markdown log both reflect the same cleaning
options, so the Markdown shows exactly what the cleaned copy contains.`,
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

			if cleanOutput == "" {
				cleanOutput = cleanOutputPath(args[0])
			}
			if err := transcript.Save(normalized, cleanOutput); err != nil {
				return fmt.Errorf("write cleaned copy: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", cleanOutput)

			mdOpts := markdown.Options{}
			if showStats {
				mdOpts.Stats = &stats
			}
			out, _ := markdown.Render(normalized, mdOpts)

			if mdOutput == "" {
				mdOutput = mdOutputPath(args[0])
			}
			if err := os.WriteFile(mdOutput, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write markdown: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", mdOutput)

			if showStats {
				fmt.Fprintln(os.Stderr, stats)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cleanOutput, "clean-output", "c", "", "Cleaned JSON path (default <input>.cleaned.json)")
	cmd.Flags().StringVarP(&mdOutput, "md-output", "m", "", "Markdown path (default <input>.md)")
	cmd.Flags().BoolVar(&keepThinking, "keep-thinking", false, "Keep thought chunks and parts")
	cmd.Flags().BoolVar(&keepCode, "keep-code", false, "Keep fenced code blocks")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "Text replacing removed code blocks")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print cleaning statistics")

	return cmd
}
