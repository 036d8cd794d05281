package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/index"
)

// indexCleaner builds the cleaner used when indexing exports. Thoughts
// are always dropped; code blocks stay so they remain searchable.
func indexCleaner(cfg *config.Config) *clean.Cleaner {
	rules := cfg.Rules()
	return clean.NewCleaner(clean.Options{
		KeepCode: true,
		Rules:    &rules,
	})
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index AI Studio exports for search",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning %s\n", cfg.ExportRoot)

			stats, err := index.IndexAll(db, cfg.ExportRoot, indexCleaner(cfg))
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
