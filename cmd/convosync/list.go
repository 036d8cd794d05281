package main

import (
	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/index"
	"github.com/convosync/convosync/internal/search"
	"github.com/convosync/convosync/internal/tui"
)

func listCmd() *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all documents sorted by update time",
		Long:  `Opens a TUI panel showing all indexed documents sorted by update time (newest first). Type to filter by title or full text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			index.IndexAll(db, cfg.ExportRoot, indexCleaner(cfg))

			opts := search.Options{
				Since: since,
				Limit: limit,
			}

			return tui.RunList(db, opts)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Filter documents updated since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
