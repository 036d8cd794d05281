package main

import (
	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/index"
	"github.com/convosync/convosync/internal/open"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <docKey>",
		Short: "Open the original export JSON in $EDITOR",
		Args:  cobra.ExactArgs(1),
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

			return open.OpenDocument(db, args[0])
		},
	}
}
