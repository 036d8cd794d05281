package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convosync/convosync/internal/config"
	"github.com/convosync/convosync/internal/index"
	"github.com/convosync/convosync/internal/render"
)

func previewCmd() *cobra.Command {
	var hitMsgID int
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <docKey>",
		Short: "Preview a conversation with context around a hit",
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

			out, _, err := render.RenderDocument(db, args[0], render.Options{
				HitMsgID: hitMsgID,
				Context:  context,
				Query:    query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitMsgID, "hit", -1, "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
