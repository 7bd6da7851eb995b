package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garbled1/ps-ripper/internal/journal"
)

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently archived discs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No discs archived yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				serial := entry.Serial
				if serial == "" {
					serial = "-"
				}
				rows = append(rows, []string{
					entry.CompletedAt.Local().Format(time.DateTime),
					entry.MediaKind,
					serial,
					entry.Label,
					entry.ArchivePath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Completed", "Kind", "Serial", "Label", "Path"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}
