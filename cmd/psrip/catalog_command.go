package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/iso9660"
)

func newCatalogCommand(configFlag *string) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Serial number catalog utilities",
	}
	catalogCmd.AddCommand(newCatalogResolveCommand(configFlag))
	catalogCmd.AddCommand(newCatalogListCommand(configFlag))
	return catalogCmd
}

func loadResolver(configFlag *string) (*catalog.Resolver, error) {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	resolver, err := catalog.Load(cfg.Paths.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return resolver, nil
}

func newCatalogResolveCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <serial>",
		Short: "Look up a serial number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := loadResolver(configFlag)
			if err != nil {
				return err
			}

			serial := iso9660.NormalizeSerial(args[0])
			record, ok := resolver.Resolve(serial)
			if !ok {
				return fmt.Errorf("serial %s not found in catalog", serial)
			}

			rows := [][]string{
				{"Serial", record.Serial},
				{"Title", record.Title},
				{"Region", string(record.Region)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func newCatalogListCommand(configFlag *string) *cobra.Command {
	var regionFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := loadResolver(configFlag)
			if err != nil {
				return err
			}

			region := catalog.Region(strings.ToUpper(strings.TrimSpace(regionFlag)))
			rows := [][]string{}
			for _, record := range resolver.Records() {
				if regionFlag != "" && record.Region != region {
					continue
				}
				rows = append(rows, []string{record.Serial, string(record.Region), record.Title})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No catalog entries matched")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Serial", "Region", "Title"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&regionFlag, "region", "", "Filter by region (USA, EUR, JPN, ASIA)")
	return cmd
}
