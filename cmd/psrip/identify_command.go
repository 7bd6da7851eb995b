package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/iso9660"
)

func newIdentifyCommand(configFlag *string) *cobra.Command {
	var rawScan bool

	cmd := &cobra.Command{
		Use:   "identify <image-or-device>",
		Short: "Identify a disc image or inserted disc without archiving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			resolver, err := catalog.Load(cfg.Paths.CatalogDir)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			out := cmd.OutOrStdout()
			rows := [][]string{}

			info, volErr := iso9660.ReadVolumeInfo(file)
			if volErr == nil {
				rows = append(rows,
					[]string{"Label", info.Label},
					[]string{"Publisher", info.Publisher},
					[]string{"Application", info.Application},
				)
			} else if !rawScan {
				return fmt.Errorf("read volume: %w", volErr)
			}

			serial, serialErr := iso9660.ExtractSerial(file)
			if serialErr != nil && (rawScan || recoverableSerialError(serialErr)) {
				if _, err := file.Seek(0, 0); err != nil {
					return fmt.Errorf("rewind image: %w", err)
				}
				serial, serialErr = iso9660.ScanRaw(file, catalog.KnownPrefixes())
			}

			switch {
			case serialErr == nil:
				rows = append(rows, []string{"Serial", serial})
				if record, ok := resolver.Resolve(serial); ok {
					rows = append(rows,
						[]string{"Title", record.Title},
						[]string{"Region", string(record.Region)},
					)
				} else {
					rows = append(rows, []string{"Title", "(not in catalog)"})
				}
			case errors.Is(serialErr, iso9660.ErrConfigNotFound):
				rows = append(rows, []string{"Serial", "(no boot configuration found)"})
			case errors.Is(serialErr, iso9660.ErrMalformedConfig):
				rows = append(rows, []string{"Serial", "(boot configuration unreadable)"})
			default:
				return fmt.Errorf("extract serial: %w", serialErr)
			}

			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawScan, "scan", false, "Fall back to a raw byte scan when the filesystem walk fails")
	return cmd
}

func recoverableSerialError(err error) bool {
	return errors.Is(err, iso9660.ErrConfigNotFound) || errors.Is(err, iso9660.ErrMalformedConfig)
}
