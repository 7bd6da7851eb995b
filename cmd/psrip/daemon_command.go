package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/daemon"
	"github.com/garbled1/ps-ripper/internal/journal"
	"github.com/garbled1/ps-ripper/internal/logging"
)

func newDaemonCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the disc archiving loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				OutputPaths: []string{
					"stdout",
					filepath.Join(cfg.Paths.LogDir, "psrip.log"),
				},
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			resolver, err := catalog.Load(cfg.Paths.CatalogDir)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			d, err := daemon.New(cfg, logger, resolver, store)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return d.Run(ctx)
		},
	}
}
