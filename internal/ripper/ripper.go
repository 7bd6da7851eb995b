package ripper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/garbled1/ps-ripper/internal/config"
	"github.com/garbled1/ps-ripper/internal/fileutil"
	"github.com/garbled1/ps-ripper/internal/logging"
	"github.com/garbled1/ps-ripper/internal/services"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the external extraction and encoding binaries.
type Client struct {
	tools  config.Tools
	exec   Executor
	logger *slog.Logger
}

// New constructs a client around the configured tool binaries.
func New(tools config.Tools, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		tools:  tools,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "ripper"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func binaryOr(configured, fallback string) string {
	if strings.TrimSpace(configured) == "" {
		return fallback
	}
	return configured
}

// cdPass describes one cdrdao extraction pass.
type cdPass struct {
	name       string
	subchannel bool
}

// RipCD extracts raw CD sectors twice: once with subchannel data into
// <label>.bin/.toc and once without into <label>_ns.bin/.toc. Each pass is
// followed by a toc2cue conversion. A pass whose outputs already exist
// non-empty is skipped, making re-runs after interruption safe.
func (c *Client) RipCD(ctx context.Context, device, destDir, label string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	passes := []cdPass{
		{name: label, subchannel: true},
		{name: label + "_ns", subchannel: false},
	}
	for _, pass := range passes {
		if err := c.runCDPass(ctx, device, destDir, pass); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) runCDPass(ctx context.Context, device, destDir string, pass cdPass) error {
	binFile := filepath.Join(destDir, pass.name+".bin")
	tocFile := filepath.Join(destDir, pass.name+".toc")
	cueFile := filepath.Join(destDir, pass.name+".cue")

	if fileutil.NonEmptyFile(binFile) && fileutil.NonEmptyFile(tocFile) {
		c.logger.Info("extraction output present, skipping pass",
			logging.String(logging.FieldDevice, device),
			logging.String("output", binFile),
		)
	} else {
		args := []string{"read-cd", "--read-raw"}
		if pass.subchannel {
			args = append(args, "--read-subchan", "rw_raw")
		}
		args = append(args,
			"--datafile", binFile,
			"--device", device,
			"--driver", "generic-mmc-raw",
			tocFile,
		)

		c.logger.Info("extracting raw sectors",
			logging.String(logging.FieldDevice, device),
			logging.String("output", binFile),
			logging.Bool("subchannel", pass.subchannel),
		)
		if err := c.exec.Run(ctx, destDir, binaryOr(c.tools.Cdrdao, "cdrdao"), args, nil); err != nil {
			return services.Wrap(services.ErrExternalTool, "ripper", "cdrdao read-cd", err)
		}
	}

	if fileutil.NonEmptyFile(cueFile) {
		return nil
	}
	args := []string{tocFile, cueFile}
	if err := c.exec.Run(ctx, destDir, binaryOr(c.tools.Toc2cue, "toc2cue"), args, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "ripper", "toc2cue", err)
	}
	return nil
}

// RipDVD images a DVD disc into isoPath via ddrescue. The map file lives
// next to the image while the copy runs and is removed on success, so a
// non-empty image with no map file is complete and short-circuits the copy.
// A leftover map file marks an interrupted copy, which ddrescue resumes.
func (c *Client) RipDVD(ctx context.Context, device, isoPath string) error {
	mapFile := isoPath + ".map"
	if fileutil.NonEmptyFile(isoPath) && !fileutil.NonEmptyFile(mapFile) {
		c.logger.Info("image already present, skipping copy",
			logging.String(logging.FieldDevice, device),
			logging.String("output", isoPath),
		)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(isoPath), 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	args := []string{"-b", "2048", device, isoPath, mapFile}

	c.logger.Info("imaging dvd media",
		logging.String(logging.FieldDevice, device),
		logging.String("output", isoPath),
	)
	if err := c.exec.Run(ctx, filepath.Dir(isoPath), binaryOr(c.tools.Ddrescue, "ddrescue"), args, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "ripper", "ddrescue", err)
	}
	_ = os.Remove(mapFile)
	return nil
}
