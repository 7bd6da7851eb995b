// Package testsupport provides shared helpers for package tests: a config
// builder seeded with per-test temp directories and a synthetic ISO9660
// image builder for identification tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/garbled1/ps-ripper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchiveRoot = filepath.Join(base, "archive")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Drive.PollInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithDevice overrides the optical drive path on the test config.
func WithDevice(device string) ConfigOption {
	return func(c *config.Config) {
		c.Drive.Device = device
	}
}
