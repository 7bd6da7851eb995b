package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garbled1/ps-ripper/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %s (exists), got %s exists=%v", path, resolved, exists)
	}
	if cfg.Drive.Device != "/dev/sr0" {
		t.Fatalf("unexpected default device: %s", cfg.Drive.Device)
	}
	if cfg.Tools.Cdrdao != "cdrdao" || cfg.Tools.LameBitrate != 320 {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if strings.HasPrefix(cfg.Paths.ArchiveRoot, "~") {
		t.Fatalf("archive root not expanded: %s", cfg.Paths.ArchiveRoot)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfig(t, `
[paths]
archive_root = "/mnt/games"

[drive]
device = "/dev/sr1"
poll_interval = 2

[tools]
lame_bitrate = 192
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.ArchiveRoot != "/mnt/games" {
		t.Fatalf("archive root override lost: %s", cfg.Paths.ArchiveRoot)
	}
	if cfg.Drive.Device != "/dev/sr1" {
		t.Fatalf("device override lost: %s", cfg.Drive.Device)
	}
	if got := cfg.PollInterval().Seconds(); got != 2 {
		t.Fatalf("unexpected poll interval: %v", got)
	}
	if cfg.Tools.LameBitrate != 192 {
		t.Fatalf("bitrate override lost: %d", cfg.Tools.LameBitrate)
	}
}

func TestLoadRejectsBadDevice(t *testing.T) {
	path := writeConfig(t, `
[drive]
device = "sr0"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for relative device path")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "yaml"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected default log format: %s", cfg.Logging.Format)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchiveRoot = filepath.Join(base, "archive")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ArchiveRoot, cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", dir, err)
		}
	}
}
