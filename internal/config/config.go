package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ArchiveRoot string `toml:"archive_root"`
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	CatalogDir  string `toml:"catalog_dir"`
}

// Drive contains optical drive and polling configuration.
type Drive struct {
	Device       string `toml:"device"`
	PollInterval int    `toml:"poll_interval"`
	SettleDelay  int    `toml:"settle_delay"`
	ProbeTimeout int    `toml:"probe_timeout"`
	EjectTimeout int    `toml:"eject_timeout"`
}

// Tools contains the external collaborator binaries. Empty values fall back
// to the conventional names on PATH.
type Tools struct {
	Cdrdao     string `toml:"cdrdao"`
	Toc2cue    string `toml:"toc2cue"`
	Cdparanoia string `toml:"cdparanoia"`
	Lame       string `toml:"lame"`
	Ddrescue   string `toml:"ddrescue"`
	Udevadm    string `toml:"udevadm"`
	Eject      string `toml:"eject"`

	// LameBitrate is the constant bitrate in kbit/s handed to the encoder.
	LameBitrate int `toml:"lame_bitrate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for psrip.
//
// Configuration sections by subsystem:
//   - Paths: archive root, scratch staging, logs, optional catalog override
//   - Drive: device node and state machine timing
//   - Tools: external extraction/ripping/encoding binaries
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Drive   Drive   `toml:"drive"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/psrip/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("psrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ArchiveRoot, c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PollInterval returns the drive polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return secondsOrDefault(c.Drive.PollInterval, defaultPollInterval)
}

// SettleDelay returns the post-eject settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return secondsOrDefault(c.Drive.SettleDelay, defaultSettleDelay)
}

// ProbeTimeout bounds metadata probe invocations.
func (c *Config) ProbeTimeout() time.Duration {
	return secondsOrDefault(c.Drive.ProbeTimeout, defaultProbeTimeout)
}

// EjectTimeout bounds eject invocations.
func (c *Config) EjectTimeout() time.Duration {
	return secondsOrDefault(c.Drive.EjectTimeout, defaultEjectTimeout)
}

func secondsOrDefault(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
