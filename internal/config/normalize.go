package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDrive()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ArchiveRoot, err = expandPath(c.Paths.ArchiveRoot); err != nil {
		return fmt.Errorf("paths.archive_root: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogDir) != "" {
		if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
			return fmt.Errorf("paths.catalog_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDrive() {
	c.Drive.Device = strings.TrimSpace(c.Drive.Device)
	if c.Drive.Device == "" {
		c.Drive.Device = defaultDevice
	}
}

func (c *Config) normalizeTools() {
	defaults := Default().Tools
	set := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	set(&c.Tools.Cdrdao, defaults.Cdrdao)
	set(&c.Tools.Toc2cue, defaults.Toc2cue)
	set(&c.Tools.Cdparanoia, defaults.Cdparanoia)
	set(&c.Tools.Lame, defaults.Lame)
	set(&c.Tools.Ddrescue, defaults.Ddrescue)
	set(&c.Tools.Udevadm, defaults.Udevadm)
	set(&c.Tools.Eject, defaults.Eject)
	if c.Tools.LameBitrate <= 0 {
		c.Tools.LameBitrate = defaultLameBitrate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
