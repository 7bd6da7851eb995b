package config

const (
	defaultArchiveRoot  = "~/ps-archive"
	defaultStagingDir   = "~/.local/share/psrip/staging"
	defaultLogDir       = "~/.local/share/psrip/logs"
	defaultDevice       = "/dev/sr0"
	defaultPollInterval = 5
	defaultSettleDelay  = 10
	defaultProbeTimeout = 30
	defaultEjectTimeout = 60
	defaultLameBitrate  = 320
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArchiveRoot: defaultArchiveRoot,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
		},
		Drive: Drive{
			Device:       defaultDevice,
			PollInterval: defaultPollInterval,
			SettleDelay:  defaultSettleDelay,
			ProbeTimeout: defaultProbeTimeout,
			EjectTimeout: defaultEjectTimeout,
		},
		Tools: Tools{
			Cdrdao:      "cdrdao",
			Toc2cue:     "toc2cue",
			Cdparanoia:  "cdparanoia",
			Lame:        "lame",
			Ddrescue:    "ddrescue",
			Udevadm:     "udevadm",
			Eject:       "eject",
			LameBitrate: defaultLameBitrate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
