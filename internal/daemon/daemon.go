package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/config"
	"github.com/garbled1/ps-ripper/internal/deps"
	"github.com/garbled1/ps-ripper/internal/identity"
	"github.com/garbled1/ps-ripper/internal/journal"
	"github.com/garbled1/ps-ripper/internal/logging"
	"github.com/garbled1/ps-ripper/internal/ripper"
	"github.com/garbled1/ps-ripper/internal/udev"
)

// minFreeSpace is the archive-root headroom below which a warning is logged
// at startup. A dual-pass CD dump plus audio scratch fits comfortably inside
// this bound; DVD images may need more.
const minFreeSpace = 8 << 30

// Prober supplies disc metadata and media presence.
type Prober interface {
	Probe(ctx context.Context, device string) (identity.Metadata, error)
	HasMedia(ctx context.Context, device string) (bool, error)
}

// Extractor sequences the external extraction and encoding tools.
type Extractor interface {
	RipCD(ctx context.Context, device, destDir, label string) error
	RipDVD(ctx context.Context, device, isoPath string) error
	RipAudio(ctx context.Context, device, scratchDir string) ([]string, error)
	EncodeTracks(ctx context.Context, tracks []string, destDir string) (int, error)
}

// Daemon owns the polling loop and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	prober    Prober
	extractor Extractor
	ejector   udev.Ejector
	resolver  *catalog.Resolver
	policy    *identity.Policy
	layout    identity.Layout
	store     *journal.Store

	// readSerial extracts the game serial from the device. Injectable so
	// tests run without a block device.
	readSerial func(ctx context.Context, device string) (string, error)

	lockPath string
	lock     *flock.Flock
	wake     chan struct{}
	netlink  *netlinkMonitor

	running     atomic.Bool
	state       State
	settleDelay time.Duration

	// lastFailure remembers the unique id of a disc whose extraction
	// failed, so the poll loop does not hammer a damaged disc that stays
	// in the drive. Cleared on success or when a different disc appears.
	lastFailure string
}

// New constructs a daemon with production collaborators. store may be nil,
// in which case completion history is not recorded.
func New(cfg *config.Config, logger *slog.Logger, resolver *catalog.Resolver, store *journal.Store) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "psrip.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		prober:    udev.NewProber(cfg.Tools.Udevadm),
		extractor: ripper.New(cfg.Tools, logger),
		ejector:   udev.NewEjector(cfg.Tools.Eject),
		resolver:  resolver,
		policy:    identity.NewPolicy(),
		layout:    identity.Layout{Root: cfg.Paths.ArchiveRoot},
		store:     store,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		wake:      make(chan struct{}, 1),
		state:     StateWaitingForMedia,
	}
	d.settleDelay = cfg.SettleDelay()
	d.readSerial = d.deviceSerial
	d.netlink = newNetlinkMonitor(cfg, logger, d.wake)
	return d, nil
}

// State returns the current processing state.
func (d *Daemon) State() State {
	return d.state
}

// Run acquires the daemon lock and processes discs until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another psrip daemon instance is already running")
	}
	defer func() {
		if unlockErr := d.lock.Unlock(); unlockErr != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(unlockErr))
		}
	}()

	if err := d.preflight(); err != nil {
		return err
	}

	d.running.Store(true)
	defer d.running.Store(false)

	d.netlink.Start(ctx)
	defer d.netlink.Stop()

	d.logger.Info("daemon started",
		logging.String(logging.FieldDevice, d.cfg.Drive.Device),
		logging.String("lock", d.lockPath),
		logging.Duration("poll_interval", d.cfg.PollInterval()),
	)

	ticker := time.NewTicker(d.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopped")
			return nil
		case <-ticker.C:
			d.pollOnce(ctx)
		case <-d.wake:
			d.pollOnce(ctx)
		}
	}
}

// preflight verifies tool availability and archive-root headroom.
func (d *Daemon) preflight() error {
	statuses := deps.CheckBinaries(deps.Requirements(d.cfg.Tools))
	for _, status := range statuses {
		if !status.Available {
			d.logger.Warn("external tool unavailable",
				logging.String("tool", status.Name),
				logging.String("detail", status.Detail),
			)
		}
	}
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}

	free, err := deps.FreeSpace(d.cfg.Paths.ArchiveRoot)
	if err != nil {
		d.logger.Warn("unable to check archive free space", logging.Error(err))
		return nil
	}
	if free < minFreeSpace {
		d.logger.Warn("archive filesystem is low on space",
			logging.String("archive_root", d.cfg.Paths.ArchiveRoot),
			logging.Int64("free_bytes", int64(free)),
			logging.String(logging.FieldErrorHint, "free disk space before inserting large discs"),
		)
	}
	return nil
}

// pollOnce checks for media and processes at most one disc to completion.
func (d *Daemon) pollOnce(ctx context.Context) {
	device := d.cfg.Drive.Device

	loaded, err := d.prober.HasMedia(ctx, device)
	if err != nil {
		d.logger.Debug("media check failed", logging.Error(err), logging.String(logging.FieldDevice, device))
		return
	}
	if !loaded {
		d.setState(StateWaitingForMedia)
		d.lastFailure = ""
		return
	}

	d.processDisc(ctx, device)
}

func (d *Daemon) setState(state State) {
	if d.state == state {
		return
	}
	d.state = state
	d.logger.Debug("state transition", logging.String(logging.FieldState, state.String()))
}

// settle waits out the post-eject delay without blocking cancellation.
func (d *Daemon) settle(ctx context.Context) {
	if d.settleDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d.settleDelay):
	}
}
