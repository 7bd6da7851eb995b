package daemon

import (
	"context"
	"errors"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/fileutil"
	"github.com/garbled1/ps-ripper/internal/identity"
	"github.com/garbled1/ps-ripper/internal/journal"
	"github.com/garbled1/ps-ripper/internal/logging"
	"github.com/garbled1/ps-ripper/internal/services"
)

// processDisc runs one disc through the full state machine. Every failure is
// logged and ends this disc's processing; none of them stop the poll loop.
func (d *Daemon) processDisc(ctx context.Context, device string) {
	d.setState(StateProbing)
	probeCtx, cancel := context.WithTimeout(ctx, d.cfg.ProbeTimeout())
	md, err := d.prober.Probe(probeCtx, device)
	cancel()
	if err != nil {
		d.logger.Warn("disc metadata probe failed",
			logging.Error(err),
			logging.String(logging.FieldDevice, device),
		)
		return
	}

	d.setState(StateClassifying)
	kind := identity.Classify(md)
	if kind == identity.UnknownMedia {
		d.logger.Warn("unclassifiable media, ejecting untouched",
			logging.Error(services.ErrUnclassifiableMedia),
			logging.String(logging.FieldDevice, device),
			logging.String(logging.FieldLabel, md.Label),
			logging.String("fs_type", md.FSType),
		)
		d.eject(ctx, device)
		return
	}

	d.setState(StateIdentifying)
	var (
		serial string
		record *catalog.Record
	)
	if kind == identity.PS2DVD {
		serial, err = d.readSerial(ctx, device)
		if err != nil {
			// Recoverable: identity falls back to label/UUID.
			d.logger.Warn("serial extraction failed, using fallback identity",
				logging.Error(err),
				logging.String(logging.FieldDevice, device),
			)
		}
		if serial != "" {
			if rec, ok := d.resolver.Resolve(serial); ok {
				record = &rec
			}
		}
	}

	id := d.policy.Derive(kind, md, serial, record)
	logAttrs := []logging.Attr{
		logging.String(logging.FieldDevice, device),
		logging.String("media_kind", kind.String()),
		logging.String(logging.FieldLabel, id.Label),
		logging.String(logging.FieldUniqueID, id.UniqueID),
	}
	if id.Serial != "" {
		logAttrs = append(logAttrs, logging.String(logging.FieldSerial, id.Serial))
	}
	d.logger.Info("disc identified", logging.Args(logAttrs...)...)

	if d.lastFailure != "" && d.lastFailure == id.UniqueID {
		d.logger.Debug("skipping disc after earlier failure; replace or eject it manually",
			logging.String(logging.FieldUniqueID, id.UniqueID),
		)
		return
	}

	plan, err := d.layout.Plan(id)
	if err != nil {
		d.logger.Error("destination planning failed", logging.Error(err))
		return
	}
	if plan.Archived {
		d.logger.Info("disc already archived, skipping extraction",
			logging.String(logging.FieldUniqueID, id.UniqueID),
			logging.String("path", plan.Dir),
		)
		d.setState(StateFinalizing)
		d.eject(ctx, device)
		return
	}
	if plan.Collided {
		d.logger.Warn("destination already in use by a different disc, using disambiguated path",
			logging.Error(services.ErrNamingCollision),
			logging.String(logging.FieldLabel, id.Label),
			logging.String("path", plan.Dir),
		)
	}

	if err := d.extract(ctx, device, id, md, plan); err != nil {
		d.lastFailure = id.UniqueID
		d.logger.Error("disc processing failed",
			logging.Error(err),
			logging.String(logging.FieldUniqueID, id.UniqueID),
			logging.String(logging.FieldErrorHint, "inspect the disc and tool output, then reinsert to retry"),
		)
		return
	}

	d.setState(StateFinalizing)
	if err := plan.WriteMarker(); err != nil {
		d.logger.Error("marker write failed", logging.Error(err))
		return
	}
	d.record(ctx, id, plan)
	d.lastFailure = ""

	d.logger.Info("disc archived",
		logging.String(logging.FieldLabel, id.Label),
		logging.String(logging.FieldUniqueID, id.UniqueID),
		logging.String("path", plan.Dir),
	)
	d.eject(ctx, device)
}

// extract runs the extraction and encoding phases for the classified disc.
func (d *Daemon) extract(ctx context.Context, device string, id identity.Identity, md identity.Metadata, plan identity.Plan) error {
	d.setState(StateExtracting)
	switch id.Kind {
	case identity.PS2DVD:
		if err := d.extractor.RipDVD(ctx, device, plan.ISOPath()); err != nil {
			return err
		}
	default:
		if err := d.extractor.RipCD(ctx, device, plan.Dir, id.Label); err != nil {
			return err
		}
	}

	if md.AudioTracks == 0 {
		return nil
	}

	d.setState(StateEncoding)
	scratch, cleanup, err := fileutil.TempWorkspace(d.cfg.Paths.StagingDir, "audio-*")
	if err != nil {
		return err
	}
	defer cleanup()

	tracks, err := d.extractor.RipAudio(ctx, device, scratch)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		d.logger.Warn("audio tracks reported but none ripped",
			logging.Int("reported", md.AudioTracks),
		)
		return nil
	}
	encoded, err := d.extractor.EncodeTracks(ctx, tracks, plan.Dir)
	if err != nil {
		return err
	}
	d.logger.Info("audio tracks encoded", logging.Int("tracks", encoded))
	return nil
}

// record persists the completion to the journal when one is configured.
func (d *Daemon) record(ctx context.Context, id identity.Identity, plan identity.Plan) {
	if d.store == nil {
		return
	}
	path := plan.Dir
	if iso := plan.ISOPath(); iso != "" {
		path = iso
	}
	entry := journal.Entry{
		Serial:      id.Serial,
		Label:       id.Label,
		UniqueID:    id.UniqueID,
		MediaKind:   id.Kind.String(),
		Region:      string(id.Region),
		ArchivePath: path,
	}
	if _, err := d.store.Record(ctx, entry); err != nil {
		d.logger.Warn("journal write failed", logging.Error(err))
	}
}

// eject opens the tray and waits the settle delay before the next poll.
func (d *Daemon) eject(ctx context.Context, device string) {
	d.setState(StateEjecting)
	ejectCtx, cancel := context.WithTimeout(ctx, d.cfg.EjectTimeout())
	defer cancel()
	if err := d.ejector.Eject(ejectCtx, device); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Warn("eject failed",
			logging.Error(err),
			logging.String(logging.FieldDevice, device),
			logging.String(logging.FieldErrorHint, "remove the disc manually"),
		)
	}
	d.settle(ctx)
	d.setState(StateWaitingForMedia)
}
