package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/textutil"
)

const fallbackPublisher = "UNKNOWN_PUBLISHER"

// Identity is the canonical (publisher, label, unique id) triple a disc
// archives under.
type Identity struct {
	Kind      MediaKind
	Publisher string
	Label     string
	UniqueID  string
	Serial    string
	Title     string
	Region    catalog.Region
}

// Policy derives identities. The clock and id generator are injectable so
// fallback behavior is deterministic under test.
type Policy struct {
	Now   func() time.Time
	NewID func() string
}

// NewPolicy returns a policy backed by the system clock and random UUIDs.
func NewPolicy() *Policy {
	return &Policy{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Derive builds the disc identity for a classified disc. serial and record
// come from the serial extractor and catalog resolver; both may be absent
// (empty / nil) and the fallback chains fill the gaps:
//
//	unique id: serial (PS2 only), filesystem UUID, random UUID, timestamp
//	label:     resolved title (PS2 only), volume label, unique id
func (p *Policy) Derive(kind MediaKind, md Metadata, serial string, record *catalog.Record) Identity {
	id := Identity{
		Kind:      kind,
		Publisher: textutil.PathComponent(md.PublisherID, fallbackPublisher),
		Serial:    serial,
		Region:    catalog.RegionUnknown,
	}
	if record != nil {
		id.Title = record.Title
		id.Region = record.Region
	}

	switch kind {
	case PS2DVD:
		id.UniqueID = firstNonEmpty(serial, md.FSUUID, p.newID(), p.timestamp())
	default:
		id.UniqueID = firstNonEmpty(md.FSUUID, p.newID(), p.timestamp())
	}

	label := md.Label
	if kind == PS2DVD {
		title := id.Title
		if title == "" && serial != "" {
			// Catalog miss: the raw serial still names the disc.
			title = serial
		}
		label = firstNonEmpty(title, md.Label)
	}
	id.Label = textutil.PathComponent(label, id.UniqueID)
	return id
}

func (p *Policy) newID() string {
	if p.NewID == nil {
		return uuid.NewString()
	}
	return p.NewID()
}

func (p *Policy) timestamp() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().UTC().Format("20060102T150405Z")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
