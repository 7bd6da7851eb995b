package identity_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garbled1/ps-ripper/internal/identity"
)

func fixedLayout(t *testing.T) identity.Layout {
	t.Helper()
	return identity.Layout{
		Root: t.TempDir(),
		Now:  func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func TestPlanCDFreshDestination(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:      identity.PS1DataCD,
		Publisher: "SONY",
		Label:     "CRASH_BANDICOOT",
		UniqueID:  "uuid-1",
	}

	plan, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	want := filepath.Join(layout.Root, "PLAYSTATION", "SONY", "CRASH_BANDICOOT")
	if plan.Dir != want {
		t.Fatalf("Dir = %q, want %q", plan.Dir, want)
	}
	if plan.Archived || plan.Collided {
		t.Fatalf("fresh destination flagged archived=%v collided=%v", plan.Archived, plan.Collided)
	}
	if plan.Marker != filepath.Join(want, "uuid-1.archived") {
		t.Fatalf("Marker = %q", plan.Marker)
	}
}

func TestPlanCDAlreadyArchived(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:      identity.AudioDataCD,
		Publisher: "SONY",
		Label:     "RIDGE_RACER",
		UniqueID:  "uuid-1",
	}

	first, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := first.WriteMarker(); err != nil {
		t.Fatalf("WriteMarker failed: %v", err)
	}

	second, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !second.Archived {
		t.Fatal("expected archived plan after marker write")
	}
	if second.Dir != first.Dir {
		t.Fatalf("Dir changed across runs: %q vs %q", second.Dir, first.Dir)
	}
}

func TestPlanCDCollisionDisambiguates(t *testing.T) {
	layout := fixedLayout(t)
	discOne := identity.Identity{
		Kind:      identity.PS1DataCD,
		Publisher: "SQUARE",
		Label:     "FINAL_FANTASY_VII",
		UniqueID:  "uuid-disc1",
	}
	discTwo := discOne
	discTwo.UniqueID = "uuid-disc2"

	plan, err := layout.Plan(discOne)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := plan.WriteMarker(); err != nil {
		t.Fatalf("WriteMarker failed: %v", err)
	}

	collided, err := layout.Plan(discTwo)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !collided.Collided {
		t.Fatal("expected collision for same label, different unique id")
	}
	if collided.Dir == plan.Dir {
		t.Fatalf("collided plan reuses %q", plan.Dir)
	}
	if collided.Dir != plan.Dir+"_20240310T120000Z" {
		t.Fatalf("Dir = %q, want timestamp suffix", collided.Dir)
	}
}

func TestPlanCDResumesInterruptedRun(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:      identity.PS1DataCD,
		Publisher: "SONY",
		Label:     "WIPEOUT",
		UniqueID:  "uuid-1",
	}

	first, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := os.MkdirAll(first.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(first.Dir, "WIPEOUT.bin"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	second, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if second.Collided {
		t.Fatal("markerless partial outputs must not be treated as a collision")
	}
	if second.Archived {
		t.Fatal("partial outputs without a marker are not archived")
	}
	if second.Dir != first.Dir {
		t.Fatalf("Dir changed across runs: %q vs %q", second.Dir, first.Dir)
	}
}

func TestPlanDVDLayout(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:      identity.PS2DVD,
		Publisher: "ROCKSTAR",
		Label:     "Grand_Theft_Auto-_Vice_City",
		UniqueID:  "SLUS-20435",
	}

	plan, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Dir != filepath.Join(layout.Root, "PLAYSTATION_2") {
		t.Fatalf("Dir = %q, want flat PLAYSTATION_2 directory", plan.Dir)
	}
	if plan.ISOName != "Grand_Theft_Auto-_Vice_City.iso" {
		t.Fatalf("ISOName = %q", plan.ISOName)
	}
	if plan.ISOPath() != filepath.Join(plan.Dir, plan.ISOName) {
		t.Fatalf("ISOPath = %q", plan.ISOPath())
	}
}

func TestPlanDVDCollisionSuffixesImage(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:     identity.PS2DVD,
		Label:    "GRAN_TURISMO_4",
		UniqueID: "SCUS-97328",
	}

	dir := filepath.Join(layout.Root, "PLAYSTATION_2")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "GRAN_TURISMO_4.iso"), []byte("image"), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan.Collided {
		t.Fatal("expected collision for existing image without marker")
	}
	if plan.ISOName != "GRAN_TURISMO_4_20240310T120000Z.iso" {
		t.Fatalf("ISOName = %q, want timestamp suffix", plan.ISOName)
	}
}

func TestPlanDVDResumesPartialImage(t *testing.T) {
	layout := fixedLayout(t)
	id := identity.Identity{
		Kind:     identity.PS2DVD,
		Label:    "GRAN_TURISMO_4",
		UniqueID: "SCUS-97328",
	}

	dir := filepath.Join(layout.Root, "PLAYSTATION_2")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "GRAN_TURISMO_4.iso"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "GRAN_TURISMO_4.iso.map"), []byte("rescue map"), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := layout.Plan(id)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Collided {
		t.Fatal("image with a leftover map file must be resumed, not diverted")
	}
	if plan.ISOName != "GRAN_TURISMO_4.iso" {
		t.Fatalf("ISOName = %q, want original name", plan.ISOName)
	}
}

func TestPlanUnknownMediaRejected(t *testing.T) {
	layout := fixedLayout(t)
	if _, err := layout.Plan(identity.Identity{Kind: identity.UnknownMedia}); err == nil {
		t.Fatal("expected error for unknown media kind")
	}
}

func TestWriteMarkerIsZeroByte(t *testing.T) {
	layout := fixedLayout(t)
	plan, err := layout.Plan(identity.Identity{
		Kind:      identity.PS1DataCD,
		Publisher: "SONY",
		Label:     "WIPEOUT",
		UniqueID:  "uuid-1",
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := plan.WriteMarker(); err != nil {
		t.Fatalf("WriteMarker failed: %v", err)
	}

	info, err := os.Stat(plan.Marker)
	if err != nil {
		t.Fatalf("stat marker: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("marker size = %d, want 0", info.Size())
	}
}
