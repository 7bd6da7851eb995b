package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garbled1/ps-ripper/internal/services"
)

// markerSuffix names the zero-byte sentinel recording a completed archive.
const markerSuffix = ".archived"

// Layout composes archive destination paths under a root directory and
// evaluates the on-disk collision state for a derived identity.
type Layout struct {
	Root string
	// Now supplies the disambiguation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Plan is the resolved destination for one disc. When Archived is set the
// marker for this unique id already exists and no work remains. When Collided
// is set the natural path was taken by a differently-identified disc and the
// returned paths carry a timestamp disambiguator.
type Plan struct {
	// Dir is the directory all outputs are written into.
	Dir string
	// ISOName is the image filename for DVD discs, empty for CD layouts.
	ISOName string
	// Marker is the absolute path of the idempotence sentinel.
	Marker string
	Archived bool
	Collided bool
}

// Plan resolves the destination for id. CD discs archive under
// root/<kind>/<publisher>/<label>; PS2 DVDs archive flat under
// root/PLAYSTATION_2 as <label>.iso. A marker present for the same unique id
// means already archived. A destination finished by a differently-identified
// disc (multi-disc titles share labels) is never overwritten: the plan
// disambiguates with a timestamp suffix instead. Partial outputs left by an
// interrupted run carry no marker and are resumed in place.
func (l Layout) Plan(id Identity) (Plan, error) {
	if id.Kind == UnknownMedia || id.Kind.DirName() == "" {
		return Plan{}, services.Wrap(services.ErrUnclassifiableMedia, "identity", "plan", nil)
	}
	if id.Kind == PS2DVD {
		return l.planDVD(id)
	}
	return l.planCD(id)
}

func (l Layout) planCD(id Identity) (Plan, error) {
	dir := filepath.Join(l.Root, id.Kind.DirName(), id.Publisher, id.Label)
	plan := Plan{Dir: dir, Marker: markerPath(dir, id.UniqueID)}

	if exists, err := fileExists(plan.Marker); err != nil {
		return Plan{}, err
	} else if exists {
		plan.Archived = true
		return plan, nil
	}

	foreign, err := foreignMarker(dir, id.UniqueID)
	if err != nil {
		return Plan{}, err
	}
	if foreign {
		plan.Collided = true
		plan.Dir = dir + "_" + l.stamp()
		plan.Marker = markerPath(plan.Dir, id.UniqueID)
	}
	return plan, nil
}

func (l Layout) planDVD(id Identity) (Plan, error) {
	dir := filepath.Join(l.Root, id.Kind.DirName())
	plan := Plan{
		Dir:     dir,
		ISOName: id.Label + ".iso",
		Marker:  markerPath(dir, id.UniqueID),
	}

	if exists, err := fileExists(plan.Marker); err != nil {
		return Plan{}, err
	} else if exists {
		plan.Archived = true
		return plan, nil
	}

	done, err := completedImage(filepath.Join(dir, plan.ISOName))
	if err != nil {
		return Plan{}, err
	}
	if done {
		plan.Collided = true
		plan.ISOName = id.Label + "_" + l.stamp() + ".iso"
	}
	return plan, nil
}

// WriteMarker creates the destination directory and the zero-byte marker.
func (p Plan) WriteMarker() error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	file, err := os.OpenFile(p.Marker, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return file.Close()
}

// ISOPath returns the full image path for DVD plans.
func (p Plan) ISOPath() string {
	if p.ISOName == "" {
		return ""
	}
	return filepath.Join(p.Dir, p.ISOName)
}

func (l Layout) stamp() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return now().UTC().Format("20060102T150405Z")
}

func markerPath(dir, uniqueID string) string {
	return filepath.Join(dir, uniqueID+markerSuffix)
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// foreignMarker reports whether dir holds a completion marker for a
// different unique id. That is the only positive evidence the natural path
// belongs to another disc; partial outputs with no marker are an interrupted
// run of this disc.
func foreignMarker(dir, uniqueID string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, markerSuffix) {
			continue
		}
		if strings.TrimSuffix(name, markerSuffix) != uniqueID {
			return true, nil
		}
	}
	return false, nil
}

// completedImage reports whether isoPath holds a finished image: non-empty
// with no ddrescue map file left beside it. A partial image still carrying
// its map file is resumed, not diverted.
func completedImage(isoPath string) (bool, error) {
	info, err := os.Stat(isoPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", isoPath, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return false, nil
	}
	mapExists, err := fileExists(isoPath + ".map")
	if err != nil {
		return false, err
	}
	return !mapExists, nil
}
