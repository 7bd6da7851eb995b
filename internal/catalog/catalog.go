package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed data/*.json
var seedFS embed.FS

// regionFiles maps catalog file names to their release region.
var regionFiles = map[string]Region{
	"usa.json":  RegionUSA,
	"eur.json":  RegionEUR,
	"jpn.json":  RegionJPN,
	"asia.json": RegionASIA,
}

// Record is one catalog entry keyed by normalized serial.
type Record struct {
	Serial string
	Region Region
	Title  string
}

// Resolver performs exact-match serial lookups against a loaded catalog.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	records map[string]Record
}

// Load builds a resolver from the embedded seed tables. When overrideDir is
// non-empty, same-named JSON files found there replace the embedded region
// table entirely so operators can ship a fuller database.
func Load(overrideDir string) (*Resolver, error) {
	records := make(map[string]Record)

	for name, region := range regionFiles {
		data, err := seedFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read embedded catalog %s: %w", name, err)
		}
		if overrideDir != "" {
			override, err := os.ReadFile(filepath.Join(overrideDir, name))
			if err == nil {
				data = override
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read catalog override %s: %w", name, err)
			}
		}
		if err := mergeRegion(records, data, region); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
	}

	return &Resolver{records: records}, nil
}

func mergeRegion(dst map[string]Record, data []byte, region Region) error {
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return err
	}
	for serial, title := range table {
		serial = strings.ToUpper(strings.TrimSpace(serial))
		if serial == "" {
			continue
		}
		dst[serial] = Record{Serial: serial, Region: region, Title: strings.TrimSpace(title)}
	}
	return nil
}

// Resolve looks up a normalized serial. The boolean is false on a miss;
// a miss is expected for titles absent from the shipped tables.
func (r *Resolver) Resolve(serial string) (Record, bool) {
	if r == nil {
		return Record{}, false
	}
	rec, ok := r.records[strings.ToUpper(strings.TrimSpace(serial))]
	return rec, ok
}

// Len reports the number of loaded records.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Records returns all entries sorted by serial, for listing commands.
func (r *Resolver) Records() []Record {
	if r == nil {
		return nil
	}
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}
