package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/garbled1/ps-ripper/internal/catalog"
	"github.com/garbled1/ps-ripper/internal/iso9660"
)

// deviceSerial opens the drive read-only and pulls the game serial out of
// the disc's boot configuration. When the filesystem walk finds no usable
// configuration the raw image is scanned byte-wise for a known serial
// pattern as a last resort.
func (d *Daemon) deviceSerial(ctx context.Context, device string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(device)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", device, err)
	}
	defer file.Close()

	serial, err := iso9660.ExtractSerial(file)
	if err == nil {
		return serial, nil
	}
	if !errors.Is(err, iso9660.ErrConfigNotFound) && !errors.Is(err, iso9660.ErrMalformedConfig) {
		return "", err
	}

	if _, seekErr := file.Seek(0, 0); seekErr != nil {
		return "", err
	}
	serial, scanErr := iso9660.ScanRaw(file, catalog.KnownPrefixes())
	if scanErr != nil {
		return "", err
	}
	return serial, nil
}
