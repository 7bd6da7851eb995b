package ripper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/garbled1/ps-ripper/internal/fileutil"
	"github.com/garbled1/ps-ripper/internal/logging"
	"github.com/garbled1/ps-ripper/internal/services"
)

// RipAudio rips every audio track on the disc into scratchDir as one wav
// file per track and returns the sorted file paths.
func (c *Client) RipAudio(ctx context.Context, device, scratchDir string) ([]string, error) {
	c.logger.Info("ripping audio tracks",
		logging.String(logging.FieldDevice, device),
		logging.String("scratch", scratchDir),
	)
	args := []string{"-B", "-d", device}
	if err := c.exec.Run(ctx, scratchDir, binaryOr(c.tools.Cdparanoia, "cdparanoia"), args, nil); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ripper", "cdparanoia", err)
	}

	tracks, err := filepath.Glob(filepath.Join(scratchDir, "*.wav"))
	if err != nil {
		return nil, fmt.Errorf("list ripped tracks: %w", err)
	}
	sort.Strings(tracks)
	return tracks, nil
}

// EncodeTracks compresses each wav into destDir with lame, deleting the
// intermediate as each track completes so scratch usage is bounded to one
// track at a time. Returns the number of tracks encoded.
func (c *Client) EncodeTracks(ctx context.Context, tracks []string, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	bitrate := c.tools.LameBitrate
	if bitrate <= 0 {
		bitrate = 320
	}

	encoded := 0
	for _, track := range tracks {
		target := filepath.Join(destDir, mp3Name(track))
		if !fileutil.NonEmptyFile(track) {
			continue
		}

		args := []string{"-b", strconv.Itoa(bitrate), track, target}
		if err := c.exec.Run(ctx, destDir, binaryOr(c.tools.Lame, "lame"), args, nil); err != nil {
			return encoded, services.Wrap(services.ErrExternalTool, "ripper", "lame", err)
		}
		if err := os.Remove(track); err != nil {
			return encoded, fmt.Errorf("remove intermediate %s: %w", track, err)
		}
		encoded++
	}
	return encoded, nil
}

// mp3Name maps a ripped track filename to its compressed counterpart,
// handling the cdparanoia "trackNN.cdda.wav" convention.
func mp3Name(track string) string {
	base := filepath.Base(track)
	base = strings.TrimSuffix(base, ".wav")
	base = strings.TrimSuffix(base, ".cdda")
	return base + ".mp3"
}
