package iso9660

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// NormalizeSerial converts a raw boot token into the catalog's canonical
// serial form: uppercase, dots stripped, underscore separator replaced with
// a hyphen. "SLUS_204.35" becomes "SLUS-20435". The same title is burned
// with minor token-formatting variance across printings, so this step is
// mandatory before any catalog lookup.
func NormalizeSerial(token string) string {
	token = strings.ToUpper(strings.TrimSpace(token))
	token = strings.ReplaceAll(token, ".", "")
	token = strings.ReplaceAll(token, "_", "-")
	return token
}

const (
	rawScanBufferSize = 10 * 1024 * 1024
	// rawScanOverlap keeps the tail of the previous buffer so a serial
	// split across two reads is still found.
	rawScanOverlap = 16
)

// ScanRaw searches a raw (non-ISO9660) image for a serial number matching
// one of the given publisher prefixes, e.g. "SLUS_204.35;". It is the last
// resort when no filesystem structure can be walked. Returns ErrConfigNotFound
// when the image holds no recognizable serial.
func ScanRaw(r io.Reader, prefixes []string) (string, error) {
	if len(prefixes) == 0 {
		return "", ErrConfigNotFound
	}
	pattern, err := regexp.Compile(`(?:` + strings.Join(prefixes, "|") + `)[_-][0-9.]+;`)
	if err != nil {
		return "", fmt.Errorf("compile serial pattern: %w", err)
	}

	buf := make([]byte, rawScanBufferSize)
	carry := make([]byte, 0, rawScanOverlap)
	for {
		n, readErr := r.Read(buf[:rawScanBufferSize-len(carry)])
		if n > 0 {
			window := append(append([]byte{}, carry...), buf[:n]...)
			for _, match := range pattern.FindAll(window, -1) {
				serial := NormalizeSerial(strings.TrimSuffix(string(match), ";"))
				// The placeholder 999.99 shows up in demo loaders.
				if !strings.Contains(serial, "99999") {
					return serial, nil
				}
			}
			if len(window) > rawScanOverlap {
				carry = append(carry[:0], window[len(window)-rawScanOverlap:]...)
			} else {
				carry = append(carry[:0], window...)
			}
		}
		if readErr == io.EOF {
			return "", ErrConfigNotFound
		}
		if readErr != nil {
			return "", fmt.Errorf("scan raw image: %w", readErr)
		}
	}
}
