package iso9660

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Sentinel errors. All three are recoverable: the caller falls back to
// probe-only identity rather than aborting the disc.
var (
	// ErrNotAnOpticalImage means sector 16 does not carry a valid volume
	// descriptor signature.
	ErrNotAnOpticalImage = errors.New("not an ISO9660 image")
	// ErrConfigNotFound means the root directory has no SYSTEM.CNF entry.
	ErrConfigNotFound = errors.New("boot configuration not found")
	// ErrMalformedConfig means SYSTEM.CNF exists but lacks a usable BOOT line.
	ErrMalformedConfig = errors.New("boot configuration malformed")
)

const (
	// SectorSize is the ISO9660 logical sector size.
	SectorSize = 2048

	pvdSector     = 16
	maxVolDescs   = 16
	stdIdentifier = "CD001"

	vdTypeBootRecord    = 0
	vdTypePrimary       = 1
	vdTypeSupplementary = 2
	vdTypeTerminator    = 255

	configName = "SYSTEM.CNF"

	// maxConfigSize bounds how much of the boot configuration is read.
	// The real file is a handful of lines.
	maxConfigSize = 64 * 1024
)

// VolumeInfo carries the descriptive PVD fields used for identity fallback
// when no operating system metadata is available (bare image files).
type VolumeInfo struct {
	Label       string
	Publisher   string
	Application string
	System      string
}

// volume descriptor field offsets per ECMA-119.
const (
	offVolumeID      = 40
	offPublisherID   = 318
	offApplicationID = 574
	offSystemID      = 8
	offRootRecord    = 156
	rootRecordLen    = 34
)

// both-byte-order fields store little endian first.
func isonum16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func isonum32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func readSector(r io.ReaderAt, sector int64) ([]byte, error) {
	buf := make([]byte, SectorSize)
	if _, err := r.ReadAt(buf, sector*SectorSize); err != nil {
		return nil, err
	}
	return buf, nil
}

// readPVD returns the Primary Volume Descriptor sector. The descriptor
// sequence starts at sector 16; a bad signature there means the image is not
// ISO9660 at all.
func readPVD(r io.ReaderAt) ([]byte, error) {
	for i := int64(0); i < maxVolDescs; i++ {
		buf, err := readSector(r, pvdSector+i)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: %w", ErrNotAnOpticalImage, err)
			}
			return nil, ErrNotAnOpticalImage
		}
		if string(buf[1:6]) != stdIdentifier {
			return nil, ErrNotAnOpticalImage
		}
		switch buf[0] {
		case vdTypePrimary:
			return buf, nil
		case vdTypeTerminator:
			return nil, ErrNotAnOpticalImage
		}
	}
	return nil, ErrNotAnOpticalImage
}

// ReadVolumeInfo extracts descriptive identifiers from the PVD, preferring
// the Joliet supplementary descriptor's UTF-16 label when one exists.
func ReadVolumeInfo(r io.ReaderAt) (VolumeInfo, error) {
	pvd, err := readPVD(r)
	if err != nil {
		return VolumeInfo{}, err
	}

	info := VolumeInfo{
		Label:       strField(pvd[offVolumeID : offVolumeID+32]),
		Publisher:   strField(pvd[offPublisherID : offPublisherID+128]),
		Application: strField(pvd[offApplicationID : offApplicationID+128]),
		System:      strField(pvd[offSystemID : offSystemID+32]),
	}

	if label := jolietLabel(r); label != "" {
		info.Label = label
	}
	return info, nil
}

// jolietLabel scans the descriptor sequence for a supplementary volume
// descriptor and decodes its UTF-16BE volume identifier.
func jolietLabel(r io.ReaderAt) string {
	for i := int64(0); i < maxVolDescs; i++ {
		buf, err := readSector(r, pvdSector+i)
		if err != nil || string(buf[1:6]) != stdIdentifier {
			return ""
		}
		switch buf[0] {
		case vdTypeSupplementary:
			raw := buf[offVolumeID : offVolumeID+32]
			decoded, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
			if err != nil {
				return ""
			}
			return strings.TrimRight(string(decoded), " \x00")
		case vdTypeTerminator:
			return ""
		}
	}
	return ""
}

func strField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// ExtractSerial locates SYSTEM.CNF in the root directory and returns the
// normalized serial number from its BOOT2 (PS2) or BOOT (PS1) line.
func ExtractSerial(r io.ReaderAt) (string, error) {
	pvd, err := readPVD(r)
	if err != nil {
		return "", err
	}

	root := pvd[offRootRecord : offRootRecord+rootRecordLen]
	rootStart := int64(isonum32(root[2:10]))
	rootLen := int64(isonum32(root[10:18]))
	if rootStart <= 0 || rootLen <= 0 {
		return "", ErrConfigNotFound
	}

	dir := make([]byte, rootLen)
	if _, err := r.ReadAt(dir, rootStart*SectorSize); err != nil {
		return "", fmt.Errorf("%w: read root directory: %w", ErrConfigNotFound, err)
	}

	start, size, ok := findEntry(dir, configName)
	if !ok {
		return "", ErrConfigNotFound
	}
	if size > maxConfigSize {
		size = maxConfigSize
	}

	content := make([]byte, size)
	if _, err := r.ReadAt(content, start*SectorSize); err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrMalformedConfig, configName, err)
	}

	token, err := parseBootConfig(content)
	if err != nil {
		return "", err
	}
	return NormalizeSerial(token), nil
}

// findEntry walks a directory extent record by record. Each record is
// self-describing via its length byte; a zero length means the remainder of
// the current sector is padding and the walk resumes at the next sector.
func findEntry(dir []byte, name string) (start, size int64, ok bool) {
	offset := 0
	for offset < len(dir) {
		recLen := int(dir[offset])
		if recLen == 0 {
			offset = (offset/SectorSize + 1) * SectorSize
			continue
		}
		if offset+recLen > len(dir) {
			break
		}
		record := dir[offset : offset+recLen]
		offset += recLen

		if len(record) < 34 {
			continue
		}
		nameLen := int(record[32])
		if 33+nameLen > len(record) {
			continue
		}
		entryName := string(record[33 : 33+nameLen])
		if matchesName(entryName, name) {
			return int64(isonum32(record[2:10])), int64(isonum32(record[10:18])), true
		}
	}
	return 0, 0, false
}

// matchesName compares directory entry identifiers, accepting both the bare
// form and the ISO9660 version-suffix form (NAME;1).
func matchesName(entry, want string) bool {
	entry = strings.ToUpper(strings.TrimSpace(entry))
	if base, _, found := strings.Cut(entry, ";"); found {
		entry = base
	}
	return entry == strings.ToUpper(want)
}

// parseBootConfig pulls the boot path token out of SYSTEM.CNF content.
// PS2 discs carry "BOOT2 = cdrom0:\SLUS_204.35;1"; PS1 discs use
// "BOOT = cdrom:\SLUS_009.57;1".
func parseBootConfig(content []byte) (string, error) {
	var bootValue string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "BOOT2":
			bootValue = strings.TrimSpace(value)
		case "BOOT":
			if bootValue == "" {
				bootValue = strings.TrimSpace(value)
			}
		}
	}
	if bootValue == "" {
		return "", ErrMalformedConfig
	}

	token := bootValue
	if idx := strings.LastIndexAny(token, "\\/:"); idx >= 0 {
		token = token[idx+1:]
	}
	if idx := strings.IndexByte(token, ';'); idx >= 0 {
		token = token[:idx]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedConfig
	}
	return token, nil
}
