package testsupport

import (
	"encoding/binary"
	"strings"
	"testing"
	"unicode/utf16"
)

const isoSectorSize = 2048

// ISOOptions controls the synthetic image produced by BuildISO.
type ISOOptions struct {
	Label       string
	Publisher   string
	Application string
	JolietLabel string
	// ConfigContent is the body of SYSTEM.CNF. Empty with OmitConfig false
	// still creates the file.
	ConfigContent string
	// ConfigName overrides the directory entry name (default SYSTEM.CNF;1).
	ConfigName string
	// OmitConfig leaves SYSTEM.CNF out of the root directory.
	OmitConfig bool
	// CorruptDescriptor breaks the CD001 signature at sector 16.
	CorruptDescriptor bool
}

// BuildISO assembles a minimal ISO9660 image in memory: a primary volume
// descriptor at sector 16, an optional Joliet supplementary descriptor, a
// terminator, and a one-sector root directory holding SYSTEM.CNF.
func BuildISO(t testing.TB, opts ISOOptions) []byte {
	t.Helper()

	const (
		pvdSector    = 16
		rootSector   = 20
		configSector = 21
		totalSectors = 24
	)

	image := make([]byte, totalSectors*isoSectorSize)

	// Primary volume descriptor.
	pvd := image[pvdSector*isoSectorSize:]
	pvd[0] = 1
	copy(pvd[1:6], "CD001")
	pvd[6] = 1
	padField(pvd[8:40], "PLAYSTATION")
	padField(pvd[40:72], opts.Label)
	padField(pvd[318:446], opts.Publisher)
	padField(pvd[574:702], opts.Application)
	writeDirRecord(pvd[156:190], rootSector, isoSectorSize, "\x00", 2)

	next := pvdSector + 1
	if opts.JolietLabel != "" {
		svd := image[next*isoSectorSize:]
		svd[0] = 2
		copy(svd[1:6], "CD001")
		svd[6] = 1
		encoded := utf16.Encode([]rune(opts.JolietLabel))
		for i := 0; i < 16; i++ {
			var unit uint16 = 0x0020
			if i < len(encoded) {
				unit = encoded[i]
			}
			binary.BigEndian.PutUint16(svd[40+2*i:], unit)
		}
		next++
	}
	terminator := image[next*isoSectorSize:]
	terminator[0] = 255
	copy(terminator[1:6], "CD001")
	terminator[6] = 1

	// Root directory: self, parent, then the config file.
	root := image[rootSector*isoSectorSize:]
	offset := 0
	offset += writeDirRecord(root[offset:], rootSector, isoSectorSize, "\x00", 2)
	offset += writeDirRecord(root[offset:], rootSector, isoSectorSize, "\x01", 2)
	if !opts.OmitConfig {
		name := opts.ConfigName
		if name == "" {
			name = "SYSTEM.CNF;1"
		}
		writeDirRecord(root[offset:], configSector, uint32(len(opts.ConfigContent)), name, 0)
		copy(image[configSector*isoSectorSize:], opts.ConfigContent)
	}

	if opts.CorruptDescriptor {
		copy(image[pvdSector*isoSectorSize+1:], "XX001")
	}
	return image
}

func padField(dst []byte, value string) {
	copy(dst, strings.ToUpper(value))
	for i := len(value); i < len(dst); i++ {
		dst[i] = ' '
	}
}

// writeDirRecord emits one ISO9660 directory record and returns its length.
func writeDirRecord(dst []byte, extent int64, size uint32, name string, flags byte) int {
	nameLen := len(name)
	recLen := 33 + nameLen
	if recLen%2 == 1 {
		recLen++
	}
	dst[0] = byte(recLen)
	binary.LittleEndian.PutUint32(dst[2:], uint32(extent))
	binary.BigEndian.PutUint32(dst[6:], uint32(extent))
	binary.LittleEndian.PutUint32(dst[10:], size)
	binary.BigEndian.PutUint32(dst[14:], size)
	dst[25] = flags
	binary.LittleEndian.PutUint16(dst[28:], 1)
	binary.BigEndian.PutUint16(dst[30:], 1)
	dst[32] = byte(nameLen)
	copy(dst[33:], name)
	return recLen
}
