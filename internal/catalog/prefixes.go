package catalog

import "strings"

// knownPrefixes are the serial number prefixes observed across official
// PlayStation releases, most common first.
var knownPrefixes = []string{
	"SLPM", "SLES", "SCES", "SLUS", "SLPS", "SCUS", "SCPS", "SCAJ",
	"SLKA", "SCKA", "SLAJ", "NPJD", "TCPS", "KOEI", "NPUD", "ALCH",
	"PBGP", "NPED", "CPCS", "FVGK", "SCED", "NPJC", "GUST", "SLED",
	"PBPX", "SLPN", "TCES", "NPUC", "DESR", "PAPX", "PBPS", "PCPX",
	"SCEE", "SRPM",
}

// KnownPrefixes returns a copy of the recognized serial prefixes.
func KnownPrefixes() []string {
	cp := make([]string, len(knownPrefixes))
	copy(cp, knownPrefixes)
	return cp
}

// HasKnownPrefix reports whether a normalized serial (PREFIX-NNNNN) starts
// with a recognized publisher prefix.
func HasKnownPrefix(serial string) bool {
	prefix, _, ok := strings.Cut(serial, "-")
	if !ok {
		return false
	}
	for _, known := range knownPrefixes {
		if prefix == known {
			return true
		}
	}
	return false
}
