package identity

import "strings"

// MediaKind classifies an inserted disc into one of the archival branches.
type MediaKind string

const (
	// AudioDataCD is a mixed-mode PlayStation CD carrying audio tracks.
	AudioDataCD MediaKind = "audio-data-cd"
	// PS1DataCD is a data-only PlayStation CD.
	PS1DataCD MediaKind = "ps1-data-cd"
	// PS2DVD is a DVD-format PlayStation 2 disc.
	PS2DVD MediaKind = "ps2-dvd"
	// UnknownMedia matched no classification rule. The disc is ejected
	// untouched.
	UnknownMedia MediaKind = "unknown"
)

// playstationAppID is the application identifier Sony stamps on CD-era discs.
const playstationAppID = "PLAYSTATION"

// DirName returns the archive subdirectory for the media kind.
func (k MediaKind) DirName() string {
	switch k {
	case AudioDataCD, PS1DataCD:
		return "PLAYSTATION"
	case PS2DVD:
		return "PLAYSTATION_2"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (k MediaKind) String() string { return string(k) }

// Metadata is the best-effort property set reported by the drive metadata
// probe. Absent fields are empty strings or zero; absence is a first-class
// value, never an error.
type Metadata struct {
	FSType      string
	AppID       string
	PublisherID string
	Label       string
	FSUUID      string
	AudioTracks int
}

// Classify applies the media-kind decision table. First matching rule wins:
//
//	audio tracks present and PlayStation app id  -> AudioDataCD
//	UDF-family filesystem, app id absent/other   -> PS2DVD
//	PlayStation app id, no UDF                   -> PS1DataCD
//	anything else                                -> UnknownMedia
func Classify(md Metadata) MediaKind {
	switch {
	case md.AudioTracks > 0 && md.AppID == playstationAppID:
		return AudioDataCD
	case isUDFFamily(md.FSType) && md.AppID != playstationAppID:
		return PS2DVD
	case md.AppID == playstationAppID:
		return PS1DataCD
	default:
		return UnknownMedia
	}
}

// isUDFFamily reports whether the filesystem type string names a UDF-family
// filesystem. PS2 DVDs probe as "udf"; some hybrids report "iso9660/udf".
func isUDFFamily(fsType string) bool {
	return strings.Contains(strings.ToLower(fsType), "udf")
}
