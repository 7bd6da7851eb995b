package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of surrounding whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// PathComponent converts a value into a single archive directory component.
// Unsafe characters are handled as in SanitizeFileName and interior
// whitespace becomes underscores, matching the convention of optical disc
// volume labels. Empty input yields fallback.
func PathComponent(value, fallback string) string {
	value = SanitizeFileName(value)
	if value == "" {
		return fallback
	}
	return strings.Join(strings.Fields(value), "_")
}
