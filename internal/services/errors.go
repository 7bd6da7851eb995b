package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool tags abnormal exits from the extraction and encoding
	// collaborators (cdrdao, cdparanoia, lame, ddrescue, ...).
	ErrExternalTool = errors.New("external tool error")
	// ErrUnclassifiableMedia tags discs no classification rule matches.
	ErrUnclassifiableMedia = errors.New("unclassifiable media")
	// ErrConfigParse tags failures locating or parsing the identifying
	// configuration file on a disc image. Always recoverable.
	ErrConfigParse = errors.New("config parse failure")
	// ErrNamingCollision tags a destination already archived under a
	// different unique id. Must never be silently overwritten.
	ErrNamingCollision = errors.New("naming collision")
	// ErrConfiguration tags invalid or missing operator configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound tags lookups that came up empty.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation string, err error) error {
	detail := buildDetail(component, operation)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "disc processing failure"
	}
	return strings.Join(parts, ": ")
}
