// Package fileutil provides small filesystem helpers shared by the ripping
// pipeline.
package fileutil

import (
	"fmt"
	"os"
)

// NonEmptyFile reports whether path names a regular file with size > 0.
// Output-file existence is the pipeline's idempotence signal; a zero-byte
// file from an interrupted run does not count as complete.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// TempWorkspace creates a scratch directory under parent and returns its
// path plus a cleanup function that removes it recursively. The cleanup
// function is safe to call on every exit path.
func TempWorkspace(parent, pattern string) (string, func(), error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", nil, fmt.Errorf("create scratch parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create scratch directory: %w", err)
	}
	cleanup := func() {
		_ = os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}
