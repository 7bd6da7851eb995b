// Package deps verifies the external tool and storage requirements before
// the daemon starts processing discs.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/garbled1/ps-ripper/internal/config"
)

// Requirement defines an external binary the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external collaborators for the configured tool set.
func Requirements(tools config.Tools) []Requirement {
	return []Requirement{
		{Name: "cdrdao", Command: tools.Cdrdao, Description: "raw CD sector extraction"},
		{Name: "toc2cue", Command: tools.Toc2cue, Description: "table-of-contents to cue sheet conversion"},
		{Name: "cdparanoia", Command: tools.Cdparanoia, Description: "audio track ripping"},
		{Name: "lame", Command: tools.Lame, Description: "audio track compression"},
		{Name: "ddrescue", Command: tools.Ddrescue, Description: "DVD imaging"},
		{Name: "udevadm", Command: tools.Udevadm, Description: "disc metadata probing"},
		{Name: "eject", Command: tools.Eject, Description: "tray control", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

// FreeSpace returns the bytes available to unprivileged users on the
// filesystem holding path.
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
