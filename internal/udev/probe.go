package udev

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/garbled1/ps-ripper/internal/identity"
)

// Property keys exposed by the udev database for optical media.
const (
	propFSType      = "ID_FS_TYPE"
	propFSLabel     = "ID_FS_LABEL"
	propFSUUID      = "ID_FS_UUID"
	propPublisher   = "ID_FS_PUBLISHER_ID"
	propApplication = "ID_FS_APPLICATION_ID"
	propAudioTracks = "ID_CDROM_MEDIA_TRACK_COUNT_AUDIO"
	propMedia       = "ID_CDROM_MEDIA"
)

// commandRunner abstracts external command execution for tests.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Prober queries the udev property database for a device.
type Prober struct {
	binary string
	runner commandRunner
	status func(device string) (DriveStatus, error)
}

// NewProber returns a prober shelling out to the given udevadm binary.
func NewProber(binary string) *Prober {
	if strings.TrimSpace(binary) == "" {
		binary = "udevadm"
	}
	return &Prober{binary: binary, runner: execRunner{}, status: CheckDriveStatus}
}

// Probe returns the best-effort metadata for the disc in device. Absent
// properties yield zero values, never errors; only a failed udevadm
// invocation is reported.
func (p *Prober) Probe(ctx context.Context, device string) (identity.Metadata, error) {
	output, err := p.runner.Run(ctx, p.binary, "info", "--query=property", "--name", device)
	if err != nil {
		return identity.Metadata{}, fmt.Errorf("udevadm info %s: %w", device, err)
	}
	return metadataFromProperties(ParseProperties(string(output))), nil
}

// HasMedia reports whether a disc is loaded. The drive status ioctl is
// consulted first; it answers without forking and sees an open tray
// immediately. Drives that report not-ready or no info, and ioctl failures,
// fall through to the udev database.
func (p *Prober) HasMedia(ctx context.Context, device string) (bool, error) {
	if p.status != nil {
		if status, err := p.status(device); err == nil {
			switch status {
			case DriveStatusDiscOK:
				return true, nil
			case DriveStatusNoDisc, DriveStatusTrayOpen:
				return false, nil
			}
		}
	}

	output, err := p.runner.Run(ctx, p.binary, "info", "--query=property", "--name", device)
	if err != nil {
		return false, fmt.Errorf("udevadm info %s: %w", device, err)
	}
	return ParseProperties(string(output))[propMedia] == "1", nil
}

// ParseProperties parses udevadm KEY=VALUE property output.
func ParseProperties(output string) map[string]string {
	properties := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		properties[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return properties
}

func metadataFromProperties(properties map[string]string) identity.Metadata {
	md := identity.Metadata{
		FSType:      properties[propFSType],
		AppID:       properties[propApplication],
		PublisherID: properties[propPublisher],
		Label:       properties[propFSLabel],
		FSUUID:      properties[propFSUUID],
	}
	if raw := properties[propAudioTracks]; raw != "" {
		if count, err := strconv.Atoi(raw); err == nil && count > 0 {
			md.AudioTracks = count
		}
	}
	return md
}
