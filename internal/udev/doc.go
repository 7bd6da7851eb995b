// Package udev talks to the drive: it probes disc-level properties through
// udevadm, reads tray state through the CDROM ioctl, and ejects finished
// discs. The probe is best-effort by contract; discs frequently lack
// publisher or label tags and absent properties are simply left zero.
package udev
