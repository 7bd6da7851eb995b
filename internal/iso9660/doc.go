// Package iso9660 reads just enough of an ISO9660 volume to identify a
// PlayStation-family disc.
//
// It walks the Primary Volume Descriptor and the root directory to locate
// the boot configuration file (SYSTEM.CNF) and pull the game serial number
// out of its BOOT line. All functions operate on an io.ReaderAt so they work
// identically against image files and raw block devices, and none of them
// mutate anything: callers get a value or a sentinel error and decide how to
// degrade.
package iso9660
