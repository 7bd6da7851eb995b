// Package ripper drives the external extraction, ripping, and encoding
// binaries. The system never decodes disc or audio formats itself: cdrdao
// dumps raw CD sectors, toc2cue converts the table-of-contents sidecar,
// cdparanoia rips audio tracks, lame compresses them, and ddrescue images
// DVD media. Every step is idempotent on the existence of a non-empty
// output file so an interrupted run resumes where it stopped.
package ripper
