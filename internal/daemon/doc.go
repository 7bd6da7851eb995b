// Package daemon runs the disc state machine: it waits for media, probes
// and classifies the disc, derives its identity, sequences the external
// extraction and encoding tools, and ejects the disc when done.
//
// Processing is fully sequential. One disc runs to completion before the
// drive is polled again, and a file lock enforces a single daemon instance
// per machine. Every error is local to one disc; the polling loop itself is
// long-lived and only stops with the process.
package daemon
