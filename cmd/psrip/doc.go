// Command psrip archives PlayStation-family optical discs: a long-running
// daemon watches the drive and rips every inserted disc, while one-shot
// subcommands identify images, query the serial catalog, and show history.
package main
