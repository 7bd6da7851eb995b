// Package config loads, normalizes, and validates psrip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: the archive root, the optical drive, the external
// tool binaries, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
