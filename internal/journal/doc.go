// Package journal persists a history of completed archives in SQLite. The
// journal is informational: idempotence decisions come from the marker files
// in the archive tree, while the journal backs the operator-facing history
// listing.
package journal
