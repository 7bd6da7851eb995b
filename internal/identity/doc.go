// Package identity derives a canonical, collision-resistant identity for an
// inserted disc from unreliable, partially-absent metadata, and maps that
// identity to an archive directory layout.
//
// Every input field is optional. The policy guarantees a non-empty unique id
// for every disc through a fallback chain (serial, filesystem UUID, random
// UUID, timestamp), so even a disc with no metadata at all maps to a distinct
// filesystem path.
package identity
