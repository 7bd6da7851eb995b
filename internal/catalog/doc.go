// Package catalog maps normalized game serial numbers to canonical titles
// and regions.
//
// The lookup tables are embedded per-region JSON files seeded from the
// official release lists; an operator can override or extend them by
// pointing paths.catalog_dir at a directory with the same file names.
// Lookup is exact-match on the normalized serial; a miss is not an error.
package catalog
