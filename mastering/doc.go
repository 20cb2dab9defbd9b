// Package mastering orchestrates the mastering chain: request parsing
// and defaulting, engine selection between the full and fallback paths,
// stage sequencing, and file I/O boundaries.
package mastering
