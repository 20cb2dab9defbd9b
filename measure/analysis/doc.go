// Package analysis produces a complete measurement report for an audio
// buffer: loudness, peaks, dynamic range, stereo width, and spectral
// band distribution.
package analysis
