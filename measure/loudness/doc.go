// Package loudness provides program loudness measurement.
//
// Two estimators are available: a cheap RMS based approximation of LUFS
// without K-weighting, and a gated integrated measurement following the
// block and gating structure of ITU-R BS.1770-4. NormalizationGainDB
// derives a bounded correction gain toward a target loudness.
package loudness
