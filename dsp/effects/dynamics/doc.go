// Package dynamics provides the dynamics processors used by the
// mastering chain.
//
// Included processors:
//   - Compressor: feedforward compressor with log2-domain gain
//     computation and optional soft knee.
//   - LookaheadLimiter: offline brickwall limiter with channel-linked
//     gain reduction and release recovery.
//   - StaticPeakLimit: uniform whole-buffer gain reduction to a ceiling,
//     used by the reduced fallback chain.
package dynamics
