// Package core provides shared numeric primitives for the DSP packages:
// dB/linear conversions, clamping, and channel-buffer utilities.
package core
