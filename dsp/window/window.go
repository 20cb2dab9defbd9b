// Package window provides analysis window functions for spectral framing.
package window

import "math"

// Type selects a window function.
type Type int

const (
	// TypeRectangular applies no tapering.
	TypeRectangular Type = iota
	// TypeHann is the raised-cosine window, the default for spectral
	// analysis frames.
	TypeHann
	// TypeHamming is the Hamming window.
	TypeHamming
)

// Generate returns the window coefficients for the given type and length.
// Lengths below 1 return nil; a length of 1 returns [1].
func Generate(t Type, length int) []float64 {
	if length < 1 {
		return nil
	}

	out := make([]float64, length)

	if length == 1 {
		out[0] = 1
		return out
	}

	n := float64(length - 1)

	for i := range out {
		x := float64(i) / n

		switch t {
		case TypeHann:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case TypeHamming:
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*x)
		default:
			out[i] = 1
		}
	}

	return out
}

// Apply multiplies buf in place by the window of the given type.
func Apply(t Type, buf []float64) {
	coeffs := Generate(t, len(buf))
	for i := range buf {
		buf[i] *= coeffs[i]
	}
}

// CoherentGain returns the mean of the window coefficients, used to
// compensate amplitude loss from tapering.
func CoherentGain(t Type, length int) float64 {
	coeffs := Generate(t, length)
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}
