package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates the complex frequency response H(e^jw) of a section's
// coefficients at the given frequency in Hz.
func Response(c Coefficients, freq, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
// Returns -Inf for a zero response.
func MagnitudeDB(c Coefficients, freq, sampleRate float64) float64 {
	mag := cmplx.Abs(Response(c, freq, sampleRate))
	if mag == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(mag)
}

// CascadeMagnitudeDB returns the combined magnitude response in dB of a
// coefficient cascade at the given frequency.
func CascadeMagnitudeDB(coeffs []Coefficients, freq, sampleRate float64) float64 {
	total := 0.0
	for _, c := range coeffs {
		total += MagnitudeDB(c, freq, sampleRate)
	}

	return total
}
