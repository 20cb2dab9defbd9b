// Package testutil provides deterministic signal generators and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave starting at phase zero.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// StereoSine generates a two-channel sine with independent amplitudes,
// useful for exercising mid/side processing.
func StereoSine(freqHz, sampleRate, leftAmp, rightAmp float64, length int) [][]float64 {
	return [][]float64{
		Sine(freqHz, sampleRate, leftAmp, length),
		Sine(freqHz, sampleRate, rightAmp, length),
	}
}

// StereoNoise generates two decorrelated noise channels from one seed.
func StereoNoise(seed int64, amplitude float64, length int) [][]float64 {
	return [][]float64{
		Noise(seed, amplitude, length),
		Noise(seed+1, amplitude, length),
	}
}
