package spectral

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/KEYHAN-A/AudioMaster/dsp/spectrum"
	"github.com/KEYHAN-A/AudioMaster/dsp/window"
)

const (
	frameSize = 4096

	// Relative band levels are floored here when a band holds no energy.
	silenceFloorDB = -100.0
)

// Bands holds relative energy per perceptual frequency band in dB. Each
// value is the band's share of total spectral energy, so a flat spectrum
// yields values near 10*log10(1/7).
type Bands struct {
	SubBass    float64 `json:"sub_bass"`
	Bass       float64 `json:"bass"`
	LowMids    float64 `json:"low_mids"`
	Mids       float64 `json:"mids"`
	HighMids   float64 `json:"high_mids"`
	Presence   float64 `json:"presence"`
	Brilliance float64 `json:"brilliance"`
}

// bandEdges are the [low, high) frequency ranges in Hz, in struct order.
var bandEdges = [7][2]float64{
	{20, 60},
	{60, 250},
	{250, 500},
	{500, 2000},
	{2000, 4000},
	{4000, 6000},
	{6000, 20000},
}

// MeasureBands analyzes the mono mix of the given channels in Hann-windowed
// 4096-sample frames and returns per-band energy relative to the total.
func MeasureBands(channels [][]float64, sampleRate float64) (Bands, error) {
	if sampleRate <= 0 {
		return Bands{}, fmt.Errorf("spectral band sample rate must be > 0: %f", sampleRate)
	}

	mono := monoMix(channels)
	if len(mono) < frameSize {
		return silentBands(), nil
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return Bands{}, fmt.Errorf("spectral band fft plan: %w", err)
	}

	coeffs := window.Generate(window.TypeHann, frameSize)
	in := make([]complex128, frameSize)
	out := make([]complex128, frameSize)

	var energies [7]float64

	for start := 0; start+frameSize <= len(mono); start += frameSize {
		for i := range frameSize {
			in[i] = complex(mono[start+i]*coeffs[i], 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return Bands{}, fmt.Errorf("spectral band fft: %w", err)
		}

		power := spectrum.Power(out[:frameSize/2+1])

		for k, p := range power {
			freq := spectrum.BinFrequency(k, frameSize, sampleRate)

			for b, edges := range bandEdges {
				if freq >= edges[0] && freq < edges[1] {
					energies[b] += p
					break
				}
			}
		}
	}

	total := 0.0
	for _, e := range energies {
		total += e
	}

	if total <= 0 {
		return silentBands(), nil
	}

	var bands Bands

	values := []*float64{
		&bands.SubBass, &bands.Bass, &bands.LowMids, &bands.Mids,
		&bands.HighMids, &bands.Presence, &bands.Brilliance,
	}

	for b, e := range energies {
		*values[b] = relativeDB(e, total)
	}

	return bands, nil
}

// BandEnergy returns the total spectral energy of the mono mix between
// loHz and hiHz. Useful for comparing the same range before and after
// filtering.
func BandEnergy(channels [][]float64, sampleRate, loHz, hiHz float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("band energy sample rate must be > 0: %f", sampleRate)
	}

	if hiHz <= loHz {
		return 0, fmt.Errorf("band energy range invalid: [%f, %f)", loHz, hiHz)
	}

	mono := monoMix(channels)
	if len(mono) < frameSize {
		return 0, nil
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return 0, fmt.Errorf("band energy fft plan: %w", err)
	}

	coeffs := window.Generate(window.TypeHann, frameSize)
	in := make([]complex128, frameSize)
	out := make([]complex128, frameSize)

	energy := 0.0

	for start := 0; start+frameSize <= len(mono); start += frameSize {
		for i := range frameSize {
			in[i] = complex(mono[start+i]*coeffs[i], 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return 0, fmt.Errorf("band energy fft: %w", err)
		}

		power := spectrum.Power(out[:frameSize/2+1])

		for k, p := range power {
			freq := spectrum.BinFrequency(k, frameSize, sampleRate)
			if freq >= loHz && freq < hiHz {
				energy += p
			}
		}
	}

	return energy, nil
}

func monoMix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	if len(channels) == 1 {
		return channels[0]
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	mono := make([]float64, frames)
	scale := 1.0 / float64(len(channels))

	for _, ch := range channels {
		for i := range mono {
			mono[i] += ch[i] * scale
		}
	}

	return mono
}

func relativeDB(energy, total float64) float64 {
	if energy <= 0 {
		return silenceFloorDB
	}

	db := 10.0 * math.Log10(energy/total)
	if db < silenceFloorDB {
		return silenceFloorDB
	}

	return db
}

func silentBands() Bands {
	return Bands{
		SubBass:    silenceFloorDB,
		Bass:       silenceFloorDB,
		LowMids:    silenceFloorDB,
		Mids:       silenceFloorDB,
		HighMids:   silenceFloorDB,
		Presence:   silenceFloorDB,
		Brilliance: silenceFloorDB,
	}
}
