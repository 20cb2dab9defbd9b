package loudness

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Gating block parameters per BS.1770-4.
	blockDuration = 0.4
	blockOverlap  = 0.75

	shortTermDuration = 3.0
	shortTermHop      = 1.0

	absThreshold = -70.0
	relThreshold = -10.0
)

// Integrated measures gated loudness in LUFS over the whole signal.
// Blocks of 400 ms with 75% overlap are gated first at an absolute
// threshold of -70 LUFS and then at 10 LU below the ungated mean.
// It returns -Inf for silence or input shorter than one block.
func Integrated(channels [][]float64, sampleRate float64) float64 {
	blocks := blockPowers(channels, sampleRate, blockDuration, blockDuration*(1.0-blockOverlap))
	if len(blocks) == 0 {
		return math.Inf(-1)
	}

	var absGated []float64

	absGatedSum := 0.0

	for _, p := range blocks {
		if toLUFS(p) > absThreshold {
			absGated = append(absGated, p)
			absGatedSum += p
		}
	}

	if len(absGated) == 0 {
		return math.Inf(-1)
	}

	gammaRel := toLUFS(absGatedSum/float64(len(absGated))) + relThreshold

	var (
		relGatedSum   float64
		relGatedCount int
	)

	for _, p := range absGated {
		if toLUFS(p) > gammaRel {
			relGatedSum += p
			relGatedCount++
		}
	}

	if relGatedCount == 0 {
		return math.Inf(-1)
	}

	return toLUFS(relGatedSum / float64(relGatedCount))
}

// ShortTermMax returns the loudest 3 s window in LUFS, advancing by 1 s
// hops. Signals shorter than one window fall back to Integrated.
func ShortTermMax(channels [][]float64, sampleRate float64) float64 {
	windows := blockPowers(channels, sampleRate, shortTermDuration, shortTermHop)
	if len(windows) == 0 {
		return Integrated(channels, sampleRate)
	}

	return toLUFS(floats.Max(windows))
}

// blockPowers slices the signal into windows of the given duration and hop
// and returns the per-window mean square summed over channels.
func blockPowers(channels [][]float64, sampleRate, duration, hop float64) []float64 {
	frames := 0
	for _, ch := range channels {
		if len(ch) > frames {
			frames = len(ch)
		}
	}

	windowSamples := int(math.Round(duration * sampleRate))
	hopSamples := max(int(math.Round(hop*sampleRate)), 1)

	if windowSamples <= 0 || frames < windowSamples {
		return nil
	}

	var powers []float64

	for start := 0; start+windowSamples <= frames; start += hopSamples {
		meanSqSum := 0.0

		for _, ch := range channels {
			seg := ch[start : start+windowSamples]
			meanSqSum += floats.Dot(seg, seg) / float64(windowSamples)
		}

		powers = append(powers, meanSqSum)
	}

	return powers
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}

	return lufsOffset + 10.0*math.Log10(meanSquare)
}
