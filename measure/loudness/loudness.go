package loudness

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Silence floor for the RMS based loudness approximation.
	rmsSilenceFloor = 1e-10

	// Normalization gain is clamped to avoid runaway corrections on
	// badly mismeasured material.
	maxNormalizationDB = 12.0

	// BS.1770 absolute offset between mean-square dB and LUFS.
	lufsOffset = -0.691
)

// RMS returns the root mean square over all channels pooled together.
// It returns 0 for empty input.
func RMS(channels [][]float64) float64 {
	sum := 0.0
	count := 0

	for _, ch := range channels {
		sum += floats.Dot(ch, ch)
		count += len(ch)
	}

	if count == 0 {
		return 0
	}

	return math.Sqrt(sum / float64(count))
}

// ApproxLUFS estimates loudness from a pooled RMS value using the BS.1770
// offset without K-weighting or gating. ok is false when the signal is
// effectively silent and no meaningful estimate exists.
func ApproxLUFS(rms float64) (lufs float64, ok bool) {
	if rms <= rmsSilenceFloor {
		return 0, false
	}

	return 20.0*math.Log10(rms) + lufsOffset, true
}

// NormalizationGainDB returns the gain in dB that moves current loudness to
// the target, clamped to ±12 dB.
func NormalizationGainDB(currentLUFS, targetLUFS float64) float64 {
	gain := targetLUFS - currentLUFS

	if gain > maxNormalizationDB {
		return maxNormalizationDB
	}

	if gain < -maxNormalizationDB {
		return -maxNormalizationDB
	}

	return gain
}
