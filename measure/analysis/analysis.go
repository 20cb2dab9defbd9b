package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
	"github.com/KEYHAN-A/AudioMaster/dsp/core"
	"github.com/KEYHAN-A/AudioMaster/measure/loudness"
	"github.com/KEYHAN-A/AudioMaster/measure/spectral"
	stattime "github.com/KEYHAN-A/AudioMaster/stats/time"
)

const (
	// Loudness values are floored here so the report stays JSON friendly
	// even for silence.
	loudnessFloorDB = -100.0

	// Sample peak underestimates inter-sample peaks; this offset is a
	// conservative stand-in for true-peak oversampling.
	truePeakOffsetDB = 0.2

	// Dynamic range window length in seconds.
	drWindowSeconds = 0.5
)

// Metadata describes the analyzed file.
type Metadata struct {
	Path            string  `json:"path"`
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	Frames          int     `json:"frames"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Analysis is the full measurement report for one file.
type Analysis struct {
	Metadata         Metadata       `json:"metadata"`
	LUFSIntegrated   float64        `json:"lufs_integrated"`
	LUFSShortTermMax float64        `json:"lufs_short_term_max"`
	RMSdB            float64        `json:"rms_db"`
	PeakdB           float64        `json:"peak_db"`
	TruePeakdB       float64        `json:"true_peak_db"`
	DynamicRangedB   float64        `json:"dynamic_range_db"`
	StereoWidth      float64        `json:"stereo_width"`
	FrequencyBands   spectral.Bands `json:"frequency_bands"`
}

// Compute measures the buffer and assembles the report. The path is only
// recorded in the metadata.
func Compute(path string, buf *audiofile.Buffer) (*Analysis, error) {
	if buf == nil || buf.NumChannels() == 0 || buf.Frames() == 0 {
		return nil, fmt.Errorf("analysis: empty buffer for %s", path)
	}

	sampleRate := float64(buf.SampleRate)

	bands, err := spectral.MeasureBands(buf.Channels, sampleRate)
	if err != nil {
		return nil, err
	}

	mono := monoStats(buf.Channels)

	a := &Analysis{
		Metadata: Metadata{
			Path:            path,
			SampleRate:      buf.SampleRate,
			Channels:        buf.NumChannels(),
			Frames:          buf.Frames(),
			DurationSeconds: float64(buf.Frames()) / sampleRate,
		},
		LUFSIntegrated:   floorDB(loudness.Integrated(buf.Channels, sampleRate)),
		LUFSShortTermMax: floorDB(loudness.ShortTermMax(buf.Channels, sampleRate)),
		RMSdB:            floorDB(mono.RMS_dB),
		PeakdB:           floorDB(mono.Peak_dB),
		DynamicRangedB:   dynamicRange(buf.Channels, sampleRate),
		StereoWidth:      stereoWidth(buf.Channels),
		FrequencyBands:   bands,
	}

	a.TruePeakdB = a.PeakdB
	if a.PeakdB > loudnessFloorDB {
		a.TruePeakdB = a.PeakdB + truePeakOffsetDB
	}

	return a, nil
}

// monoStats pools all channels into one statistics pass.
func monoStats(channels [][]float64) stattime.Stats {
	if len(channels) == 1 {
		return stattime.Calculate(channels[0])
	}

	pooled := make([]float64, 0, len(channels)*len(channels[0]))
	for _, ch := range channels {
		pooled = append(pooled, ch...)
	}

	return stattime.Calculate(pooled)
}

// dynamicRange measures the spread between the loudest and quietest tenth
// of 0.5 s windows, in dB.
func dynamicRange(channels [][]float64, sampleRate float64) float64 {
	windowSamples := int(drWindowSeconds * sampleRate)
	if windowSamples <= 0 {
		return 0
	}

	frames := len(channels[0])

	var windowDBs []float64

	for start := 0; start+windowSamples <= frames; start += windowSamples {
		sumSq := 0.0
		count := 0

		for _, ch := range channels {
			seg := ch[start : start+windowSamples]
			sumSq += floats.Dot(seg, seg)
			count += len(seg)
		}

		rms := math.Sqrt(sumSq / float64(count))
		if rms > 0 {
			windowDBs = append(windowDBs, 20.0*math.Log10(rms))
		}
	}

	if len(windowDBs) < 2 {
		return 0
	}

	sort.Float64s(windowDBs)

	tenth := max(len(windowDBs)/10, 1)

	bottom := floats.Sum(windowDBs[:tenth]) / float64(tenth)
	top := floats.Sum(windowDBs[len(windowDBs)-tenth:]) / float64(tenth)

	return math.Abs(top - bottom)
}

// stereoWidth returns the side-to-mid energy ratio of the first two
// channels, capped at 2. Mono buffers report 0.
func stereoWidth(channels [][]float64) float64 {
	if len(channels) < 2 {
		return 0
	}

	left, right := channels[0], channels[1]

	var midSq, sideSq float64

	for i := range left {
		mid := (left[i] + right[i]) * 0.5
		side := (left[i] - right[i]) * 0.5

		midSq += mid * mid
		sideSq += side * side
	}

	if midSq < 1e-20 {
		if sideSq > 1e-20 {
			return 2.0
		}

		return 0
	}

	return math.Min(math.Sqrt(sideSq/midSq), 2.0)
}

func floorDB(v float64) float64 {
	if !core.IsFinite(v) || v < loudnessFloorDB {
		return loudnessFloorDB
	}

	return v
}
