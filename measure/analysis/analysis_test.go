package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
	"github.com/KEYHAN-A/AudioMaster/internal/testutil"
)

func sineBuffer(amplitude float64, seconds int) *audiofile.Buffer {
	const sampleRate = 44100

	return &audiofile.Buffer{
		SampleRate: sampleRate,
		Channels: [][]float64{
			testutil.Sine(1000, sampleRate, amplitude, seconds*sampleRate),
			testutil.Sine(1000, sampleRate, amplitude, seconds*sampleRate),
		},
	}
}

func TestCompute_EmptyBuffer(t *testing.T) {
	_, err := Compute("x.wav", &audiofile.Buffer{})
	require.Error(t, err)

	_, err = Compute("x.wav", nil)
	require.Error(t, err)
}

func TestCompute_Metadata(t *testing.T) {
	buf := sineBuffer(0.5, 2)

	a, err := Compute("track.wav", buf)
	require.NoError(t, err)

	require.Equal(t, "track.wav", a.Metadata.Path)
	require.Equal(t, 44100, a.Metadata.SampleRate)
	require.Equal(t, 2, a.Metadata.Channels)
	require.InDelta(t, 2.0, a.Metadata.DurationSeconds, 1e-9)
}

func TestCompute_SineLevels(t *testing.T) {
	buf := sineBuffer(0.5, 2)

	a, err := Compute("track.wav", buf)
	require.NoError(t, err)

	// A 0.5 amplitude sine peaks at -6.02 dB with RMS 3 dB lower.
	require.InDelta(t, -6.02, a.PeakdB, 0.1)
	require.InDelta(t, -9.03, a.RMSdB, 0.1)
	require.InDelta(t, a.PeakdB+0.2, a.TruePeakdB, 1e-9)

	// A steady tone has essentially no dynamic range.
	require.Less(t, a.DynamicRangedB, 0.5)

	// Identical channels are pure mid.
	require.InDelta(t, 0.0, a.StereoWidth, 1e-9)

	// 1 kHz lands in the mids band.
	require.Greater(t, a.FrequencyBands.Mids, -1.0)
}

func TestCompute_SilenceIsFloored(t *testing.T) {
	buf := &audiofile.Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{make([]float64, 44100)},
	}

	a, err := Compute("silence.wav", buf)
	require.NoError(t, err)

	require.Equal(t, loudnessFloorDB, a.LUFSIntegrated)
	require.Equal(t, loudnessFloorDB, a.PeakdB)
	require.Equal(t, loudnessFloorDB, a.TruePeakdB)

	// The report must survive JSON marshaling even for silence.
	raw, err := json.Marshal(a)
	require.NoError(t, err)
	require.Contains(t, string(raw), "lufs_integrated")
}

func TestStereoWidth_Cases(t *testing.T) {
	n := 1024
	l := testutil.Sine(440, 44100, 0.5, n)

	inverted := make([]float64, n)
	for i := range l {
		inverted[i] = -l[i]
	}

	tests := []struct {
		name string
		ch   [][]float64
		want float64
	}{
		{"mono buffer", [][]float64{l}, 0},
		{"identical channels", [][]float64{l, l}, 0},
		{"anti-phase is all side", [][]float64{l, inverted}, 2.0},
		{"silence", [][]float64{make([]float64, n), make([]float64, n)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, stereoWidth(tt.ch), 1e-9)
		})
	}
}

func TestDynamicRange_QuietAndLoudSections(t *testing.T) {
	const sampleRate = 44100

	signal := testutil.Sine(440, sampleRate, 0.05, 4*sampleRate)
	signal = append(signal, testutil.Sine(440, sampleRate, 0.5, 4*sampleRate)...)

	dr := dynamicRange([][]float64{signal}, sampleRate)

	// The loud half is 20 dB above the quiet half.
	require.InDelta(t, 20.0, dr, 1.0)
}

func TestDynamicRange_TooShort(t *testing.T) {
	short := testutil.Sine(440, 44100, 0.5, 1000)

	require.Equal(t, 0.0, dynamicRange([][]float64{short}, 44100))
}

func TestFloorDB(t *testing.T) {
	require.Equal(t, loudnessFloorDB, floorDB(math.Inf(-1)))
	require.Equal(t, loudnessFloorDB, floorDB(math.Inf(1)))
	require.Equal(t, loudnessFloorDB, floorDB(math.NaN()))
	require.Equal(t, loudnessFloorDB, floorDB(-500))
	require.Equal(t, -14.0, floorDB(-14))
}
