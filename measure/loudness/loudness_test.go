package loudness

import (
	"math"
	"testing"

	"github.com/KEYHAN-A/AudioMaster/internal/testutil"
)

func TestRMS_Sine(t *testing.T) {
	// A full-scale sine has RMS 1/sqrt(2).
	sine := testutil.Sine(1000, 48000, 1.0, 48000)

	got := RMS([][]float64{sine})
	want := 1.0 / math.Sqrt2

	testutil.RequireNearlyEqual(t, got, want, 1e-3)
}

func TestRMS_Empty(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %v, want 0", got)
	}

	if got := RMS([][]float64{{}}); got != 0 {
		t.Errorf("RMS of empty channel = %v, want 0", got)
	}
}

func TestApproxLUFS_Silence(t *testing.T) {
	if _, ok := ApproxLUFS(0); ok {
		t.Error("expected ok=false for zero RMS")
	}

	if _, ok := ApproxLUFS(1e-11); ok {
		t.Error("expected ok=false below the silence floor")
	}
}

func TestApproxLUFS_KnownLevel(t *testing.T) {
	// RMS of 0.1 is -20 dB; with the BS.1770 offset that is -20.691.
	got, ok := ApproxLUFS(0.1)
	if !ok {
		t.Fatal("expected ok=true")
	}

	testutil.RequireNearlyEqual(t, got, -20.691, 1e-9)
}

func TestNormalizationGainDB(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"boost", -20, -14, 6},
		{"cut", -8, -14, -6},
		{"clamped boost", -40, -14, 12},
		{"clamped cut", 0, -14, -12},
		{"exact", -14, -14, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizationGainDB(tt.current, tt.target)
			if got != tt.want {
				t.Errorf("NormalizationGainDB(%v, %v) = %v, want %v",
					tt.current, tt.target, got, tt.want)
			}
		})
	}
}

func TestIntegrated_SineLevelTracksAmplitude(t *testing.T) {
	const sampleRate = 48000

	// 2 seconds is plenty of 400 ms blocks.
	quiet := testutil.Sine(997, sampleRate, 0.1, 2*sampleRate)
	loud := testutil.Sine(997, sampleRate, 0.2, 2*sampleRate)

	lQuiet := Integrated([][]float64{quiet}, sampleRate)
	lLoud := Integrated([][]float64{loud}, sampleRate)

	// Doubling amplitude raises loudness by 6.02 dB.
	testutil.RequireNearlyEqual(t, lLoud-lQuiet, 20.0*math.Log10(2), 0.1)
}

func TestIntegrated_MatchesApproxForSteadySine(t *testing.T) {
	const sampleRate = 48000

	sine := testutil.Sine(997, sampleRate, 0.25, 4*sampleRate)
	chans := [][]float64{sine}

	gated := Integrated(chans, sampleRate)

	approx, ok := ApproxLUFS(RMS(chans))
	if !ok {
		t.Fatal("expected ok=true")
	}

	// A steady tone has no gating effect, so both estimates agree.
	testutil.RequireNearlyEqual(t, gated, approx, 0.1)
}

func TestIntegrated_Silence(t *testing.T) {
	silence := make([]float64, 48000)

	if got := Integrated([][]float64{silence}, 48000); !math.IsInf(got, -1) {
		t.Errorf("Integrated(silence) = %v, want -Inf", got)
	}
}

func TestIntegrated_TooShort(t *testing.T) {
	short := testutil.Sine(1000, 48000, 0.5, 100)

	if got := Integrated([][]float64{short}, 48000); !math.IsInf(got, -1) {
		t.Errorf("Integrated(short) = %v, want -Inf", got)
	}
}

func TestShortTermMax_FindsLoudSegment(t *testing.T) {
	const sampleRate = 44100

	// 4 s quiet, then 4 s loud. The max short-term window should sit on
	// the loud segment.
	signal := testutil.Sine(440, sampleRate, 0.05, 4*sampleRate)
	signal = append(signal, testutil.Sine(440, sampleRate, 0.5, 4*sampleRate)...)

	got := ShortTermMax([][]float64{signal}, sampleRate)

	loudOnly := Integrated([][]float64{testutil.Sine(440, sampleRate, 0.5, 4*sampleRate)}, sampleRate)

	testutil.RequireNearlyEqual(t, got, loudOnly, 0.5)
}

func TestShortTermMax_ShortSignalFallsBack(t *testing.T) {
	const sampleRate = 44100

	// 1 s signal, shorter than the 3 s window.
	sine := testutil.Sine(440, sampleRate, 0.3, sampleRate)
	chans := [][]float64{sine}

	got := ShortTermMax(chans, sampleRate)
	want := Integrated(chans, sampleRate)

	if got != want {
		t.Errorf("ShortTermMax = %v, want Integrated fallback %v", got, want)
	}
}
