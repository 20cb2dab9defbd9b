package dynamics

import (
	"math"
	"math/rand"
	"testing"
)

func mustLimiter(t *testing.T, sampleRate float64) *LookaheadLimiter {
	t.Helper()

	l, err := NewLookaheadLimiter(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	return l
}

func noiseChannels(seed int64, channels, frames int, amplitude float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
		for i := range out[c] {
			out[c][i] = (rng.Float64()*2 - 1) * amplitude
		}
	}

	return out
}

func maxAbsAll(channels [][]float64) float64 {
	peak := 0.0

	for _, ch := range channels {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}

	return peak
}

func TestLookaheadLimiter_CeilingHolds(t *testing.T) {
	const ceilingDB = -1.0

	l := mustLimiter(t, 44100)
	if err := l.SetCeiling(ceilingDB); err != nil {
		t.Fatal(err)
	}

	chans := noiseChannels(42, 2, 44100, 1.5) // heavily over the ceiling
	if err := l.Process(chans); err != nil {
		t.Fatal(err)
	}

	ceiling := math.Pow(10, ceilingDB/20.0)
	if peak := maxAbsAll(chans); peak > ceiling+1e-9 {
		t.Errorf("peak %v exceeds ceiling %v", peak, ceiling)
	}
}

func TestLookaheadLimiter_NeverAmplifies(t *testing.T) {
	l := mustLimiter(t, 48000)

	chans := noiseChannels(7, 2, 9600, 0.05) // far below ceiling

	orig := make([][]float64, len(chans))
	for c := range chans {
		orig[c] = append([]float64(nil), chans[c]...)
	}

	if err := l.Process(chans); err != nil {
		t.Fatal(err)
	}

	for c := range chans {
		for i := range chans[c] {
			if math.Abs(chans[c][i]) > math.Abs(orig[c][i])+1e-12 {
				t.Fatalf("channel %d sample %d amplified: %v -> %v",
					c, i, orig[c][i], chans[c][i])
			}
		}
	}
}

func TestLookaheadLimiter_QuietSignalUntouched(t *testing.T) {
	l := mustLimiter(t, 44100)

	chans := noiseChannels(3, 2, 4410, 0.1)

	orig := make([][]float64, len(chans))
	for c := range chans {
		orig[c] = append([]float64(nil), chans[c]...)
	}

	if err := l.Process(chans); err != nil {
		t.Fatal(err)
	}

	for c := range chans {
		for i := range chans[c] {
			if chans[c][i] != orig[c][i] {
				t.Fatalf("channel %d sample %d changed on quiet input", c, i)
			}
		}
	}
}

func TestLookaheadLimiter_MismatchedChannels(t *testing.T) {
	l := mustLimiter(t, 44100)

	err := l.Process([][]float64{make([]float64, 10), make([]float64, 11)})
	if err == nil {
		t.Error("expected error for mismatched channel lengths")
	}
}

func TestLookaheadLimiter_SetterValidation(t *testing.T) {
	l := mustLimiter(t, 44100)

	if err := l.SetCeiling(1); err == nil {
		t.Error("expected error for positive ceiling")
	}

	if err := l.SetRelease(-5); err == nil {
		t.Error("expected error for negative release")
	}

	if err := l.SetLookahead(1000); err == nil {
		t.Error("expected error for excessive lookahead")
	}
}

func TestSlidingWindowMin(t *testing.T) {
	values := []float64{5, 3, 4, 1, 2, 6, 0.5, 7}
	window := 2

	got := slidingWindowMin(values, window)

	for i := range values {
		want := values[i]

		for j := i + 1; j <= i+window && j < len(values); j++ {
			if values[j] < want {
				want = values[j]
			}
		}

		if got[i] != want {
			t.Errorf("index %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestStaticPeakLimit(t *testing.T) {
	t.Run("over ceiling scales uniformly", func(t *testing.T) {
		chans := [][]float64{{0.5, -2.0, 1.0}, {0.25, 0.0, -0.5}}

		gain := StaticPeakLimit(chans, -1)

		ceiling := math.Pow(10, -1.0/20.0)
		if want := ceiling / 2.0; math.Abs(gain-want) > 1e-12 {
			t.Errorf("gain = %v, want %v", gain, want)
		}

		if peak := maxAbsAll(chans); peak > ceiling+1e-12 {
			t.Errorf("peak %v exceeds ceiling %v", peak, ceiling)
		}
	})

	t.Run("under ceiling untouched", func(t *testing.T) {
		chans := [][]float64{{0.1, -0.2}}

		if gain := StaticPeakLimit(chans, -1); gain != 1.0 {
			t.Errorf("gain = %v, want 1.0", gain)
		}

		if chans[0][0] != 0.1 || chans[0][1] != -0.2 {
			t.Error("buffer modified for signal below ceiling")
		}
	})

	t.Run("silence untouched", func(t *testing.T) {
		chans := [][]float64{{0, 0, 0}}

		if gain := StaticPeakLimit(chans, -1); gain != 1.0 {
			t.Errorf("gain = %v, want 1.0", gain)
		}
	})
}
