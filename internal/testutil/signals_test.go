package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestNoiseReproducible(t *testing.T) {
	a := Noise(42, 1.0, 64)
	b := Noise(42, 1.0, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestStereoNoiseDecorrelated(t *testing.T) {
	st := StereoNoise(7, 1.0, 32)
	if len(st) != 2 {
		t.Fatalf("channels = %d, want 2", len(st))
	}

	same := true

	for i := range st[0] {
		if st[0][i] != st[1][i] {
			same = false
			break
		}
	}

	if same {
		t.Fatal("stereo noise channels are identical")
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)

	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1.0
		}

		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 3})
	if err != nil {
		t.Fatal(err)
	}

	if d != 0.5 {
		t.Fatalf("diff = %v, want 0.5", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
