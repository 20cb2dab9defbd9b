package time

import (
	"math"
	"testing"

	"github.com/KEYHAN-A/AudioMaster/internal/testutil"
)

func TestCalculate_Empty(t *testing.T) {
	s := Calculate(nil)

	if s.Length != 0 {
		t.Errorf("Length = %d, want 0", s.Length)
	}

	if !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Errorf("empty stats dB fields not -Inf: %+v", s)
	}
}

func TestCalculate_Sine(t *testing.T) {
	sine := testutil.Sine(100, 48000, 1.0, 48000)

	s := Calculate(sine)

	testutil.RequireNearlyEqual(t, s.RMS, 1.0/math.Sqrt2, 1e-3)
	testutil.RequireNearlyEqual(t, s.Peak, 1.0, 1e-6)
	testutil.RequireNearlyEqual(t, s.CrestFactor, math.Sqrt2, 1e-3)
	testutil.RequireNearlyEqual(t, s.DC, 0, 1e-6)

	// A 100 Hz sine over 1 s crosses zero about 200 times.
	if s.ZeroCrossings < 198 || s.ZeroCrossings > 201 {
		t.Errorf("ZeroCrossings = %d, want ~200", s.ZeroCrossings)
	}
}

func TestCalculate_DC(t *testing.T) {
	s := Calculate(testutil.DC(0.5, 100))

	testutil.RequireNearlyEqual(t, s.DC, 0.5, 1e-15)
	testutil.RequireNearlyEqual(t, s.RMS, 0.5, 1e-15)
	testutil.RequireNearlyEqual(t, s.Peak, 0.5, 1e-15)

	if s.ZeroCrossings != 0 {
		t.Errorf("ZeroCrossings = %d, want 0", s.ZeroCrossings)
	}
}

func TestCalculate_Silence(t *testing.T) {
	s := Calculate(make([]float64, 64))

	if s.RMS != 0 || s.Peak != 0 || s.CrestFactor != 0 {
		t.Errorf("silence stats = %+v", s)
	}

	if !math.IsInf(s.RMS_dB, -1) {
		t.Errorf("RMS_dB = %v, want -Inf", s.RMS_dB)
	}
}

func TestCalculate_Energy(t *testing.T) {
	s := Calculate([]float64{1, -1, 2})

	testutil.RequireNearlyEqual(t, s.Energy, 6, 1e-15)
}
