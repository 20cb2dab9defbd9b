package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultLimiterCeilingDB   = -1.0
	defaultLimiterReleaseMs   = 50.0
	defaultLimiterLookaheadMs = 5.0

	minLimiterCeilingDB   = -60.0
	maxLimiterCeilingDB   = 0.0
	maxLimiterReleaseMs   = 5000.0
	maxLimiterLookaheadMs = 200.0
)

// LookaheadLimiter is an offline brickwall limiter for whole-buffer
// processing. It previews the next lookahead window so gain is already
// reduced when a peak arrives, then recovers toward unity over the
// release time. Gain reduction is linked across channels to preserve
// the stereo image.
//
// The limiter only ever attenuates; a signal entirely below the ceiling
// passes through at unity gain.
type LookaheadLimiter struct {
	sampleRate  float64
	ceilingDB   float64
	releaseMs   float64
	lookaheadMs float64
}

// NewLookaheadLimiter creates a limiter with mastering defaults
// (-1 dB ceiling, 50 ms release, 5 ms lookahead).
func NewLookaheadLimiter(sampleRate float64) (*LookaheadLimiter, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("lookahead limiter %w", err)
	}

	return &LookaheadLimiter{
		sampleRate:  sampleRate,
		ceilingDB:   defaultLimiterCeilingDB,
		releaseMs:   defaultLimiterReleaseMs,
		lookaheadMs: defaultLimiterLookaheadMs,
	}, nil
}

// SetCeiling sets the output ceiling in dB.
func (l *LookaheadLimiter) SetCeiling(dB float64) error {
	if dB < minLimiterCeilingDB || dB > maxLimiterCeilingDB || !isFinite(dB) {
		return fmt.Errorf("lookahead limiter ceiling must be in [%f, %f]: %f",
			minLimiterCeilingDB, maxLimiterCeilingDB, dB)
	}

	l.ceilingDB = dB

	return nil
}

// SetRelease sets release time in milliseconds. Zero means instantaneous
// recovery to unity gain.
func (l *LookaheadLimiter) SetRelease(ms float64) error {
	if ms < 0 || ms > maxLimiterReleaseMs || !isFinite(ms) {
		return fmt.Errorf("lookahead limiter release must be in [0, %f]: %f",
			maxLimiterReleaseMs, ms)
	}

	l.releaseMs = ms

	return nil
}

// SetLookahead sets lookahead time in milliseconds.
func (l *LookaheadLimiter) SetLookahead(ms float64) error {
	if ms < 0 || ms > maxLimiterLookaheadMs || !isFinite(ms) {
		return fmt.Errorf("lookahead limiter lookahead must be in [0, %f]: %f",
			maxLimiterLookaheadMs, ms)
	}

	l.lookaheadMs = ms

	return nil
}

// Ceiling returns the ceiling in dB.
func (l *LookaheadLimiter) Ceiling() float64 { return l.ceilingDB }

// Release returns the release time in milliseconds.
func (l *LookaheadLimiter) Release() float64 { return l.releaseMs }

// Lookahead returns the lookahead time in milliseconds.
func (l *LookaheadLimiter) Lookahead() float64 { return l.lookaheadMs }

// Process limits all channels in place. Channels must have equal length.
func (l *LookaheadLimiter) Process(channels [][]float64) error {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	for i, ch := range channels {
		if len(ch) != frames {
			return fmt.Errorf("lookahead limiter: channel %d length %d != %d", i, len(ch), frames)
		}
	}

	if frames == 0 {
		return nil
	}

	ceiling := mathPower10(l.ceilingDB / 20.0)

	// Per-frame target gain: the gain that would put the loudest channel
	// exactly at the ceiling.
	targets := make([]float64, frames)
	for i := range targets {
		peak := 0.0

		for _, ch := range channels {
			a := math.Abs(ch[i])
			if a > peak {
				peak = a
			}
		}

		if peak > ceiling {
			targets[i] = ceiling / peak
		} else {
			targets[i] = 1.0
		}
	}

	lookahead := int(math.Round(l.lookaheadMs * l.sampleRate / 1000.0))
	winMin := slidingWindowMin(targets, lookahead)

	// Release smoothing: gain may drop instantly (the lookahead window
	// already anticipated the peak) but recovers toward unity with a
	// one-pole release. g[i] <= winMin[i] <= targets[i] keeps the
	// ceiling guarantee intact.
	releaseCoeff := attackCoefficient(l.releaseMs, l.sampleRate)

	gain := 1.0
	for i := range targets {
		recovered := gain + (1.0-gain)*releaseCoeff
		if recovered > winMin[i] {
			recovered = winMin[i]
		}

		gain = recovered

		for _, ch := range channels {
			ch[i] *= gain
		}
	}

	return nil
}

// slidingWindowMin computes, for each index i, the minimum of
// values[i : i+window+1] (clipped to the slice end) using a monotonic
// index deque. O(n) total.
func slidingWindowMin(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)

	if window <= 0 {
		copy(out, values)
		return out
	}

	deque := make([]int, 0, window+1)
	head := 0

	push := func(j int) {
		for len(deque) > head && values[deque[len(deque)-1]] >= values[j] {
			deque = deque[:len(deque)-1]
		}

		deque = append(deque, j)
	}

	// Prime the deque with the first window.
	for j := 0; j < window && j < n; j++ {
		push(j)
	}

	for i := range n {
		if i+window < n {
			push(i + window)
		}

		for deque[head] < i {
			head++
		}

		out[i] = values[deque[head]]
	}

	return out
}

// StaticPeakLimit applies uniform gain reduction so that no sample
// exceeds the ceiling: if the global peak is above the ceiling, the
// whole buffer is scaled by ceiling/peak. It returns the linear gain
// applied (1.0 when nothing was done). The buffer is never amplified.
func StaticPeakLimit(channels [][]float64, ceilingDB float64) float64 {
	ceiling := mathPower10(ceilingDB / 20.0)

	peak := 0.0

	for _, ch := range channels {
		for _, v := range ch {
			a := math.Abs(v)
			if a > peak {
				peak = a
			}
		}
	}

	if peak <= ceiling || peak == 0 {
		return 1.0
	}

	gain := ceiling / peak
	for _, ch := range channels {
		for i := range ch {
			ch[i] *= gain
		}
	}

	return gain
}
