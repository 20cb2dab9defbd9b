package mastering

import (
	"fmt"
	"math"
	"os"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
	"github.com/KEYHAN-A/AudioMaster/dsp/core"
	"github.com/KEYHAN-A/AudioMaster/dsp/effects/dynamics"
	"github.com/KEYHAN-A/AudioMaster/dsp/effects/spatial"
	"github.com/KEYHAN-A/AudioMaster/dsp/filter/biquad"
	"github.com/KEYHAN-A/AudioMaster/dsp/filter/design"
	"github.com/KEYHAN-A/AudioMaster/measure/loudness"
)

// Gains below this magnitude are treated as no-ops and their stages are
// never built.
const negligibleGainDB = 0.1

// widthIdentityTolerance keeps the common width=1 case bit-exact.
const widthIdentityTolerance = 0.01

// FullEngine runs the complete chain: stereo width, EQ filter bank,
// dynamics, loudness normalization, and lookahead limiting.
type FullEngine struct{}

// NewFullEngine returns the full-featured engine.
func NewFullEngine() *FullEngine { return &FullEngine{} }

// Name identifies the engine in diagnostics.
func (e *FullEngine) Name() string { return "full" }

// Available reports whether the full chain may run. The force-fallback
// environment variable disables it.
func (e *FullEngine) Available() error {
	if os.Getenv(ForceFallbackEnv) != "" {
		return fmt.Errorf("%w: %s is set", ErrEngineUnavailable, ForceFallbackEnv)
	}

	return nil
}

// Process mutates the buffer in place through all five stages.
func (e *FullEngine) Process(buf *audiofile.Buffer, params Params) error {
	if err := applyStereoWidth(buf, params.Width); err != nil {
		return err
	}

	if err := applyFilterBank(buf, params.EQ); err != nil {
		return err
	}

	if err := applyDynamics(buf, params.Compression); err != nil {
		return err
	}

	applyLoudnessNormalization(buf, params.TargetLUFS)

	return applyLookaheadLimit(buf, params.Limiter)
}

// applyStereoWidth runs only on exactly two channels and only when the
// width differs measurably from unity.
func applyStereoWidth(buf *audiofile.Buffer, width float64) error {
	if buf.NumChannels() != 2 || math.Abs(width-1.0) <= widthIdentityTolerance {
		return nil
	}

	w, err := spatial.NewStereoWidener(width)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	if err := w.ProcessStereoInPlace(buf.Channels[0], buf.Channels[1]); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	return nil
}

// applyFilterBank cascades one biquad per non-trivial band, in request
// order, with independent filter state per channel.
func applyFilterBank(buf *audiofile.Buffer, bands []EqBand) error {
	coeffs := buildBandCoefficients(bands, float64(buf.SampleRate))
	if len(coeffs) == 0 {
		return nil
	}

	for _, ch := range buf.Channels {
		biquad.NewChain(coeffs).ProcessBlock(ch)
	}

	return nil
}

// buildBandCoefficients drops bands with negligible gain so the hot loop
// stays branch-free.
func buildBandCoefficients(bands []EqBand, sampleRate float64) []biquad.Coefficients {
	var coeffs []biquad.Coefficients

	for _, band := range bands {
		if math.Abs(band.GainDB) < negligibleGainDB {
			continue
		}

		var c biquad.Coefficients

		switch band.Type {
		case BandLowShelf:
			c = design.LowShelf(band.FrequencyHz, band.GainDB, band.Q, sampleRate)
		case BandHighShelf:
			c = design.HighShelf(band.FrequencyHz, band.GainDB, band.Q, sampleRate)
		default:
			c = design.Peak(band.FrequencyHz, band.GainDB, band.Q, sampleRate)
		}

		// Bands at or above Nyquist design to all-zero coefficients;
		// dropping them beats silencing the signal.
		if c == (biquad.Coefficients{}) {
			continue
		}

		coeffs = append(coeffs, c)
	}

	return coeffs
}

// applyDynamics compresses each channel with identical settings. A nil
// configuration skips the stage.
func applyDynamics(buf *audiofile.Buffer, comp *Compression) error {
	if comp == nil {
		return nil
	}

	makeup := comp.MakeupGainDB
	if math.Abs(makeup) < negligibleGainDB {
		makeup = 0
	}

	for _, ch := range buf.Channels {
		c, err := newCompressor(float64(buf.SampleRate), comp, makeup)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProcessing, err)
		}

		c.ProcessInPlace(ch)
	}

	return nil
}

func newCompressor(sampleRate float64, comp *Compression, makeupDB float64) (*dynamics.Compressor, error) {
	c, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, err
	}

	if err := c.SetThreshold(comp.ThresholdDB); err != nil {
		return nil, err
	}

	if err := c.SetRatio(comp.Ratio); err != nil {
		return nil, err
	}

	if err := c.SetAttack(comp.AttackMs); err != nil {
		return nil, err
	}

	if err := c.SetRelease(comp.ReleaseMs); err != nil {
		return nil, err
	}

	if err := c.SetMakeupGain(makeupDB); err != nil {
		return nil, err
	}

	return c, nil
}

// applyLoudnessNormalization moves the RMS loudness estimate toward the
// target with a gain clamped to ±12 dB. Near-silent buffers are skipped.
func applyLoudnessNormalization(buf *audiofile.Buffer, targetLUFS float64) {
	estimate, ok := loudness.ApproxLUFS(loudness.RMS(buf.Channels))
	if !ok {
		return
	}

	gainDB := loudness.NormalizationGainDB(estimate, targetLUFS)
	core.ScaleInPlace(buf.Channels, core.DBToLinear(gainDB))
}

func applyLookaheadLimit(buf *audiofile.Buffer, lim Limiter) error {
	if !lim.Enabled {
		return nil
	}

	l, err := dynamics.NewLookaheadLimiter(float64(buf.SampleRate))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	if err := l.SetCeiling(lim.CeilingDB); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	if err := l.SetRelease(lim.ReleaseMs); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	if err := l.Process(buf.Channels); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	return nil
}
