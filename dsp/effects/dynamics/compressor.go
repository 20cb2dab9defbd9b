package dynamics

import (
	"fmt"
	"math"
)

const (
	// Default compressor parameters
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorKneeDB      = 0.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0
	defaultCompressorMakeupDB    = 0.0

	// Parameter validation ranges
	minCompressorRatio    = 1.0
	maxCompressorRatio    = 100.0
	maxCompressorAttackMs = 1000.0
	maxCompressorReleaseMs = 5000.0
	minCompressorKneeDB   = 0.0
	maxCompressorKneeDB   = 24.0

	// log2Of10Div20 is the conversion factor for dB to log2: log2(10) / 20
	log2Of10Div20 = 0.166096404744
)

// Compressor implements a feedforward downward compressor with
// log2-domain gain calculation.
//
// The envelope follower is a peak detector with separate attack and
// release time constants. Above the threshold, levels are reduced so
// that output_dB = threshold_dB + overshoot_dB/ratio; an optional soft
// knee smooths the transition. The compressor is mono: for multichannel
// audio, instantiate one per channel.
//
// This implementation is single-threaded and not thread-safe.
type Compressor struct {
	thresholdDB  float64
	ratio        float64
	kneeDB       float64
	attackMs     float64
	releaseMs    float64
	makeupGainDB float64

	sampleRate float64

	// Envelope follower state
	envelope float64

	// Cached coefficients
	attackCoeff      float64
	releaseCoeff     float64
	thresholdLog2    float64
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
	makeupGainLin    float64
}

// NewCompressor creates a compressor with hard-knee defaults
// (-20 dB threshold, 4:1 ratio, 10 ms attack, 100 ms release).
//
// Sample rate must be positive and finite.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("compressor %w", err)
	}

	c := &Compressor{
		thresholdDB:  defaultCompressorThresholdDB,
		ratio:        defaultCompressorRatio,
		kneeDB:       defaultCompressorKneeDB,
		attackMs:     defaultCompressorAttackMs,
		releaseMs:    defaultCompressorReleaseMs,
		makeupGainDB: defaultCompressorMakeupDB,
		sampleRate:   sampleRate,
	}

	c.updateCoefficients()

	return c, nil
}

// SetThreshold sets compression threshold in dB.
// Signals above this level are compressed.
func (c *Compressor) SetThreshold(dB float64) error {
	if !isFinite(dB) {
		return fmt.Errorf("compressor threshold must be finite: %f", dB)
	}

	c.thresholdDB = dB
	c.updateCoefficients()

	return nil
}

// SetRatio sets compression ratio: 1.0 = no compression, 100 ≈ limiting.
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < minCompressorRatio || ratio > maxCompressorRatio || !isFinite(ratio) {
		return fmt.Errorf("compressor ratio must be in [%f, %f]: %f",
			minCompressorRatio, maxCompressorRatio, ratio)
	}

	c.ratio = ratio
	c.updateCoefficients()

	return nil
}

// SetKnee sets soft-knee width in dB. 0 dB = hard knee.
func (c *Compressor) SetKnee(kneeDB float64) error {
	if kneeDB < minCompressorKneeDB || kneeDB > maxCompressorKneeDB || !isFinite(kneeDB) {
		return fmt.Errorf("compressor knee must be in [%f, %f]: %f",
			minCompressorKneeDB, maxCompressorKneeDB, kneeDB)
	}

	c.kneeDB = kneeDB
	c.updateCoefficients()

	return nil
}

// SetAttack sets attack time in milliseconds. Zero means instantaneous.
func (c *Compressor) SetAttack(ms float64) error {
	if ms < 0 || ms > maxCompressorAttackMs || !isFinite(ms) {
		return fmt.Errorf("compressor attack must be in [0, %f]: %f",
			maxCompressorAttackMs, ms)
	}

	c.attackMs = ms
	c.updateTimeConstants()

	return nil
}

// SetRelease sets release time in milliseconds. Zero means instantaneous.
func (c *Compressor) SetRelease(ms float64) error {
	if ms < 0 || ms > maxCompressorReleaseMs || !isFinite(ms) {
		return fmt.Errorf("compressor release must be in [0, %f]: %f",
			maxCompressorReleaseMs, ms)
	}

	c.releaseMs = ms
	c.updateTimeConstants()

	return nil
}

// SetMakeupGain sets flat makeup gain in dB applied after compression.
func (c *Compressor) SetMakeupGain(dB float64) error {
	if !isFinite(dB) {
		return fmt.Errorf("compressor makeup gain must be finite: %f", dB)
	}

	c.makeupGainDB = dB
	c.updateCoefficients()

	return nil
}

// Threshold returns the current threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Attack returns the current attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the current release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// MakeupGain returns the current makeup gain in dB.
func (c *Compressor) MakeupGain() float64 { return c.makeupGainDB }

// ProcessSample processes one sample through the compressor.
func (c *Compressor) ProcessSample(input float64) float64 {
	inputLevel := math.Abs(input)

	if inputLevel > c.envelope {
		// Attack phase
		c.envelope += (inputLevel - c.envelope) * c.attackCoeff
	} else {
		// Release phase
		c.envelope = inputLevel + (c.envelope-inputLevel)*c.releaseCoeff
	}

	return input * c.gainForLevel(c.envelope) * c.makeupGainLin
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// Reset clears envelope follower state.
func (c *Compressor) Reset() {
	c.envelope = 0
}

// gainForLevel computes the gain multiplier for a detector level using
// the log2-domain gain computer.
func (c *Compressor) gainForLevel(level float64) float64 {
	if level <= 0 {
		return 1.0
	}

	levelLog2 := mathLog2(level)
	overshoot := levelLog2 - c.thresholdLog2
	compressionFactor := 1.0 - 1.0/c.ratio

	if c.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1.0
		}

		return mathPower2(-overshoot * compressionFactor)
	}

	halfWidth := c.kneeWidthLog2 * 0.5

	var effectiveOvershoot float64

	switch {
	case overshoot < -halfWidth:
		return 1.0
	case overshoot > halfWidth:
		effectiveOvershoot = overshoot
	default:
		// Quadratic smoothing inside the knee: (overshoot + w/2)^2 / (2w)
		scratch := overshoot + halfWidth
		effectiveOvershoot = scratch * scratch * 0.5 * c.invKneeWidthLog2
	}

	return mathPower2(-effectiveOvershoot * compressionFactor)
}

func (c *Compressor) updateCoefficients() {
	c.thresholdLog2 = c.thresholdDB * log2Of10Div20

	c.kneeWidthLog2 = c.kneeDB * log2Of10Div20
	if c.kneeDB > 0 {
		c.invKneeWidthLog2 = 1.0 / c.kneeWidthLog2
	} else {
		c.invKneeWidthLog2 = 0
	}

	c.makeupGainLin = mathPower10(c.makeupGainDB / 20.0)

	c.updateTimeConstants()
}

func (c *Compressor) updateTimeConstants() {
	c.attackCoeff = attackCoefficient(c.attackMs, c.sampleRate)
	c.releaseCoeff = releaseCoefficient(c.releaseMs, c.sampleRate)
}

// attackCoefficient converts an attack time to a one-pole rise coefficient.
// A zero time yields an instantaneous detector.
func attackCoefficient(ms, sampleRate float64) float64 {
	if ms <= 0 {
		return 1.0
	}

	return 1.0 - math.Exp(-math.Ln2/(ms*0.001*sampleRate))
}

// releaseCoefficient converts a release time to a one-pole fall coefficient.
// A zero time yields an instantaneous detector.
func releaseCoefficient(ms, sampleRate float64) float64 {
	if ms <= 0 {
		return 0.0
	}

	return math.Exp(-math.Ln2 / (ms * 0.001 * sampleRate))
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	return nil
}

func isFinite(v float64) bool {
	return !(math.IsNaN(v) || math.IsInf(v, 0))
}
