package mastering

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
)

// Band type names accepted in a request.
const (
	BandPeak      = "peak"
	BandLowShelf  = "low_shelf"
	BandHighShelf = "high_shelf"
)

const defaultQ = 0.707

// maxStereoWidth mirrors the widener's upper bound.
const maxStereoWidth = 4.0

// EqBand is one parametric EQ stage, applied in request order.
type EqBand struct {
	FrequencyHz float64
	GainDB      float64
	Q           float64
	Type        string
}

// Compression configures the dynamics stage. A nil value in Params means
// the stage is skipped entirely.
type Compression struct {
	ThresholdDB  float64
	Ratio        float64
	AttackMs     float64
	ReleaseMs    float64
	MakeupGainDB float64
}

// Limiter configures the output peak limiter.
type Limiter struct {
	Enabled   bool
	CeilingDB float64
	ReleaseMs float64
}

// Params holds the processing parameters with all defaults filled in.
type Params struct {
	EQ          []EqBand
	Compression *Compression
	Width       float64
	Limiter     Limiter
	TargetLUFS  float64
}

// Request is the validated, immutable form of one mastering invocation.
type Request struct {
	Input    string
	Output   string
	BitDepth int
	Params   Params
}

// Raw wire forms. Pointer fields distinguish absent from zero so the
// defaulting rules in applyDefaults stay explicit.
type rawRequest struct {
	Input    *string   `json:"input"`
	Output   *string   `json:"output"`
	BitDepth *int      `json:"bit_depth"`
	Params   rawParams `json:"params"`
}

type rawParams struct {
	EQ          []rawEqBand     `json:"eq"`
	Compression *rawCompression `json:"compression"`
	Stereo      *rawStereo      `json:"stereo"`
	Limiter     *rawLimiter     `json:"limiter"`
	TargetLUFS  *float64        `json:"target_lufs"`
	Preset      *string         `json:"preset"`
}

type rawEqBand struct {
	FrequencyHz *float64 `json:"frequency"`
	GainDB      *float64 `json:"gain_db"`
	Q           *float64 `json:"q"`
	Type        *string  `json:"band_type"`
}

type rawCompression struct {
	ThresholdDB  *float64 `json:"threshold_db"`
	Ratio        *float64 `json:"ratio"`
	AttackMs     *float64 `json:"attack_ms"`
	ReleaseMs    *float64 `json:"release_ms"`
	MakeupGainDB *float64 `json:"makeup_gain_db"`
}

type rawStereo struct {
	Width *float64 `json:"width"`
}

type rawLimiter struct {
	Enabled   *bool    `json:"enabled"`
	CeilingDB *float64 `json:"ceiling_db"`
	ReleaseMs *float64 `json:"release_ms"`
}

// ParseRequest decodes and validates the single JSON request argument.
// Missing optional fields take documented defaults; missing input or
// output paths fail validation, and a nonexistent input file is reported
// separately so callers can distinguish the two.
func ParseRequest(arg string) (*Request, error) {
	if arg == "" {
		return nil, ErrNoArgument
	}

	var raw rawRequest
	if err := json.Unmarshal([]byte(arg), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoArgument, err)
	}

	if raw.Input == nil || *raw.Input == "" {
		return nil, fmt.Errorf("%w: missing input path", ErrValidation)
	}

	if raw.Output == nil || *raw.Output == "" {
		return nil, fmt.Errorf("%w: missing output path", ErrValidation)
	}

	if _, err := os.Stat(*raw.Input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, *raw.Input)
	}

	req := &Request{
		Input:    *raw.Input,
		Output:   *raw.Output,
		BitDepth: audiofile.DefaultBitDepth,
	}

	if raw.BitDepth != nil {
		req.BitDepth = audiofile.NormalizeBitDepth(*raw.BitDepth)
	}

	params, err := buildParams(raw.Params)
	if err != nil {
		return nil, err
	}

	req.Params = params

	return req, nil
}

func buildParams(raw rawParams) (Params, error) {
	params := Params{
		Width: 1.0,
		Limiter: Limiter{
			Enabled:   true,
			CeilingDB: -1.0,
			ReleaseMs: 50,
		},
		TargetLUFS: DefaultTargetLUFS,
	}

	for i, band := range raw.EQ {
		built, err := buildEqBand(i, band)
		if err != nil {
			return Params{}, err
		}

		params.EQ = append(params.EQ, built)
	}

	if raw.Compression != nil {
		comp, err := buildCompression(*raw.Compression)
		if err != nil {
			return Params{}, err
		}

		params.Compression = &comp
	}

	if raw.Stereo != nil && raw.Stereo.Width != nil {
		// Matches the widener's own range so an out-of-bounds width is
		// rejected here instead of mid-processing.
		if *raw.Stereo.Width < 0 || *raw.Stereo.Width > maxStereoWidth {
			return Params{}, fmt.Errorf("%w: stereo width must be in [0, %g]: %f",
				ErrValidation, maxStereoWidth, *raw.Stereo.Width)
		}

		params.Width = *raw.Stereo.Width
	}

	if raw.Limiter != nil {
		if raw.Limiter.Enabled != nil {
			params.Limiter.Enabled = *raw.Limiter.Enabled
		}

		if raw.Limiter.CeilingDB != nil {
			if *raw.Limiter.CeilingDB > 0 || *raw.Limiter.CeilingDB < -60 {
				return Params{}, fmt.Errorf("%w: limiter ceiling must be in [-60, 0] dB: %f",
					ErrValidation, *raw.Limiter.CeilingDB)
			}

			params.Limiter.CeilingDB = *raw.Limiter.CeilingDB
		}

		if raw.Limiter.ReleaseMs != nil {
			if *raw.Limiter.ReleaseMs < 0 {
				return Params{}, fmt.Errorf("%w: limiter release must be >= 0: %f",
					ErrValidation, *raw.Limiter.ReleaseMs)
			}

			params.Limiter.ReleaseMs = *raw.Limiter.ReleaseMs
		}
	}

	switch {
	case raw.Preset != nil:
		target, ok := PresetTarget(*raw.Preset)
		if !ok {
			return Params{}, fmt.Errorf("%w: unknown preset %q", ErrValidation, *raw.Preset)
		}

		params.TargetLUFS = target
	case raw.TargetLUFS != nil:
		params.TargetLUFS = *raw.TargetLUFS
	}

	return params, nil
}

func buildEqBand(index int, raw rawEqBand) (EqBand, error) {
	if raw.FrequencyHz == nil || *raw.FrequencyHz <= 0 {
		return EqBand{}, fmt.Errorf("%w: eq band %d requires frequency > 0", ErrValidation, index)
	}

	band := EqBand{
		FrequencyHz: *raw.FrequencyHz,
		Q:           defaultQ,
		Type:        BandPeak,
	}

	if raw.GainDB != nil {
		band.GainDB = *raw.GainDB
	}

	if raw.Q != nil {
		if *raw.Q <= 0 {
			return EqBand{}, fmt.Errorf("%w: eq band %d requires q > 0: %f",
				ErrValidation, index, *raw.Q)
		}

		band.Q = *raw.Q
	}

	if raw.Type != nil {
		switch *raw.Type {
		case BandPeak, BandLowShelf, BandHighShelf:
			band.Type = *raw.Type
		default:
			return EqBand{}, fmt.Errorf("%w: eq band %d has unknown band_type %q",
				ErrValidation, index, *raw.Type)
		}
	}

	return band, nil
}

func buildCompression(raw rawCompression) (Compression, error) {
	comp := Compression{
		ThresholdDB: -20,
		Ratio:       4,
		AttackMs:    10,
		ReleaseMs:   100,
	}

	if raw.ThresholdDB != nil {
		comp.ThresholdDB = *raw.ThresholdDB
	}

	if raw.Ratio != nil {
		if *raw.Ratio < 1 {
			return Compression{}, fmt.Errorf("%w: compression ratio must be >= 1: %f",
				ErrValidation, *raw.Ratio)
		}

		comp.Ratio = *raw.Ratio
	}

	if raw.AttackMs != nil {
		if *raw.AttackMs < 0 {
			return Compression{}, fmt.Errorf("%w: compression attack must be >= 0: %f",
				ErrValidation, *raw.AttackMs)
		}

		comp.AttackMs = *raw.AttackMs
	}

	if raw.ReleaseMs != nil {
		if *raw.ReleaseMs < 0 {
			return Compression{}, fmt.Errorf("%w: compression release must be >= 0: %f",
				ErrValidation, *raw.ReleaseMs)
		}

		comp.ReleaseMs = *raw.ReleaseMs
	}

	if raw.MakeupGainDB != nil {
		comp.MakeupGainDB = *raw.MakeupGainDB
	}

	return comp, nil
}
