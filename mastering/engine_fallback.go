package mastering

import (
	"github.com/KEYHAN-A/AudioMaster/audiofile"
	"github.com/KEYHAN-A/AudioMaster/dsp/effects/dynamics"
)

// FallbackEngine is the reduced numeric path: stereo width, loudness
// normalization, and a static peak limit. It runs no EQ and no
// time-varying dynamics, and it has no external requirements.
type FallbackEngine struct{}

// NewFallbackEngine returns the always-available degraded engine.
func NewFallbackEngine() *FallbackEngine { return &FallbackEngine{} }

// Name identifies the engine in diagnostics.
func (e *FallbackEngine) Name() string { return "fallback" }

// Available always succeeds; the fallback is the path of last resort.
func (e *FallbackEngine) Available() error { return nil }

// Process mutates the buffer in place through the reduced chain.
func (e *FallbackEngine) Process(buf *audiofile.Buffer, params Params) error {
	if err := applyStereoWidth(buf, params.Width); err != nil {
		return err
	}

	applyLoudnessNormalization(buf, params.TargetLUFS)

	if params.Limiter.Enabled {
		dynamics.StaticPeakLimit(buf.Channels, params.Limiter.CeilingDB)
	}

	return nil
}
