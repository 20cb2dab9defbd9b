package mastering

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
)

const successMessage = "mastering chain applied successfully"

// Pipeline orchestrates one mastering run: parse, read, process through
// the selected engine, write. The engine is selected once per run; only
// an unavailable primary engine triggers the fallback.
type Pipeline struct {
	primary  Engine
	fallback Engine
	log      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithEngines overrides the default engine pair.
func WithEngines(primary, fallback Engine) Option {
	return func(p *Pipeline) {
		p.primary = primary
		p.fallback = fallback
	}
}

// New builds a pipeline with the full engine as primary and the numeric
// fallback behind it.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		primary:  NewFullEngine(),
		fallback: NewFallbackEngine(),
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one request argument end to end. The returned Result is
// always populated; a non-nil error means the run failed and the result
// carries the error text.
func (p *Pipeline) Run(arg string) (Result, error) {
	req, err := ParseRequest(arg)
	if err != nil {
		return Failure(err), err
	}

	return p.RunRequest(req)
}

// RunRequest executes an already-parsed request.
func (p *Pipeline) RunRequest(req *Request) (Result, error) {
	buf, err := audiofile.Read(req.Input)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrProcessing, err)
		return Failure(err), err
	}

	engine, usedFallback, err := p.selectEngine()
	if err != nil {
		return Failure(err), err
	}

	p.log.Info("processing",
		zap.String("engine", engine.Name()),
		zap.String("input", req.Input),
		zap.Int("channels", buf.NumChannels()),
		zap.Int("sample_rate", buf.SampleRate))

	if err := engine.Process(buf, req.Params); err != nil {
		if !errors.Is(err, ErrProcessing) {
			err = fmt.Errorf("%w: %v", ErrProcessing, err)
		}

		return Failure(err), err
	}

	if err := audiofile.WriteWAV(req.Output, buf, req.BitDepth); err != nil {
		err = fmt.Errorf("%w: %v", ErrProcessing, err)
		return Failure(err), err
	}

	message := successMessage
	if usedFallback {
		message += " (fallback)"
	}

	return Success(req.Output, message), nil
}

// selectEngine probes the primary once and falls back only on the
// unavailable condition. Any other probe failure is terminal.
func (p *Pipeline) selectEngine() (engine Engine, usedFallback bool, err error) {
	probeErr := p.primary.Available()
	if probeErr == nil {
		return p.primary, false, nil
	}

	if !errors.Is(probeErr, ErrEngineUnavailable) {
		return nil, false, fmt.Errorf("%w: %v", ErrProcessing, probeErr)
	}

	p.log.Warn("primary engine unavailable, using fallback",
		zap.String("primary", p.primary.Name()),
		zap.Error(probeErr))

	return p.fallback, true, nil
}
