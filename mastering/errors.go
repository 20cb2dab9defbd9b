package mastering

import "errors"

// Error taxonomy for a mastering run. ErrEngineUnavailable is the only
// kind recovered locally (by switching to the fallback engine); all
// others terminate the run.
var (
	// ErrNoArgument reports a missing or malformed request argument.
	ErrNoArgument = errors.New("no request argument")

	// ErrValidation reports a request missing required fields or
	// carrying out-of-range values.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound reports a nonexistent input file.
	ErrNotFound = errors.New("input not found")

	// ErrEngineUnavailable reports that the full processing engine
	// cannot run in this environment.
	ErrEngineUnavailable = errors.New("dsp engine unavailable")

	// ErrProcessing reports any failure during stage execution or I/O.
	ErrProcessing = errors.New("processing failed")
)
