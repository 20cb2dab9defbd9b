package mastering

import "github.com/KEYHAN-A/AudioMaster/audiofile"

// ForceFallbackEnv disables the full engine when set, forcing the
// degraded numeric path. Used operationally and in tests.
const ForceFallbackEnv = "MASTERFX_FORCE_FALLBACK"

// Engine runs one processing chain over a buffer in place. Available
// reports whether the engine can run in this environment; an engine that
// is unavailable is skipped in favor of the fallback, it is not an error
// for the run.
type Engine interface {
	Name() string
	Available() error
	Process(buf *audiofile.Buffer, params Params) error
}
