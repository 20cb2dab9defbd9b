package mastering

// DefaultTargetLUFS is used when neither a target nor a preset is given.
const DefaultTargetLUFS = -14.0

// presetTargets maps preset names to their target loudness in LUFS.
var presetTargets = map[string]float64{
	"streaming": -14.0,
	"cd":        -9.0,
	"vinyl":     -12.0,
	"loud":      -6.0,
}

// PresetTarget returns the target loudness for a named preset.
func PresetTarget(name string) (float64, bool) {
	target, ok := presetTargets[name]
	return target, ok
}
