package spatial

import "fmt"

const (
	minWidth = 0.0
	maxWidth = 4.0
)

// StereoWidener scales the side component of a stereo signal relative to
// the mid component. A width of 1 leaves the signal unchanged, 0 collapses
// it to mono, and values above 1 widen the image.
type StereoWidener struct {
	width float64
}

// NewStereoWidener creates a widener with the given width factor.
func NewStereoWidener(width float64) (*StereoWidener, error) {
	w := &StereoWidener{}
	if err := w.SetWidth(width); err != nil {
		return nil, err
	}

	return w, nil
}

// SetWidth sets the side scaling factor.
func (w *StereoWidener) SetWidth(width float64) error {
	if width < minWidth || width > maxWidth || width != width {
		return fmt.Errorf("stereo widener width must be in [%f, %f]: %f",
			minWidth, maxWidth, width)
	}

	w.width = width

	return nil
}

// Width returns the current side scaling factor.
func (w *StereoWidener) Width() float64 { return w.width }

// ProcessStereoInPlace rewrites both channels through a mid/side matrix.
// A width of exactly 1 is a no-op and preserves the input bit for bit.
func (w *StereoWidener) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("stereo widener: channel lengths differ: %d != %d",
			len(left), len(right))
	}

	if w.width == 1.0 {
		return nil
	}

	for i := range left {
		mid := (left[i] + right[i]) * 0.5
		side := (left[i] - right[i]) * 0.5 * w.width

		left[i] = mid + side
		right[i] = mid - side
	}

	return nil
}
