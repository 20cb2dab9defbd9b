// Package audiofile reads and writes audio files as deinterleaved float64
// buffers. WAV, MP3, and Ogg Vorbis are supported for reading; writing
// always produces WAV.
package audiofile

import "fmt"

// Buffer holds deinterleaved audio samples in the range [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		SampleRate: b.SampleRate,
		Channels:   make([][]float64, len(b.Channels)),
	}

	for i, ch := range b.Channels {
		out.Channels[i] = append([]float64(nil), ch...)
	}

	return out
}

// deinterleave splits interleaved samples into per-channel slices.
func deinterleave(interleaved []float64, channels int) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("audiofile: channel count must be > 0: %d", channels)
	}

	frames := len(interleaved) / channels

	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
		for i := range out[c] {
			out[c][i] = interleaved[i*channels+c]
		}
	}

	return out, nil
}

// interleave merges per-channel slices into one interleaved slice.
func interleave(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	out := make([]float64, frames*len(channels))

	for c, ch := range channels {
		for i := 0; i < frames && i < len(ch); i++ {
			out[i*len(channels)+c] = ch[i]
		}
	}

	return out
}
