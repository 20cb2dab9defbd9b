package audiofile

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1

	// DefaultBitDepth is used when the requested depth is unsupported.
	DefaultBitDepth = 24
)

// NormalizeBitDepth maps a requested bit depth to a supported one.
// 16 and 24 produce integer PCM, 32 produces IEEE float. Anything else
// falls back to DefaultBitDepth.
func NormalizeBitDepth(bits int) int {
	switch bits {
	case 16, 24, 32:
		return bits
	default:
		return DefaultBitDepth
	}
}

// WriteWAV encodes the buffer to path at the given bit depth.
func WriteWAV(path string, buf *Buffer, bitDepth int) error {
	if buf == nil || buf.NumChannels() == 0 {
		return fmt.Errorf("audiofile: write %s: empty buffer", path)
	}

	bitDepth = NormalizeBitDepth(bitDepth)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: create %s: %w", path, err)
	}
	defer f.Close()

	if bitDepth == 32 {
		return writeFloat(f, path, buf)
	}

	return writePCM(f, path, buf, bitDepth)
}

func writePCM(f *os.File, path string, buf *Buffer, bitDepth int) error {
	enc := wav.NewEncoder(f, buf.SampleRate, bitDepth, buf.NumChannels(), wavFormatPCM)

	fullScale := float64(int64(1)<<(bitDepth-1)) - 1
	interleaved := interleave(buf.Channels)

	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = clampToInt(v, fullScale)
	}

	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: buf.NumChannels(),
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("audiofile: write %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: close %s: %w", path, err)
	}

	return nil
}

func writeFloat(f *os.File, path string, buf *Buffer) error {
	channels := buf.NumChannels()
	enc := wav.NewEncoder(f, buf.SampleRate, 32, channels, wavFormatIEEEFloat)

	// The encoder counts one frame per WriteFrame call, so each call must
	// carry all channel samples or the declared data-chunk size ends up
	// a multiple of the actual payload.
	interleaved := interleave(buf.Channels)
	frame := make([]float32, channels)

	for i := 0; i < len(interleaved); i += channels {
		for c := range frame {
			frame[c] = float32(interleaved[i+c])
		}

		if err := enc.WriteFrame(frame); err != nil {
			return fmt.Errorf("audiofile: write %s: %w", path, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: close %s: %w", path, err)
	}

	return nil
}

func clampToInt(v, fullScale float64) int {
	s := v * fullScale

	if s > fullScale {
		s = fullScale
	}

	if s < -fullScale-1 {
		s = -fullScale - 1
	}

	if s >= 0 {
		return int(s + 0.5)
	}

	return int(s - 0.5)
}
