package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// wavFormatIEEEFloat is the WAVE format tag for 32-bit float samples.
const wavFormatIEEEFloat = 3

// Read decodes an audio file into a Buffer, dispatching on the file
// extension. Supported extensions are .wav, .wave, .mp3, .ogg, and .oga.
func Read(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return readWAV(f)
	case ".mp3":
		return readMP3(f)
	case ".ogg", ".oga":
		return readOgg(f)
	default:
		return nil, fmt.Errorf("audiofile: unsupported format %q", filepath.Ext(path))
	}
}

func readWAV(f *os.File) (*Buffer, error) {
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("audiofile: %s is not a valid WAV file", f.Name())
	}

	if d.WavAudioFormat == wavFormatIEEEFloat {
		return readWAVFloat(d, f.Name())
	}

	ib, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", f.Name(), err)
	}

	bits := int(d.BitDepth)
	if ib.SourceBitDepth > 0 {
		bits = ib.SourceBitDepth
	}

	scale := 1.0 / float64(int64(1)<<(bits-1))

	interleaved := make([]float64, len(ib.Data))
	for i, v := range ib.Data {
		interleaved[i] = float64(v) * scale
	}

	channels, err := deinterleave(interleaved, ib.Format.NumChannels)
	if err != nil {
		return nil, err
	}

	return &Buffer{SampleRate: ib.Format.SampleRate, Channels: channels}, nil
}

// readWAVFloat handles 32-bit IEEE float WAV data, which the PCM buffer
// path would misread as integers.
func readWAVFloat(d *wav.Decoder, name string) (*Buffer, error) {
	if d.BitDepth != 32 {
		return nil, fmt.Errorf("audiofile: %s: unsupported float bit depth %d", name, d.BitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("audiofile: %s: %w", name, err)
	}

	raw := make([]byte, d.PCMChunk.Size)
	if _, err := io.ReadFull(d.PCMChunk, raw); err != nil {
		return nil, fmt.Errorf("audiofile: %s: read float samples: %w", name, err)
	}

	interleaved := make([]float64, len(raw)/4)
	for i := range interleaved {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		interleaved[i] = float64(math.Float32frombits(bits))
	}

	channels, err := deinterleave(interleaved, int(d.NumChans))
	if err != nil {
		return nil, err
	}

	return &Buffer{SampleRate: int(d.SampleRate), Channels: channels}, nil
}

func readMP3(f *os.File) (*Buffer, error) {
	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", f.Name(), err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", f.Name(), err)
	}

	const scale = 1.0 / 32768.0

	interleaved := make([]float64, len(raw)/2)
	for i := range interleaved {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		interleaved[i] = float64(v) * scale
	}

	channels, err := deinterleave(interleaved, 2)
	if err != nil {
		return nil, err
	}

	return &Buffer{SampleRate: d.SampleRate(), Channels: channels}, nil
}

func readOgg(f *os.File) (*Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", f.Name(), err)
	}

	interleaved := make([]float64, len(samples))
	for i, v := range samples {
		interleaved[i] = float64(v)
	}

	channels, err := deinterleave(interleaved, format.Channels)
	if err != nil {
		return nil, err
	}

	return &Buffer{SampleRate: format.SampleRate, Channels: channels}, nil
}
