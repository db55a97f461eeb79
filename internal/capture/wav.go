package capture

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono PCM from inRate to outRate with a polyphase FIR.
func Resample(samples []int16, inRate, outRate float64) ([]int16, error) {
	if inRate == outRate || len(samples) == 0 {
		return samples, nil
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s) / 32768.0
	}

	res, err := resampling.ResampleMono(in, inRate, outRate, resampling.QualityLow)
	if err != nil {
		return nil, fmt.Errorf("resample mono: %w", err)
	}

	out := make([]int16, len(res))
	for i, f := range res {
		out[i] = int16(math.Round(math.Max(-32768, math.Min(32767, f*32768.0))))
	}
	return out, nil
}

// memFile is the io.WriteSeeker the WAV encoder needs to patch its header.
type memFile struct {
	data []byte
	off  int
}

func (m *memFile) Write(p []byte) (int, error) {
	if need := m.off + len(p); need > len(m.data) {
		m.data = append(m.data, make([]byte, need-len(m.data))...)
	}
	m.off += copy(m.data[m.off:], p)
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	base := 0
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = m.off
	case io.SeekEnd:
		base = len(m.data)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + int(offset)
	if next < 0 || next > len(m.data) {
		return 0, fmt.Errorf("seek to %d outside [0, %d]", next, len(m.data))
	}
	m.off = next
	return int64(next), nil
}

// EncodeWAV encodes mono 16-bit PCM in memory.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	buf := &audio.IntBuffer{
		Data:           make([]int, len(samples)),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	f := &memFile{}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return f.data, nil
}
