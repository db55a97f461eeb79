// Package capture records the microphone while the push-to-talk key is held.
package capture

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
)

var (
	ErrBusy     = errors.New("capture already in progress")
	ErrIdle     = errors.New("no capture in progress")
	ErrNoSignal = errors.New("no audio captured")
)

// Clip is one transmit episode encoded as mono 16-bit WAV.
type Clip struct {
	WAV        []byte
	SampleRate int
	Duration   time.Duration
	Truncated  bool // hit the max duration before the key was released
}

// Recorder captures audio from the default input device between Begin and End.
type Recorder struct {
	mu       sync.Mutex
	stream   *portaudio.Stream
	samples  []int16
	active   bool
	capped   bool
	stop     chan struct{}
	stopped  chan struct{}
	began    time.Time
	inRate   float64
	inChans  int
	outRate  int
	maxSecs  int
	levelBit atomic.Uint64 // float64 bits of the last chunk's RMS
}

// New creates a Recorder for the default input device.
// portaudio.Initialize must have been called.
func New(targetSampleRate, maxDurationSec int) (*Recorder, error) {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("default input device: %w", err)
	}
	chans := dev.MaxInputChannels
	if chans > 2 {
		chans = 2
	}
	if chans < 1 {
		chans = 1
	}
	return &Recorder{
		inRate:  dev.DefaultSampleRate,
		inChans: chans,
		outRate: targetSampleRate,
		maxSecs: maxDurationSec,
	}, nil
}

// Begin opens the input stream and starts buffering.
func (r *Recorder) Begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A capped capture has stopped reading but still owns its stream
	// until End collects it.
	if r.active || r.stream != nil {
		return ErrBusy
	}

	frames := int(r.inRate / 10)
	chunk := make([]int16, frames*r.inChans)
	stream, err := portaudio.OpenDefaultStream(r.inChans, 0, r.inRate, frames, &chunk)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	r.stream = stream
	r.samples = r.samples[:0]
	r.capped = false
	r.began = time.Now()
	r.active = true
	r.stop = make(chan struct{})
	r.stopped = make(chan struct{})

	go r.read(stream, chunk, r.stop, r.stopped)
	return nil
}

func (r *Recorder) read(stream *portaudio.Stream, chunk []int16, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	limit := int(r.inRate) * r.maxSecs

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			return
		}

		mono := downmix(chunk, r.inChans)
		r.levelBit.Store(math.Float64bits(rms(mono)))

		r.mu.Lock()
		if !r.active {
			r.mu.Unlock()
			return
		}
		r.samples = append(r.samples, mono...)
		if limit > 0 && len(r.samples) >= limit {
			r.capped = true
			r.active = false
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

// End closes the stream and returns the episode as a Clip.
// A capture that stopped itself at the max duration is still returned.
func (r *Recorder) End() (Clip, error) {
	r.mu.Lock()
	if !r.active && !r.capped && r.stream == nil {
		r.mu.Unlock()
		return Clip{}, ErrIdle
	}
	r.active = false
	stop, stopped, stream := r.stop, r.stopped, r.stream
	r.stream = nil
	r.mu.Unlock()

	// The reader must be gone before the stream is closed under it.
	close(stop)
	<-stopped
	if stream != nil {
		stream.Stop()
		stream.Close()
	}
	r.levelBit.Store(0)

	r.mu.Lock()
	samples := append([]int16(nil), r.samples...)
	clip := Clip{
		SampleRate: r.outRate,
		Duration:   time.Since(r.began),
		Truncated:  r.capped,
	}
	r.capped = false
	inRate := r.inRate
	r.mu.Unlock()

	if len(samples) == 0 {
		return clip, ErrNoSignal
	}

	samples, err := Resample(samples, inRate, float64(clip.SampleRate))
	if err != nil {
		return clip, fmt.Errorf("resample: %w", err)
	}
	if clip.WAV, err = EncodeWAV(samples, clip.SampleRate); err != nil {
		return clip, fmt.Errorf("encode wav: %w", err)
	}
	return clip, nil
}

// Level returns the RMS of the most recent chunk in [0, 1].
func (r *Recorder) Level() float64 {
	return math.Float64frombits(r.levelBit.Load())
}

// Available reports whether PortAudio can see an input device.
func Available() bool {
	dev, err := portaudio.DefaultInputDevice()
	return err == nil && dev != nil && dev.MaxInputChannels > 0
}

// downmix averages interleaved stereo frames. Mono input is returned as is.
func downmix(buf []int16, channels int) []int16 {
	if channels != 2 {
		return buf
	}
	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = int16((int32(buf[2*i]) + int32(buf[2*i+1])) / 2)
	}
	return out
}

func rms(buf []int16) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, s := range buf {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}
