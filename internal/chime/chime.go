package chime

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	toneSampleRate = beep.SampleRate(44100)
	toneDuration   = 90 * time.Millisecond
	toneGain       = 0.35
)

// tone is a short frequency sweep with a sine envelope.
type tone struct {
	from, to float64 // Hz
}

var (
	// Key-down: rising A5 -> E6. Key-up: falling E6 -> A5.
	pressTone   = tone{from: 880, to: 1319}
	releaseTone = tone{from: 1319, to: 880}
)

// Player plays the transmit-on and transmit-off cues.
type Player struct {
	startData []byte // custom WAV for key-down, nil = synthesized
	stopData  []byte // custom WAV for key-up, nil = synthesized
	enabled   bool
	logger    *log.Logger
	initOnce  sync.Once
	initErr   error
}

// New creates a Player. If startPath/stopPath are empty, synthesized tones are used.
// If enabled is false, PlayStart/PlayStop are no-ops.
func New(startPath, stopPath string, enabled bool, logger *log.Logger) (*Player, error) {
	p := &Player{enabled: enabled, logger: logger}

	if startPath != "" {
		data, err := readWAV(startPath)
		if err != nil {
			return nil, fmt.Errorf("start chime: %w", err)
		}
		p.startData = data
	}

	if stopPath != "" {
		data, err := readWAV(stopPath)
		if err != nil {
			return nil, fmt.Errorf("stop chime: %w", err)
		}
		p.stopData = data
	}

	return p, nil
}

// readWAV loads path and checks that it decodes as WAV.
func readWAV(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, _, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	_ = s.Close()
	return data, nil
}

// sweep returns a streamer for t lasting d at sample rate sr.
func sweep(t tone, sr beep.SampleRate, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			progress := float64(pos) / float64(total)
			freq := t.from + (t.to-t.from)*progress
			phase += 2 * math.Pi * freq / float64(sr)
			v := math.Sin(phase) * math.Sin(math.Pi*progress) * toneGain
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, true
	})
}

func (p *Player) initSpeaker(sr beep.SampleRate) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(sr, sr.N(time.Second/20))
	})
}

func (p *Player) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// streamer returns what to play for data, falling back to the synthesized t.
func (p *Player) streamer(data []byte, t tone) (beep.Streamer, func(), error) {
	if len(data) == 0 {
		return sweep(t, toneSampleRate, toneDuration), func() {}, nil
	}
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = s.Close() }
	if format.SampleRate != toneSampleRate {
		return beep.Resample(3, format.SampleRate, toneSampleRate, s), closeFn, nil
	}
	return s, closeFn, nil
}

func (p *Player) play(data []byte, t tone) {
	if !p.enabled {
		return
	}

	go func() {
		s, closeFn, err := p.streamer(data, t)
		if err != nil {
			p.logf("chime: wav decode error: %v", err)
			return
		}
		defer closeFn()

		p.initSpeaker(toneSampleRate)
		if p.initErr != nil {
			p.logf("chime: speaker init error: %v", p.initErr)
			return
		}

		done := make(chan struct{})
		speaker.Play(beep.Seq(s, beep.Callback(func() {
			close(done)
		})))
		<-done
	}()
}

// PlayStart plays the transmit-on cue (non-blocking).
func (p *Player) PlayStart() {
	p.play(p.startData, pressTone)
}

// PlayStop plays the transmit-off cue (non-blocking).
func (p *Player) PlayStop() {
	p.play(p.stopData, releaseTone)
}

