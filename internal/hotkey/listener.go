package hotkey

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/Danondso/pttkey/internal/ptthook"
)

// eventBuffer is how many key events may queue between the key source and
// the onDown/onUp callbacks before new ones are dropped.
const eventBuffer = 64

// Listener listens for global push-to-talk press/release events.
type Listener interface {
	Start(ctx context.Context, onDown func(), onUp func()) error
	Stop()
	KeyName() string
	// Ready is closed once Start has the key source live. It stays open if
	// Start fails first.
	Ready() <-chan struct{}
}

type readySignal struct {
	once sync.Once
	ch   chan struct{}
}

func newReadySignal() *readySignal {
	return &readySignal{ch: make(chan struct{})}
}

func (r *readySignal) set() {
	r.once.Do(func() { close(r.ch) })
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}

// dropCounter logs growth of a sink's overflow count.
type dropCounter struct {
	sink   *ptthook.ChanSink
	logger *log.Logger
	seen   uint64
}

func (d *dropCounter) check() {
	if n := d.sink.Dropped(); n > d.seen {
		d.logger.Printf("hook: %d key events dropped, release state may be stale", n-d.seen)
		d.seen = n
	}
}

func deliver(ev ptthook.Event, onDown, onUp func()) {
	switch ev {
	case ptthook.EventKeyDown:
		if onDown != nil {
			onDown()
		}
	case ptthook.EventKeyUp:
		if onUp != nil {
			onUp()
		}
	}
}

// dispatch runs onDown/onUp for events off the key source's thread. It
// returns ctx.Err() on cancellation or the first value received on errCh.
func dispatch(ctx context.Context, sink *ptthook.ChanSink, errCh <-chan error, onDown, onUp func(), logger *log.Logger) error {
	drops := dropCounter{sink: sink, logger: orDiscard(logger)}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case ev := <-sink.Events():
			drops.check()
			deliver(ev, onDown, onUp)
		}
	}
}
