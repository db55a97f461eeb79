package ptthook

import "sync/atomic"

// Event is a notification delivered to a Sink.
type Event string

const (
	EventKeyDown Event = "key-down"
	EventKeyUp   Event = "key-up"
)

// Sink receives key-down and key-up notifications. Emit is called from the
// hook thread and must return promptly.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) {
	f(ev)
}

// ChanSink hands events to a buffered channel without ever blocking the
// sender. Events that do not fit are dropped and counted.
type ChanSink struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewChanSink creates a ChanSink with the given buffer size (minimum 1).
func NewChanSink(size int) *ChanSink {
	if size < 1 {
		size = 1
	}
	return &ChanSink{ch: make(chan Event, size)}
}

// Emit implements Sink.
func (s *ChanSink) Emit(ev Event) {
	select {
	case s.ch <- ev:
	default:
		s.dropped.Add(1)
	}
}

// Events returns the receive side of the sink.
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}

// Dropped returns how many events were discarded because the buffer was full.
func (s *ChanSink) Dropped() uint64 {
	return s.dropped.Load()
}
