// Package ptthook observes a single push-to-talk key system-wide and turns
// raw keyboard traffic into one key-down and one key-up per physical press.
package ptthook

import "sync/atomic"

// Disabled is the key code that matches no real key.
const Disabled int32 = 0

// Transition classifies a raw keyboard event.
type Transition uint8

const (
	Other Transition = iota
	Down
	Up
)

func (t Transition) String() string {
	switch t {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "other"
	}
}

// Observer receives every raw key event seen by a platform hook.
// Implementations run inside the OS dispatch path and must not block.
type Observer interface {
	Observe(code uint32, t Transition) bool
}

// Tracker filters raw events down to the configured key and suppresses
// auto-repeat so each physical press yields exactly one key-down and one
// key-up on its sink.
type Tracker struct {
	key     atomic.Int32
	pressed atomic.Bool
	sink    Sink
}

// NewTracker returns a disabled tracker emitting to sink. A nil sink
// discards events but state is still tracked.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{sink: sink}
}

// Configure sets the observed key and forgets any held state. The new key
// is not reconciled against the hardware: if it is already held, the first
// up event for it is dropped.
func (t *Tracker) Configure(key int32) {
	t.key.Store(key)
	t.pressed.Store(false)
}

// Disable stops matching any key.
func (t *Tracker) Disable() {
	t.Configure(Disabled)
}

// Key returns the configured key code, or Disabled.
func (t *Tracker) Key() int32 {
	return t.key.Load()
}

// Pressed reports whether the configured key is believed held.
func (t *Tracker) Pressed() bool {
	return t.pressed.Load()
}

// Observe implements Observer. It reports whether an event was emitted.
func (t *Tracker) Observe(code uint32, tr Transition) bool {
	key := t.key.Load()
	if key <= Disabled || uint32(key) != code {
		return false
	}

	switch tr {
	case Down:
		if t.pressed.Swap(true) {
			return false
		}
		t.emit(EventKeyDown)
		return true
	case Up:
		if !t.pressed.Swap(false) {
			return false
		}
		t.emit(EventKeyUp)
		return true
	}
	return false
}

func (t *Tracker) emit(ev Event) {
	if t.sink != nil {
		t.sink.Emit(ev)
	}
}
