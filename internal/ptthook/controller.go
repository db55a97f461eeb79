package ptthook

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
)

// KeyState is the result of a point-in-time key query.
type KeyState int

const (
	KeyUnsupported KeyState = -1
	KeyReleased    KeyState = 0
	KeyPressed     KeyState = 1
)

func (s KeyState) String() string {
	switch s {
	case KeyPressed:
		return "pressed"
	case KeyReleased:
		return "not_pressed"
	default:
		return "unsupported"
	}
}

// Controller owns the hook lifecycle: at most one worker thread holding the
// OS hook, the key it filters on, and the thread its quit signal targets.
type Controller struct {
	platform Platform
	tracker  *Tracker
	logger   *log.Logger

	running  atomic.Bool
	threadID atomic.Uint32

	// lifecycle serializes Start and Stop against each other. The worker
	// and the hook callback never take it.
	lifecycle sync.Mutex
	done      chan struct{} // closed when the current worker has exited
	quitting  bool          // quit posted, worker may still be unwinding
}

// New creates a Controller on platform p that emits to sink.
func New(p Platform, sink Sink, logger *log.Logger) *Controller {
	if p == nil {
		p = Unsupported()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		platform: p,
		tracker:  NewTracker(sink),
		logger:   logger,
	}
}

// NewNative creates a Controller on the platform of the build target.
func NewNative(sink Sink, logger *log.Logger) *Controller {
	return New(Native(), sink, logger)
}

// Start observes key, installing the hook if no worker is running. It
// returns true once the hook is live (or already was) and false if the
// platform is unsupported or the OS refused the hook. If a Stop has posted
// quit to a worker that has not exited yet, Start blocks until it has.
func (c *Controller) Start(key int32) bool {
	if !c.platform.Supported() {
		return false
	}

	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.tracker.Configure(key)

	if c.quitting {
		c.logger.Printf("hook: waiting for previous worker to exit")
		<-c.done
		c.quitting = false
	}
	if c.running.Load() {
		c.logger.Printf("hook: key set to %s, worker already running", KeyName(key))
		return true
	}

	ready := make(chan error, 1)
	done := make(chan struct{})
	go c.work(ready, done)

	if err := <-ready; err != nil {
		<-done
		c.logger.Printf("hook: %v", err)
		return false
	}
	c.done = done
	c.logger.Printf("hook: installed for %s", KeyName(key))
	return true
}

// Stop disables matching and asks the worker, if any, to uninstall the hook.
// It does not wait for the worker to exit. Calling it with no worker
// running is a no-op.
func (c *Controller) Stop() {
	c.tracker.Disable()
	if !c.platform.Supported() {
		return
	}

	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.quitting || !c.running.Load() {
		return
	}
	tid := c.threadID.Load()
	if err := c.platform.PostQuit(tid); err != nil {
		c.logger.Printf("hook: post quit to thread %d: %v", tid, err)
		return
	}
	c.quitting = true
	c.logger.Printf("hook: quit posted to thread %d", tid)
}

// CheckKeyPressed queries the live state of key without involving the hook.
func (c *Controller) CheckKeyPressed(key int32) KeyState {
	if !c.platform.Supported() {
		return KeyUnsupported
	}
	if c.platform.KeyDown(key) {
		return KeyPressed
	}
	return KeyReleased
}

// Running reports whether a worker currently holds the hook.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Supported reports whether the underlying platform has a hook primitive.
func (c *Controller) Supported() bool {
	return c.platform.Supported()
}

// Key returns the configured key code.
func (c *Controller) Key() int32 {
	return c.tracker.Key()
}

// Pressed reports whether the configured key is believed held.
func (c *Controller) Pressed() bool {
	return c.tracker.Pressed()
}

// Release feeds a synthetic up event for the configured key through the
// tracker, emitting key-up only if the key was believed held.
func (c *Controller) Release() bool {
	key := c.tracker.Key()
	if key <= Disabled {
		return false
	}
	return c.tracker.Observe(uint32(key), Up)
}
