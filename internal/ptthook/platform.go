package ptthook

import "errors"

// ErrUnsupported is returned by platforms that lack a low-level keyboard hook.
var ErrUnsupported = errors.New("low-level keyboard hook not supported on this platform")

// Platform is the OS primitive behind a Controller. Install, Pump and the
// uninstall func it returns are always called from the same locked OS
// thread; PostQuit and KeyDown may be called from any thread.
type Platform interface {
	// Supported reports whether the hook primitive exists on this OS.
	Supported() bool
	// ThreadID identifies the calling OS thread.
	ThreadID() uint32
	// Install registers obs as a system-wide, observe-only keyboard hook.
	Install(obs Observer) (uninstall func() error, err error)
	// Pump drains the calling thread's message queue until a quit is
	// posted to it. It returns nil on quit.
	Pump() error
	// PostQuit asks the pump running on thread to return.
	PostQuit(thread uint32) error
	// KeyDown reports whether key is physically down right now.
	KeyDown(key int32) bool
}

type unsupportedPlatform struct{}

func (unsupportedPlatform) Supported() bool { return false }

func (unsupportedPlatform) ThreadID() uint32 { return 0 }

func (unsupportedPlatform) Install(Observer) (func() error, error) { return nil, ErrUnsupported }

func (unsupportedPlatform) Pump() error { return ErrUnsupported }

func (unsupportedPlatform) PostQuit(uint32) error { return ErrUnsupported }

func (unsupportedPlatform) KeyDown(int32) bool { return false }

// Unsupported returns the degraded platform used where no hook exists.
func Unsupported() Platform {
	return unsupportedPlatform{}
}
