package ptthook

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePlatform simulates a hook thread: Pump blocks until PostQuit is
// called with the thread id handed out by ThreadID.
type fakePlatform struct {
	mu          sync.Mutex
	unsupported bool
	installErr  error
	pumpErr     error
	nextTID     uint32
	current     uint32
	quits       map[uint32]chan struct{}
	obs         Observer
	installs    int
	uninstalls  int
	quitPosts   int
	down        map[int32]bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextTID: 100,
		quits:   make(map[uint32]chan struct{}),
		down:    make(map[int32]bool),
	}
}

func (f *fakePlatform) Supported() bool { return !f.unsupported }

func (f *fakePlatform) ThreadID() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTID++
	f.current = f.nextTID
	f.quits[f.current] = make(chan struct{})
	return f.current
}

func (f *fakePlatform) Install(obs Observer) (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.installErr != nil {
		return nil, f.installErr
	}
	f.installs++
	f.obs = obs
	return func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.obs = nil
		f.uninstalls++
		return nil
	}, nil
}

func (f *fakePlatform) Pump() error {
	f.mu.Lock()
	q := f.quits[f.current]
	err := f.pumpErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	<-q
	return nil
}

func (f *fakePlatform) PostQuit(thread uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quits[thread]
	if !ok {
		return errors.New("no such thread")
	}
	delete(f.quits, thread)
	f.quitPosts++
	close(q)
	return nil
}

func (f *fakePlatform) KeyDown(key int32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down[key]
}

func (f *fakePlatform) setDown(key int32, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down[key] = down
}

// send delivers a raw event to the installed observer, as the OS would.
func (f *fakePlatform) send(code uint32, tr Transition) bool {
	f.mu.Lock()
	obs := f.obs
	f.mu.Unlock()
	if obs == nil {
		return false
	}
	return obs.Observe(code, tr)
}

func (f *fakePlatform) counts() (installs, uninstalls, quitPosts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installs, f.uninstalls, f.quitPosts
}

// recordSink collects emitted events.
type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) Emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func (s *recordSink) count(ev Event) int {
	n := 0
	for _, e := range s.snapshot() {
		if e == ev {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
