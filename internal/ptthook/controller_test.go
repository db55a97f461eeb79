package ptthook

import (
	"errors"
	"io"
	"log"
	"testing"
)

func newTestController(p Platform, sink Sink) *Controller {
	return New(p, sink, log.New(io.Discard, "", 0))
}

func TestStartInstallsHook(t *testing.T) {
	fp := newFakePlatform()
	sink := &recordSink{}
	c := newTestController(fp, sink)
	defer c.Stop()

	if !c.Start(0x20) {
		t.Fatal("expected Start to succeed")
	}
	if !c.Running() {
		t.Fatal("expected running after Start")
	}
	if c.threadID.Load() == 0 {
		t.Error("running without a thread id")
	}

	fp.send(0x20, Down)
	fp.send(0x20, Down)
	fp.send(0x20, Up)
	if got := sink.snapshot(); len(got) != 2 || got[0] != EventKeyDown || got[1] != EventKeyUp {
		t.Errorf("expected [key-down key-up], got %v", got)
	}
}

func TestStartTwiceSwapsKeyWithoutSecondWorker(t *testing.T) {
	fp := newFakePlatform()
	sink := &recordSink{}
	c := newTestController(fp, sink)
	defer c.Stop()

	if !c.Start(0x20) {
		t.Fatal("first Start failed")
	}
	if !c.Start(0x41) {
		t.Fatal("second Start failed")
	}
	if installs, _, _ := fp.counts(); installs != 1 {
		t.Fatalf("expected 1 install, got %d", installs)
	}
	if c.Key() != 0x41 {
		t.Errorf("expected key 0x41, got %#x", c.Key())
	}

	fp.send(0x20, Down)
	if len(sink.snapshot()) != 0 {
		t.Fatalf("old key still emits: %v", sink.snapshot())
	}
	fp.send(0x41, Down)
	if sink.count(EventKeyDown) != 1 {
		t.Errorf("expected key-down for new key, got %v", sink.snapshot())
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	fp := newFakePlatform()
	c := newTestController(fp, &recordSink{})

	c.Stop()
	c.Stop()

	if c.Running() {
		t.Error("expected not running")
	}
	if c.Key() != Disabled {
		t.Errorf("expected disabled key, got %#x", c.Key())
	}
	if _, _, quits := fp.counts(); quits != 0 {
		t.Errorf("expected no quit posted, got %d", quits)
	}
}

func TestStopTearsDownWorker(t *testing.T) {
	fp := newFakePlatform()
	c := newTestController(fp, &recordSink{})

	if !c.Start(0x20) {
		t.Fatal("Start failed")
	}
	c.Stop()
	c.Stop()

	waitFor(t, "worker exit", func() bool { return !c.Running() })
	installs, uninstalls, quits := fp.counts()
	if installs != 1 || uninstalls != 1 {
		t.Errorf("expected 1 install and 1 uninstall, got %d/%d", installs, uninstalls)
	}
	if quits != 1 {
		t.Errorf("expected exactly 1 quit posted, got %d", quits)
	}
	if c.Pressed() {
		t.Error("expected pressed cleared")
	}
}

func TestStopThenStartReactsOnlyToNewKey(t *testing.T) {
	fp := newFakePlatform()
	sink := &recordSink{}
	c := newTestController(fp, sink)
	defer c.Stop()

	if !c.Start(0x20) {
		t.Fatal("Start failed")
	}
	fp.send(0x20, Down)
	c.Stop()
	if c.tracker.Observe(0x20, Up) {
		t.Error("old key emitted after Stop")
	}

	if !c.Start(0x41) {
		t.Fatal("restart failed")
	}
	if !c.Running() {
		t.Fatal("expected a live worker after restart")
	}
	if installs, _, _ := fp.counts(); installs != 2 {
		t.Errorf("expected a fresh install, got %d installs", installs)
	}

	before := len(sink.snapshot())
	fp.send(0x20, Down)
	fp.send(0x20, Up)
	if len(sink.snapshot()) != before {
		t.Errorf("old key emitted after restart: %v", sink.snapshot()[before:])
	}
	fp.send(0x41, Down)
	if got := sink.snapshot(); got[len(got)-1] != EventKeyDown {
		t.Errorf("expected key-down for new key, got %v", got)
	}
}

func TestStartInstallFailure(t *testing.T) {
	fp := newFakePlatform()
	fp.installErr = errors.New("access denied")
	c := newTestController(fp, &recordSink{})

	if c.Start(0x20) {
		t.Fatal("expected Start to fail")
	}
	if c.Running() {
		t.Error("failed install left worker running")
	}

	// The caller may retry once the OS allows it.
	fp.mu.Lock()
	fp.installErr = nil
	fp.mu.Unlock()
	if !c.Start(0x20) {
		t.Fatal("expected retry to succeed")
	}
	c.Stop()
}

func TestPumpErrorClearsRunning(t *testing.T) {
	fp := newFakePlatform()
	fp.pumpErr = errors.New("queue destroyed")
	c := newTestController(fp, &recordSink{})

	if !c.Start(0x20) {
		t.Fatal("expected install to be reported as success")
	}
	waitFor(t, "running cleared", func() bool { return !c.Running() })
	if _, uninstalls, _ := fp.counts(); uninstalls != 1 {
		t.Errorf("expected hook uninstalled after pump error, got %d", uninstalls)
	}

	fp.mu.Lock()
	fp.pumpErr = nil
	fp.mu.Unlock()
	if !c.Start(0x20) {
		t.Fatal("expected fresh worker after recovery")
	}
	if installs, _, _ := fp.counts(); installs != 2 {
		t.Errorf("expected 2 installs, got %d", installs)
	}
	c.Stop()
}

func TestUnsupportedPlatform(t *testing.T) {
	sink := &recordSink{}
	c := newTestController(Unsupported(), sink)

	if c.Start(0x20) {
		t.Error("expected Start to fail on unsupported platform")
	}
	if c.Key() != Disabled {
		t.Errorf("Start changed state on unsupported platform: key=%#x", c.Key())
	}
	if got := c.CheckKeyPressed(0x20); got != KeyUnsupported {
		t.Errorf("expected unsupported, got %s", got)
	}
	c.Stop()
	if c.Running() {
		t.Error("expected not running")
	}
}

func TestNilPlatformIsUnsupported(t *testing.T) {
	c := New(nil, nil, nil)
	if c.Supported() || c.Start(0x20) {
		t.Error("expected nil platform to behave as unsupported")
	}
}

func TestCheckKeyPressed(t *testing.T) {
	fp := newFakePlatform()
	c := newTestController(fp, nil)
	fp.setDown(0x20, true)

	if got := c.CheckKeyPressed(0x20); got != KeyPressed {
		t.Errorf("expected pressed, got %s", got)
	}
	if got := c.CheckKeyPressed(0x41); got != KeyReleased {
		t.Errorf("expected not_pressed, got %s", got)
	}

	// Independent of the hook lifecycle.
	if !c.Start(0x41) {
		t.Fatal("Start failed")
	}
	if got := c.CheckKeyPressed(0x20); got != KeyPressed {
		t.Errorf("expected pressed with hook installed, got %s", got)
	}
	c.Stop()
}

func TestKeyStateString(t *testing.T) {
	tests := []struct {
		state KeyState
		want  string
	}{
		{KeyPressed, "pressed"},
		{KeyReleased, "not_pressed"},
		{KeyUnsupported, "unsupported"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("KeyState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestReleaseSynthesizesUp(t *testing.T) {
	sink := &recordSink{}
	c := newTestController(newFakePlatform(), sink)

	if c.Release() {
		t.Error("Release on disabled key emitted")
	}
	c.tracker.Configure(0x20)
	c.tracker.Observe(0x20, Down)
	if !c.Release() {
		t.Fatal("expected Release to emit key-up")
	}
	if c.Release() {
		t.Error("second Release emitted")
	}
	if sink.count(EventKeyUp) != 1 {
		t.Errorf("expected one key-up, got %v", sink.snapshot())
	}
}
