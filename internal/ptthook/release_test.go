package ptthook

import (
	"context"
	"testing"
	"time"
)

func TestWatchReleaseRecoversMissedUp(t *testing.T) {
	fp := newFakePlatform()
	sink := &recordSink{}
	c := newTestController(fp, sink)
	defer c.Stop()

	if !c.Start(0x20) {
		t.Fatal("Start failed")
	}
	fp.setDown(0x20, true)
	fp.send(0x20, Down)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		WatchRelease(ctx, c, 2*time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	if sink.count(EventKeyUp) != 0 {
		t.Fatal("key-up emitted while key still held")
	}

	// The hook never sees the release; polling must catch it.
	fp.setDown(0x20, false)
	waitFor(t, "polled key-up", func() bool { return sink.count(EventKeyUp) == 1 })

	// A late real up from the hook must not double-report.
	fp.send(0x20, Up)
	cancel()
	<-done

	if got := sink.count(EventKeyUp); got != 1 {
		t.Errorf("expected exactly 1 key-up, got %d", got)
	}
}

func TestWatchReleaseReturnsWhenUnsupported(t *testing.T) {
	c := newTestController(Unsupported(), nil)
	done := make(chan struct{})
	go func() {
		WatchRelease(context.Background(), c, time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchRelease blocked on unsupported platform")
	}
}

func TestWatchReleaseDisabledInterval(t *testing.T) {
	c := newTestController(newFakePlatform(), nil)
	done := make(chan struct{})
	go func() {
		WatchRelease(context.Background(), c, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchRelease blocked with zero interval")
	}
}
