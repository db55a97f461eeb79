package hotkey

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Danondso/pttkey/internal/ptthook"
)

// hookListener drives a ptthook.Controller. Only Windows has a native
// platform for it; elsewhere Start fails with ptthook.ErrUnsupported.
type hookListener struct {
	ctrl        *ptthook.Controller
	sink        *ptthook.ChanSink
	key         int32
	keyName     string
	releasePoll time.Duration
	logger      *log.Logger
	ready       *readySignal
}

func newHookListener(ctrl *ptthook.Controller, sink *ptthook.ChanSink, key int32, keyName string, releasePoll time.Duration, logger *log.Logger) *hookListener {
	return &hookListener{
		ctrl:        ctrl,
		sink:        sink,
		key:         key,
		keyName:     keyName,
		releasePoll: releasePoll,
		logger:      orDiscard(logger),
		ready:       newReadySignal(),
	}
}

// Start installs the low-level hook and delivers press/release events until
// ctx is cancelled.
func (l *hookListener) Start(ctx context.Context, onDown func(), onUp func()) error {
	if !l.ctrl.Supported() {
		return ptthook.ErrUnsupported
	}
	if !l.ctrl.Start(l.key) {
		return fmt.Errorf("install keyboard hook for %s failed", l.keyName)
	}
	defer l.ctrl.Stop()
	l.ready.set()

	if l.releasePoll > 0 {
		go ptthook.WatchRelease(ctx, l.ctrl, l.releasePoll)
	}
	return dispatch(ctx, l.sink, nil, onDown, onUp, l.logger)
}

// Stop removes the hook. It does not wait for the hook thread to exit.
func (l *hookListener) Stop() {
	l.ctrl.Stop()
}

// KeyName returns the configured key name.
func (l *hookListener) KeyName() string {
	return l.keyName
}

// Ready is closed once the hook is installed.
func (l *hookListener) Ready() <-chan struct{} {
	return l.ready.ch
}
