//go:build windows

package hotkey

import (
	"log"
	"time"

	"github.com/Danondso/pttkey/internal/ptthook"
)

// NewListener creates a Listener backed by a WH_KEYBOARD_LL hook for the
// named key. releasePoll > 0 enables the GetAsyncKeyState release fallback.
func NewListener(keyName string, releasePoll time.Duration, logger *log.Logger) (Listener, error) {
	key, err := ptthook.ParseKey(keyName)
	if err != nil {
		return nil, err
	}
	sink := ptthook.NewChanSink(eventBuffer)
	ctrl := ptthook.NewNative(sink, logger)
	return newHookListener(ctrl, sink, key, keyName, releasePoll, logger), nil
}

// KeyNames returns the virtual-key names NewListener accepts.
func KeyNames() []string {
	return ptthook.KeyNames()
}
