//go:build darwin

package hotkey

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.design/x/hotkey"

	"github.com/Danondso/pttkey/internal/ptthook"
)

// keyMap maps key name strings to hotkey.Key values.
var keyMap = map[string]hotkey.Key{
	"SPACE":  hotkey.KeySpace,
	"RETURN": hotkey.KeyReturn,
	"ESCAPE": hotkey.KeyEscape,
	"DELETE": hotkey.KeyDelete,
	"TAB":    hotkey.KeyTab,
	"LEFT":   hotkey.KeyLeft,
	"RIGHT":  hotkey.KeyRight,
	"UP":     hotkey.KeyUp,
	"DOWN":   hotkey.KeyDown,
	"F1":     hotkey.KeyF1,
	"F2":     hotkey.KeyF2,
	"F3":     hotkey.KeyF3,
	"F4":     hotkey.KeyF4,
	"F5":     hotkey.KeyF5,
	"F6":     hotkey.KeyF6,
	"F7":     hotkey.KeyF7,
	"F8":     hotkey.KeyF8,
	"F9":     hotkey.KeyF9,
	"F10":    hotkey.KeyF10,
	"F11":    hotkey.KeyF11,
	"F12":    hotkey.KeyF12,
	"F13":    hotkey.KeyF13,
	"F14":    hotkey.KeyF14,
	"F15":    hotkey.KeyF15,
	"F16":    hotkey.KeyF16,
	"F17":    hotkey.KeyF17,
	"F18":    hotkey.KeyF18,
	"F19":    hotkey.KeyF19,
	"F20":    hotkey.KeyF20,
	"A":      hotkey.KeyA,
	"B":      hotkey.KeyB,
	"C":      hotkey.KeyC,
	"D":      hotkey.KeyD,
	"E":      hotkey.KeyE,
	"F":      hotkey.KeyF,
	"G":      hotkey.KeyG,
	"H":      hotkey.KeyH,
	"I":      hotkey.KeyI,
	"J":      hotkey.KeyJ,
	"K":      hotkey.KeyK,
	"L":      hotkey.KeyL,
	"M":      hotkey.KeyM,
	"N":      hotkey.KeyN,
	"O":      hotkey.KeyO,
	"P":      hotkey.KeyP,
	"Q":      hotkey.KeyQ,
	"R":      hotkey.KeyR,
	"S":      hotkey.KeyS,
	"T":      hotkey.KeyT,
	"U":      hotkey.KeyU,
	"V":      hotkey.KeyV,
	"W":      hotkey.KeyW,
	"X":      hotkey.KeyX,
	"Y":      hotkey.KeyY,
	"Z":      hotkey.KeyZ,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
}

// KeyFromName resolves a single key name ("SPACE", "F13") to a hotkey.Key.
// The evdev-style KEY_ prefix is accepted so configs can be shared across
// platforms.
func KeyFromName(name string) (hotkey.Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return 0, fmt.Errorf("empty key name")
	}
	if strings.Contains(upper, "+") {
		return 0, fmt.Errorf("key combinations are not supported, use a single key: %s", name)
	}
	upper = strings.TrimPrefix(upper, "KEY_")
	key, ok := keyMap[upper]
	if !ok {
		return 0, fmt.Errorf("unknown key: %s", name)
	}
	return key, nil
}

// KeyNames returns every supported key name, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keyMap))
	for name := range keyMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// darwinListener registers the push-to-talk key with golang.design/x/hotkey
// and feeds its press/release channels through a ptthook.Tracker. The
// registration consumes the key for other applications; the Carbon hotkey
// API has no observe-only mode.
type darwinListener struct {
	key     hotkey.Key
	keyName string
	hk      *hotkey.Hotkey
	tracker *ptthook.Tracker
	sink    *ptthook.ChanSink
	logger  *log.Logger
	ready   *readySignal
}

// NewListener creates a darwin Listener for the named key. releasePoll is
// accepted for signature parity and ignored: macOS delivers key-up natively.
func NewListener(keyName string, releasePoll time.Duration, logger *log.Logger) (Listener, error) {
	key, err := KeyFromName(keyName)
	if err != nil {
		return nil, err
	}
	if releasePoll > 0 && logger != nil {
		logger.Printf("hotkey: release polling not available on macOS, ignoring")
	}
	sink := ptthook.NewChanSink(eventBuffer)
	return &darwinListener{
		key:     key,
		keyName: keyName,
		tracker: ptthook.NewTracker(sink),
		sink:    sink,
		logger:  orDiscard(logger),
		ready:   newReadySignal(),
	}, nil
}

// Start registers the hotkey and listens for press/release events.
// It blocks until the context is cancelled.
func (l *darwinListener) Start(ctx context.Context, onDown func(), onUp func()) error {
	l.hk = hotkey.New(nil, l.key)
	if err := l.hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w (grant Accessibility permissions in System Settings > Privacy & Security)", l.keyName, err)
	}
	defer l.hk.Unregister()

	// Only one key is registered, so the tracker gets a fixed code. Carbon
	// key codes start at 0, which the tracker treats as disabled.
	const code = 1
	l.tracker.Configure(code)
	defer l.tracker.Disable()
	l.ready.set()

	drops := dropCounter{sink: l.sink, logger: l.logger}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hk.Keydown():
			l.tracker.Observe(code, ptthook.Down)
		case <-l.hk.Keyup():
			l.tracker.Observe(code, ptthook.Up)
		case ev := <-l.sink.Events():
			drops.check()
			deliver(ev, onDown, onUp)
		}
	}
}

// Stop unregisters the hotkey.
func (l *darwinListener) Stop() {
	l.tracker.Disable()
	if l.hk != nil {
		l.hk.Unregister()
	}
}

// KeyName returns the configured key name.
func (l *darwinListener) KeyName() string {
	return l.keyName
}

// Ready is closed once the hotkey is registered.
func (l *darwinListener) Ready() <-chan struct{} {
	return l.ready.ch
}
