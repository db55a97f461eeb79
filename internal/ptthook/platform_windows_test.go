//go:build windows

package ptthook

import (
	"sync"
	"testing"
	"unsafe"
)

func TestTransitionFor(t *testing.T) {
	tests := []struct {
		name   string
		wParam uintptr
		want   Transition
	}{
		{"WM_KEYDOWN", wmKeyDown, Down},
		{"WM_SYSKEYDOWN", wmSysKeyDown, Down},
		{"WM_KEYUP", wmKeyUp, Up},
		{"WM_SYSKEYUP", wmSysKeyUp, Up},
		{"WM_CHAR", 0x0102, Other},
		{"zero", 0, Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transitionFor(tt.wParam); got != tt.want {
				t.Errorf("transitionFor(%#x) = %s, want %s", tt.wParam, got, tt.want)
			}
		})
	}
}

type recordObserver struct {
	mu   sync.Mutex
	seen []Transition
}

func (r *recordObserver) Observe(code uint32, tr Transition) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, tr)
	return false
}

func (r *recordObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestLowLevelKeyboardProcSkipsNegativeCode(t *testing.T) {
	rec := &recordObserver{}
	activeObserver.Store(&observerRef{obs: rec})
	t.Cleanup(func() { activeObserver.Store(nil) })

	kb := kbdLLHookStruct{vkCode: 0x20}
	lParam := uintptr(unsafe.Pointer(&kb))

	negative := int32(-1)
	lowLevelKeyboardProc(uintptr(negative), wmSysKeyDown, lParam)
	if n := rec.count(); n != 0 {
		t.Fatalf("negative code reached the observer %d times", n)
	}

	lowLevelKeyboardProc(0, wmSysKeyDown, lParam)
	if n := rec.count(); n != 1 {
		t.Fatalf("expected 1 observed event, got %d", n)
	}
	if rec.seen[0] != Down {
		t.Errorf("expected Down, got %s", rec.seen[0])
	}
}
