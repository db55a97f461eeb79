//go:build windows

package ptthook

import (
	"errors"
	"fmt"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13

	wmQuit       = 0x0012
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	pmNoRemove = 0x0000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

// kbdLLHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdLLHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// winMsg mirrors MSG. Layout must match the Win32 struct.
type winMsg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	ptX      int32
	ptY      int32
	lPrivate uint32
}

type observerRef struct {
	obs Observer
}

// windows.NewCallback slots are never freed and the hook proc gets no context
// pointer, so there is one trampoline and the active observer is published
// through an atomic.
var (
	activeObserver atomic.Pointer[observerRef]
	hookProc       = windows.NewCallback(lowLevelKeyboardProc)
)

// lowLevelKeyboardProc runs on the hook thread for every keystroke on the
// desktop. It never consumes the event.
func lowLevelKeyboardProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		if ref := activeObserver.Load(); ref != nil {
			kb := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			ref.obs.Observe(kb.vkCode, transitionFor(wParam))
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

func transitionFor(wParam uintptr) Transition {
	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		return Down
	case wmKeyUp, wmSysKeyUp:
		return Up
	default:
		return Other
	}
}

type windowsPlatform struct{}

// Native returns the hook platform for the build target.
func Native() Platform {
	return windowsPlatform{}
}

func (windowsPlatform) Supported() bool {
	return user32.Load() == nil
}

func (windowsPlatform) ThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

func (windowsPlatform) Install(obs Observer) (func() error, error) {
	if !activeObserver.CompareAndSwap(nil, &observerRef{obs: obs}) {
		return nil, errors.New("a keyboard hook is already installed in this process")
	}

	// Touch the queue so PostThreadMessageW can reach this thread even
	// before the first keystroke arrives.
	var msg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmNoRemove)

	hook, _, callErr := procSetWindowsHookExW.Call(whKeyboardLL, hookProc, 0, 0)
	if hook == 0 {
		activeObserver.Store(nil)
		return nil, fmt.Errorf("SetWindowsHookExW: %w", errnoOr(callErr, "failed"))
	}

	return func() error {
		defer activeObserver.Store(nil)
		res, _, callErr := procUnhookWindowsHookEx.Call(hook)
		if res == 0 {
			return fmt.Errorf("UnhookWindowsHookEx: %w", errnoOr(callErr, "failed"))
		}
		return nil
	}, nil
}

func (windowsPlatform) Pump() error {
	var msg winMsg
	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessageW: %w", errnoOr(callErr, "failed"))
		}
	}
}

func (windowsPlatform) PostQuit(thread uint32) error {
	if thread == 0 {
		return errors.New("no hook thread to signal")
	}
	res, _, callErr := procPostThreadMessageW.Call(uintptr(thread), wmQuit, 0, 0)
	if res == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", errnoOr(callErr, "failed"))
	}
	return nil
}

func (windowsPlatform) KeyDown(key int32) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(key))
	return int16(ret) < 0
}

func errnoOr(err error, msg string) error {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return errno
	}
	return errors.New(msg)
}
