package clipboard

import "testing"

func TestIsWaylandDetection(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if !isWayland() {
		t.Error("expected isWayland()=true when WAYLAND_DISPLAY is set")
	}

	t.Setenv("WAYLAND_DISPLAY", "")
	if isWayland() {
		t.Error("expected isWayland()=false when WAYLAND_DISPLAY is empty")
	}
}

func TestWlCopyMissingBinary(t *testing.T) {
	if err := wlCopy("/nonexistent/wl-copy", "x"); err == nil {
		t.Error("expected error for missing wl-copy binary")
	}
}
