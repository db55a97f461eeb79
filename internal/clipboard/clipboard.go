// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	atclip "github.com/atotto/clipboard"
)

// isWayland returns true if the session is running under Wayland.
func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// Copy puts text on the clipboard. Wayland sessions use wl-copy when it is
// installed, since the X11 clipboard is not shared with native Wayland apps.
func Copy(text string) error {
	if isWayland() {
		if path, err := exec.LookPath("wl-copy"); err == nil {
			return wlCopy(path, text)
		}
	}
	if err := atclip.WriteAll(text); err != nil {
		return fmt.Errorf("write to clipboard: %w", err)
	}
	return nil
}

func wlCopy(path, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, path, "--", text).Run(); err != nil {
		return fmt.Errorf("wl-copy: %w", err)
	}
	return nil
}
