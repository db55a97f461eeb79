package ptthook

import (
	"context"
	"time"
)

// WatchRelease polls the live key state while the tracker believes the
// configured key is held and synthesizes the release if the hook missed it.
// It blocks until ctx is done and returns immediately if polling is not
// possible.
func WatchRelease(ctx context.Context, c *Controller, interval time.Duration) {
	if interval <= 0 || !c.Supported() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !c.Pressed() {
			continue
		}
		key := c.Key()
		if key <= Disabled {
			continue
		}
		if c.CheckKeyPressed(key) == KeyReleased && c.Release() {
			c.logger.Printf("hook: release of %s recovered by polling", KeyName(key))
		}
	}
}
