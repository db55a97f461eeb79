package ptthook

import (
	"fmt"
	"runtime"
)

// work is the hook worker. It pins itself to one OS thread because the
// thread that installs a low-level hook must be the one pumping its queue.
//
//	Spawned -> Installing -> Pumping -> Uninstalling -> Terminated
//
// An install failure is reported on ready and goes straight to Terminated.
func (c *Controller) work(ready chan<- error, done chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	tid := c.platform.ThreadID()
	c.threadID.Store(tid)
	c.logger.Printf("hook: worker spawned on thread %d", tid)

	uninstall, err := c.platform.Install(c.tracker)
	if err != nil {
		ready <- fmt.Errorf("install keyboard hook: %w", err)
		return
	}

	// threadID is stored before running so a reader that sees running
	// always sees a valid thread.
	c.running.Store(true)
	defer c.running.Store(false)
	ready <- nil

	if err := c.platform.Pump(); err != nil {
		c.logger.Printf("hook: pump on thread %d ended: %v", tid, err)
	}

	if err := uninstall(); err != nil {
		c.logger.Printf("hook: uninstall on thread %d: %v", tid, err)
	}
	c.logger.Printf("hook: worker on thread %d terminated", tid)
}
