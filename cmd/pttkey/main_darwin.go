//go:build darwin

package main

import (
	"os"

	"golang.design/x/mainthread"
)

// golang.design/x/hotkey needs the Cocoa event loop on the main thread.
func main() {
	code := 0
	mainthread.Init(func() { code = execute() })
	os.Exit(code)
}
