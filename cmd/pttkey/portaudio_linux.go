//go:build linux

package main

import (
	"os"

	"github.com/gordonklaus/portaudio"
	"golang.org/x/sys/unix"
)

// initPortAudio silences the ALSA/JACK probing noise PortAudio writes to
// stderr during initialization, which would otherwise corrupt the TUI.
func initPortAudio() error {
	fd := int(os.Stderr.Fd()) //nolint:gosec // fd fits in int
	saved, err := unix.Dup(fd)
	if err != nil {
		return portaudio.Initialize()
	}
	defer unix.Close(saved)

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return portaudio.Initialize()
	}
	_ = unix.Dup2(int(devNull.Fd()), fd)
	devNull.Close()

	err = portaudio.Initialize()
	_ = unix.Dup2(saved, fd)
	return err
}
