//go:build !linux

package capture

import "github.com/gordonklaus/portaudio"

// MicName returns the PortAudio name of the default input device.
func MicName() string {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		return ""
	}
	return dev.Name
}
