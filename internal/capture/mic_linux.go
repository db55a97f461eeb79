//go:build linux

package capture

import (
	"os/exec"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// MicName prefers the PulseAudio/PipeWire description of the default source
// and falls back to the PortAudio device name.
func MicName() string {
	if name := pactlSourceDescription(); name != "" {
		return name
	}
	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		return ""
	}
	return dev.Name
}

func pactlSourceDescription() string {
	out, err := exec.Command("pactl", "get-default-source").Output()
	if err != nil {
		return ""
	}
	source := strings.TrimSpace(string(out))
	if source == "" {
		return ""
	}
	out, err = exec.Command("pactl", "list", "sources").Output()
	if err != nil {
		return ""
	}
	return sourceDescription(string(out), source)
}

// sourceDescription finds the Description line of source in `pactl list
// sources` output. Monitor sources record playback, so they don't count.
func sourceDescription(listing, source string) string {
	current := ""
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "Name: "); ok {
			current = name
			continue
		}
		desc, ok := strings.CutPrefix(line, "Description: ")
		if !ok || current != source {
			continue
		}
		if strings.HasPrefix(desc, "Monitor of ") {
			return ""
		}
		return desc
	}
	return ""
}
