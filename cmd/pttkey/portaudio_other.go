//go:build !linux

package main

import "github.com/gordonklaus/portaudio"

func initPortAudio() error {
	return portaudio.Initialize()
}
