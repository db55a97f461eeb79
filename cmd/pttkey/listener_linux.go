//go:build linux

package main

import (
	"log"

	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/hotkey"
)

func createListener(cfg *config.Config, dbg *log.Logger) (hotkey.Listener, string, error) {
	code, err := hotkey.KeyCodeFromName(cfg.Hotkey.Key)
	if err != nil {
		return nil, "evdev", err
	}
	dbg.Printf("hook: %s is evdev code %d", cfg.Hotkey.Key, code)

	dev, err := hotkey.FindKeyboard(cfg.Hotkey.Device)
	if err != nil {
		return nil, "evdev", err
	}
	dbg.Printf("keyboard: %s", dev.Path())

	return hotkey.NewListener(dev, code, cfg.Hotkey.Key, dbg), "evdev", nil
}

func keyNames() []string {
	return hotkey.KeyNames()
}
