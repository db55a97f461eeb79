//go:build windows

package main

import (
	"log"
	"time"

	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/hotkey"
)

func createListener(cfg *config.Config, dbg *log.Logger) (hotkey.Listener, string, error) {
	poll := time.Duration(cfg.Hotkey.ReleasePollMs) * time.Millisecond
	l, err := hotkey.NewListener(cfg.Hotkey.Key, poll, dbg)
	return l, "hook", err
}

func keyNames() []string {
	return hotkey.KeyNames()
}
