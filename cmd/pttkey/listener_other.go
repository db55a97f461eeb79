//go:build !windows && !linux && !darwin

package main

import (
	"fmt"
	"log"

	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/hotkey"
	"github.com/Danondso/pttkey/internal/ptthook"
)

func createListener(cfg *config.Config, dbg *log.Logger) (hotkey.Listener, string, error) {
	return nil, "none", fmt.Errorf("global key observation: %w", ptthook.ErrUnsupported)
}

func keyNames() []string {
	return ptthook.KeyNames()
}
