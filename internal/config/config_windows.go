//go:build windows

package config

const defaultHotkeyKey = "RCTRL"
