//go:build !windows && !linux && !darwin

package config

const defaultHotkeyKey = "SPACE"
