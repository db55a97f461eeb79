package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// HotkeyConfig holds push-to-talk key settings.
type HotkeyConfig struct {
	Key           string `toml:"key"`
	Device        string `toml:"device"`          // Linux only: evdev path, empty = auto-detect
	ReleasePollMs int    `toml:"release_poll_ms"` // Windows only: 0 disables the polling fallback
}

// AudioConfig holds chime and transmit-capture settings.
type AudioConfig struct {
	ChimeEnabled     bool   `toml:"chime_enabled"`
	ChimeStart       string `toml:"chime_start"`
	ChimeStop        string `toml:"chime_stop"`
	CaptureEnabled   bool   `toml:"capture_enabled"`
	ClipDir          string `toml:"clip_dir"`
	TargetSampleRate int    `toml:"target_sample_rate"`
	MaxDurationSec   int    `toml:"max_duration_sec"`
}

// CustomTheme is a user-defined TUI color palette.
type CustomTheme struct {
	Name       string `toml:"name"`
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Accent     string `toml:"accent"`
	Error      string `toml:"error"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Background string `toml:"background"`
	Text       string `toml:"text"`
	Dimmed     string `toml:"dimmed"`
	Separator  string `toml:"separator"`
}

// Config is the top-level configuration.
type Config struct {
	Theme        string        `toml:"theme"`
	Hotkey       HotkeyConfig  `toml:"hotkey"`
	Audio        AudioConfig   `toml:"audio"`
	CustomThemes []CustomTheme `toml:"custom_theme"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Hotkey: HotkeyConfig{
			Key:           defaultHotkeyKey,
			Device:        "",
			ReleasePollMs: 0,
		},
		Audio: AudioConfig{
			ChimeEnabled:     true,
			ChimeStart:       "",
			ChimeStop:        "",
			CaptureEnabled:   false,
			ClipDir:          "",
			TargetSampleRate: 16000,
			MaxDurationSec:   120,
		},
	}
}

// DefaultPath returns the default config file path (~/.config/pttkey/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pttkey", "config.toml")
}

// DefaultClipDir returns the default directory for captured clips
// (~/.local/share/pttkey/clips).
func DefaultClipDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pttkey", "clips")
}

// ResolvedClipDir returns the configured clip directory or the default.
func (c *Config) ResolvedClipDir() string {
	if c.Audio.ClipDir != "" {
		return c.Audio.ClipDir
	}
	return DefaultClipDir()
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Hotkey.Key == "" {
		errs = append(errs, errors.New("hotkey.key must not be empty"))
	}
	if c.Hotkey.ReleasePollMs < 0 {
		errs = append(errs, fmt.Errorf("hotkey.release_poll_ms must be >= 0, got %d", c.Hotkey.ReleasePollMs))
	}
	if c.Audio.TargetSampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.target_sample_rate must be > 0, got %d", c.Audio.TargetSampleRate))
	}
	if c.Audio.MaxDurationSec <= 0 {
		errs = append(errs, fmt.Errorf("audio.max_duration_sec must be > 0, got %d", c.Audio.MaxDurationSec))
	}
	return errors.Join(errs...)
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pttkey-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown setting %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
