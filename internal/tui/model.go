package tui

import (
	"errors"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/pttkey/internal/capture"
	"github.com/Danondso/pttkey/internal/clipboard"
	"github.com/Danondso/pttkey/internal/config"
)

// Cuer plays the transmit-on and transmit-off cues.
type Cuer interface {
	PlayStart()
	PlayStop()
}

// Capturer records the microphone for one press episode.
type Capturer interface {
	Begin() error
	End() (capture.Clip, error)
	Level() float64
}

// MicChecker can report whether a microphone input device is available.
type MicChecker interface {
	MicAvailable() bool
	MicName() string
}

// State represents the application state.
type State int

const (
	StateIdle State = iota
	StateTransmitting
	StateError
)

// Messages sent through the Bubble Tea update loop.

// PTTDownMsg is sent for each key-down notification.
type PTTDownMsg struct {
	At time.Time
}

// PTTUpMsg is sent for each key-up notification.
type PTTUpMsg struct {
	At time.Time
}

// HookStatusMsg reports whether the key source is installed.
type HookStatusMsg struct {
	Mode   string // "hook", "evdev", "hotkey"
	Active bool
	Err    error
}

type ClipSavedMsg struct {
	Path      string
	Duration  time.Duration
	Truncated bool
}

type CaptureErrorMsg struct {
	Err error
}

type errorTimeoutMsg struct{}

type audioLevelTickMsg struct{}

// MicStatusMsg carries the result of a microphone availability check.
type MicStatusMsg struct {
	Detected bool
	Name     string
}

type micCheckTickMsg struct{}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "hook", "ptt", "capture"
	Message  string
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

// Model is the Bubble Tea model for the pttkey TUI.
type Model struct {
	State        State
	Config       *config.Config
	KeyName      string
	Chime        Cuer
	Capture      Capturer // nil when capture is disabled
	MicChecker   MicChecker
	Logger       *log.Logger
	DebugMode    bool
	DebugEntries []DebugEntry
	ThemeName    string

	HookMode   string
	HookActive bool
	hookKnown  bool

	Presses   int
	PressedAt time.Time
	LastHold  time.Duration

	LastClip      string
	CopyText      func(string) error
	LastError     string
	AudioLevel    float64
	MicDetected   bool
	MicDeviceName string
	micChecked    bool
}

// NewModel creates a new TUI model. c and rec may be nil.
func NewModel(cfg *config.Config, keyName string, c Cuer, rec Capturer, mc MicChecker, logger *log.Logger, debug bool) Model {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	theme := LoadTheme(cfg.Theme)
	applyTheme(theme)
	return Model{
		State:      StateIdle,
		Config:     cfg,
		KeyName:    keyName,
		Chime:      c,
		Capture:    rec,
		MicChecker: mc,
		CopyText:   clipboard.Copy,
		Logger:     logger,
		DebugMode:  debug,
		ThemeName:  theme.Name,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if m.Capture == nil {
		return nil
	}
	return m.micCheckCmd()
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			theme := NextTheme(m.ThemeName)
			applyTheme(theme)
			m.ThemeName = theme.Name
			m.Logger.Printf("theme: %s", theme.Name)
		case "y":
			if m.LastClip != "" && m.CopyText != nil {
				return m, m.copyClipCmd()
			}
		}

	case PTTDownMsg:
		if m.State == StateTransmitting {
			return m, nil
		}
		m.State = StateTransmitting
		m.LastError = ""
		m.Presses++
		m.PressedAt = msg.At
		m.Logger.Printf("ptt: key-down #%d", m.Presses)
		if m.Chime != nil {
			m.Chime.PlayStart()
		}
		if m.Capture == nil {
			return m, nil
		}
		if err := m.Capture.Begin(); err != nil {
			m.Logger.Printf("capture: begin: %v", err)
			return m, func() tea.Msg { return CaptureErrorMsg{Err: err} }
		}
		return m, audioLevelTickCmd()

	case PTTUpMsg:
		if m.State != StateTransmitting {
			return m, nil
		}
		m.State = StateIdle
		m.AudioLevel = 0
		m.LastHold = msg.At.Sub(m.PressedAt)
		m.Logger.Printf("ptt: key-up after %s", m.LastHold.Round(time.Millisecond))
		if m.Chime != nil {
			m.Chime.PlayStop()
		}
		if m.Capture == nil {
			return m, nil
		}
		return m, m.saveClipCmd(m.PressedAt)

	case audioLevelTickMsg:
		if m.State == StateTransmitting && m.Capture != nil {
			m.AudioLevel = m.Capture.Level()
			return m, audioLevelTickCmd()
		}
		m.AudioLevel = 0
		return m, nil

	case HookStatusMsg:
		m.hookKnown = true
		m.HookMode = msg.Mode
		m.HookActive = msg.Active
		if msg.Err != nil {
			m.State = StateError
			m.LastError = msg.Err.Error()
		}

	case ClipSavedMsg:
		m.LastClip = msg.Path
		if msg.Truncated {
			m.Logger.Printf("capture: clip truncated at max duration")
		}

	case CaptureErrorMsg:
		if m.State == StateTransmitting {
			// Keep transmitting; the key is still held.
			m.LastError = msg.Err.Error()
			return m, nil
		}
		m.State = StateError
		m.LastError = msg.Err.Error()
		return m, scheduleErrorTimeout()

	case errorTimeoutMsg:
		if m.State == StateError && m.hookKnown && !m.HookActive {
			return m, nil
		}
		if m.State == StateError {
			m.State = StateIdle
		}
		m.LastError = ""

	case MicStatusMsg:
		m.MicDetected = msg.Detected
		m.MicDeviceName = msg.Name
		m.micChecked = true
		return m, scheduleMicRecheck()

	case micCheckTickMsg:
		return m, m.micCheckCmd()

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) saveClipCmd(at time.Time) tea.Cmd {
	rec := m.Capture
	dir := m.Config.ResolvedClipDir()
	logger := m.Logger
	return func() tea.Msg {
		clip, err := rec.End()
		if errors.Is(err, capture.ErrNoSignal) {
			logger.Printf("capture: nothing recorded")
			return nil
		}
		if err != nil {
			return CaptureErrorMsg{Err: err}
		}
		path, err := capture.SaveClip(dir, clip, at)
		if err != nil {
			return CaptureErrorMsg{Err: err}
		}
		logger.Printf("capture: saved %s (%s)", path, clip.Duration.Round(time.Millisecond))
		return ClipSavedMsg{Path: path, Duration: clip.Duration, Truncated: clip.Truncated}
	}
}

func (m Model) copyClipCmd() tea.Cmd {
	path, copyText, logger := m.LastClip, m.CopyText, m.Logger
	return func() tea.Msg {
		if err := copyText(path); err != nil {
			return CaptureErrorMsg{Err: err}
		}
		logger.Printf("capture: copied %s to clipboard", path)
		return nil
	}
}

func scheduleErrorTimeout() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return errorTimeoutMsg{}
	})
}

const audioLevelTickInterval = 100 * time.Millisecond

func audioLevelTickCmd() tea.Cmd {
	return tea.Tick(audioLevelTickInterval, func(time.Time) tea.Msg {
		return audioLevelTickMsg{}
	})
}

const micRecheckInterval = 30 * time.Second

func (m Model) micCheckCmd() tea.Cmd {
	mc := m.MicChecker
	return func() tea.Msg {
		if mc == nil {
			return MicStatusMsg{}
		}
		return MicStatusMsg{Detected: mc.MicAvailable(), Name: mc.MicName()}
	}
}

func scheduleMicRecheck() tea.Cmd {
	return tea.Tick(micRecheckInterval, func(time.Time) tea.Msg {
		return micCheckTickMsg{}
	})
}
