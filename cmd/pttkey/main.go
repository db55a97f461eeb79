package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"

	"github.com/Danondso/pttkey/internal/capture"
	"github.com/Danondso/pttkey/internal/chime"
	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/hotkey"
	"github.com/Danondso/pttkey/internal/tui"
)

var (
	debugFlag  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "pttkey",
	Short: "Push-to-talk key observer",
	Long: `pttkey watches one key system-wide and reports each press and release
exactly once, without consuming the key. Run without arguments for the
terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(clipsCmd)
	rootCmd.AddCommand(configCmd)
}

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// execute runs the command tree and returns the process exit status.
func execute() int {
	err := rootCmd.Execute()
	var ee exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintln(os.Stderr, "pttkey:", err)
		return 1
	}
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func newLogger() *log.Logger {
	if debugFlag {
		return log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

// micChecker adapts the capture package's device probes to tui.MicChecker.
type micChecker struct{}

func (micChecker) MicAvailable() bool { return capture.Available() }
func (micChecker) MicName() string    { return capture.MicName() }

func runTUI() error {
	dbg := newLogger()

	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	chimePlayer, err := chime.New(cfg.Audio.ChimeStart, cfg.Audio.ChimeStop, cfg.Audio.ChimeEnabled, dbg)
	if err != nil {
		return fmt.Errorf("create chime player: %w", err)
	}

	var rec tui.Capturer
	if cfg.Audio.CaptureEnabled {
		if err := initPortAudio(); err != nil {
			return fmt.Errorf("portaudio init: %w", err)
		}
		defer portaudio.Terminate()
		dbg.Printf("capture: portaudio initialized")

		r, err := capture.New(cfg.Audio.TargetSampleRate, cfg.Audio.MaxDurationSec)
		if err != nil {
			return fmt.Errorf("create recorder: %w", err)
		}
		rec = r
	}

	listener, mode, err := createListener(cfg, dbg)
	if err != nil {
		return fmt.Errorf("create key listener: %w", err)
	}
	dbg.Printf("hook: %s listener for %s", mode, listener.KeyName())

	tui.RegisterCustomThemes(cfg.CustomThemes)
	model := tui.NewModel(cfg, listener.KeyName(), chimePlayer, rec, micChecker{}, dbg, debugFlag)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if debugFlag {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan error, 1)
	go func() {
		stopped <- listener.Start(ctx,
			func() { p.Send(tui.PTTDownMsg{At: time.Now()}) },
			func() { p.Send(tui.PTTUpMsg{At: time.Now()}) },
		)
	}()
	go watchListener(ctx, p, listener, mode, stopped, dbg)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	// Cancelling the listener context stops the hook.
	cancel()
	listener.Stop()
	return nil
}

type msgSender interface {
	Send(msg tea.Msg)
}

// watchListener reports the hook as active once the listener is live, and
// as failed if Start returns an error before ctx is cancelled.
func watchListener(ctx context.Context, p msgSender, l hotkey.Listener, mode string, stopped <-chan error, dbg *log.Logger) {
	var err error
	select {
	case <-l.Ready():
		p.Send(tui.HookStatusMsg{Mode: mode, Active: true})
		err = <-stopped
	case err = <-stopped:
	}
	if err != nil && ctx.Err() == nil {
		dbg.Printf("hook: listener stopped: %v", err)
		p.Send(tui.HookStatusMsg{Mode: mode, Active: false, Err: err})
	}
}
