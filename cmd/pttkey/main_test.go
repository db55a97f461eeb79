package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/ptthook"
	"github.com/Danondso/pttkey/internal/tui"
)

// runCmd executes the command tree with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configPath = ""
		forceInit = false
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "pttkey" {
		t.Errorf("rootCmd.Use = %q, want 'pttkey'", rootCmd.Use)
	}
	for _, name := range []string{"debug", "config"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
	want := map[string]bool{"check": false, "keys": false, "clips": false, "config": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestCheckExitCode(t *testing.T) {
	tests := []struct {
		state ptthook.KeyState
		want  int
	}{
		{ptthook.KeyPressed, 0},
		{ptthook.KeyReleased, 1},
		{ptthook.KeyUnsupported, 2},
	}
	for _, tt := range tests {
		if got := checkExitCode(tt.state); got != tt.want {
			t.Errorf("checkExitCode(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestCheckRejectsUnknownKey(t *testing.T) {
	if _, err := runCmd(t, "check", "NOPE"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestCheckPrintsState(t *testing.T) {
	out, err := runCmd(t, "check", "SPACE")
	var ee exitError
	if err != nil && !errors.As(err, &ee) {
		t.Fatalf("unexpected error: %v", err)
	}
	state := strings.TrimSpace(out)
	switch state {
	case "pressed", "not_pressed", "unsupported":
	default:
		t.Errorf("unexpected output %q", state)
	}
}

func TestKeysLists(t *testing.T) {
	out, err := runCmd(t, "keys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) < 10 {
		t.Errorf("expected a list of key names, got %d lines", len(lines))
	}
}

func TestConfigInitAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, err := runCmd(t, "config", "path", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path printed %q, want %q", out, path)
	}

	if _, err := runCmd(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Hotkey.Key != config.Default().Hotkey.Key {
		t.Errorf("expected default key, got %q", cfg.Hotkey.Key)
	}

	if _, err := runCmd(t, "config", "init", "--config", path); err == nil {
		t.Error("expected refusal to overwrite without --force")
	}
	if _, err := runCmd(t, "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("expected overwrite with --force, got %v", err)
	}
}

func TestClipsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[audio]\nclip_dir = \"" + filepath.ToSlash(filepath.Join(dir, "clips")) + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, "clips", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "no clips") {
		t.Errorf("expected empty listing, got %q", out)
	}
}

type fakeListener struct {
	ready chan struct{}
}

func (l *fakeListener) Start(context.Context, func(), func()) error { return nil }
func (l *fakeListener) Stop()                                       {}
func (l *fakeListener) KeyName() string                             { return "SPACE" }
func (l *fakeListener) Ready() <-chan struct{}                      { return l.ready }

type recordSender struct {
	msgs chan tea.Msg
}

func newRecordSender() *recordSender {
	return &recordSender{msgs: make(chan tea.Msg, 4)}
}

func (r *recordSender) Send(msg tea.Msg) { r.msgs <- msg }

func TestWatchListenerFailedInstallNeverActive(t *testing.T) {
	l := &fakeListener{ready: make(chan struct{})}
	stopped := make(chan error, 1)
	stopped <- errors.New("install keyboard hook for SPACE failed")

	rec := newRecordSender()
	watchListener(context.Background(), rec, l, "hook", stopped, log.New(io.Discard, "", 0))

	if len(rec.msgs) != 1 {
		t.Fatalf("expected 1 status message, got %d", len(rec.msgs))
	}
	msg, ok := (<-rec.msgs).(tui.HookStatusMsg)
	if !ok {
		t.Fatal("expected HookStatusMsg")
	}
	if msg.Active || msg.Err == nil {
		t.Errorf("expected inactive status with error, got %+v", msg)
	}
}

func TestWatchListenerActiveOnceLive(t *testing.T) {
	l := &fakeListener{ready: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error)

	rec := newRecordSender()
	done := make(chan struct{})
	go func() {
		watchListener(ctx, rec, l, "hook", stopped, log.New(io.Discard, "", 0))
		close(done)
	}()

	close(l.ready)
	if msg := (<-rec.msgs).(tui.HookStatusMsg); !msg.Active || msg.Mode != "hook" {
		t.Errorf("expected active hook status, got %+v", msg)
	}

	// Start returns only after cancellation, as it does on shutdown.
	cancel()
	stopped <- context.Canceled
	<-done
	if len(rec.msgs) != 0 {
		t.Errorf("expected no status after shutdown, got %d", len(rec.msgs))
	}
}
