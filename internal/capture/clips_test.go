package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClipName(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 7, 250_000_000, time.UTC)
	if got, want := ClipName(at), "ptt-20260309-140507.250.wav"; got != want {
		t.Errorf("ClipName = %q, want %q", got, want)
	}
}

func TestSaveClipAndReadInfo(t *testing.T) {
	data, err := EncodeWAV(sine(8000, 16000), 16000)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "nested", "clips")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	path, err := SaveClip(dir, Clip{WAV: data, SampleRate: 16000}, at)
	if err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("clip saved to %s, want dir %s", path, dir)
	}

	info, err := ReadClipInfo(path)
	if err != nil {
		t.Fatalf("ReadClipInfo: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 {
		t.Errorf("unexpected format: %+v", info)
	}
	if info.Duration != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", info.Duration)
	}
}

func TestSaveClipEmpty(t *testing.T) {
	_, err := SaveClip(t.TempDir(), Clip{}, time.Now())
	if !errors.Is(err, ErrNoSignal) {
		t.Errorf("expected ErrNoSignal, got %v", err)
	}
}

func TestListClips(t *testing.T) {
	dir := t.TempDir()
	data, err := EncodeWAV(sine(1600, 16000), 16000)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, off := range []time.Duration{2 * time.Second, 0, time.Second} {
		if _, err := SaveClip(dir, Clip{WAV: data}, base.Add(off)); err != nil {
			t.Fatal(err)
		}
	}
	// Not clips: wrong prefix, wrong extension, undecodable.
	os.WriteFile(filepath.Join(dir, "notes.wav"), data, 0o644)
	os.WriteFile(filepath.Join(dir, "ptt-x.txt"), data, 0o644)
	os.WriteFile(filepath.Join(dir, "ptt-broken.wav"), []byte("nope"), 0o644)

	clips, err := ListClips(dir)
	if err != nil {
		t.Fatalf("ListClips: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(clips))
	}
	for i, off := range []time.Duration{0, time.Second, 2 * time.Second} {
		if want := ClipName(base.Add(off)); filepath.Base(clips[i].Path) != want {
			t.Errorf("clip %d: got %s, want %s", i, filepath.Base(clips[i].Path), want)
		}
	}
}

func TestListClipsMissingDir(t *testing.T) {
	clips, err := ListClips(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(clips) != 0 {
		t.Errorf("expected empty result, got %v, %v", clips, err)
	}
}
