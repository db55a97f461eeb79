package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

const clipPrefix = "ptt-"

// ClipName is the file name a clip captured at t is saved under.
func ClipName(t time.Time) string {
	return clipPrefix + t.Format("20060102-150405.000") + ".wav"
}

// SaveClip writes c into dir, creating dir if needed, and returns the path.
func SaveClip(dir string, c Clip, at time.Time) (string, error) {
	if len(c.WAV) == 0 {
		return "", ErrNoSignal
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create clip dir: %w", err)
	}
	path := filepath.Join(dir, ClipName(at))
	if err := os.WriteFile(path, c.WAV, 0o644); err != nil {
		return "", fmt.Errorf("write clip: %w", err)
	}
	return path, nil
}

// ClipInfo describes a saved clip.
type ClipInfo struct {
	Path       string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// ReadClipInfo decodes the header of the WAV at path.
func ReadClipInfo(path string) (ClipInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ClipInfo{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return ClipInfo{}, fmt.Errorf("%s: not a WAV file", path)
	}
	d, err := dec.Duration()
	if err != nil {
		return ClipInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return ClipInfo{
		Path:       path,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Duration:   d,
	}, nil
}

// ListClips returns the clips in dir, oldest first. A missing dir is empty.
// Files that fail to decode are skipped.
func ListClips(dir string) ([]ClipInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), clipPrefix) || filepath.Ext(e.Name()) != ".wav" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	clips := make([]ClipInfo, 0, len(names))
	for _, n := range names {
		info, err := ReadClipInfo(filepath.Join(dir, n))
		if err != nil {
			continue
		}
		clips = append(clips, info)
	}
	return clips, nil
}
