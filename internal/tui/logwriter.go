package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that sends each written line as a DebugLogMsg
// to a Bubble Tea program. Use it as the output for a log.Logger.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter creates a LogWriter that sends debug lines to the given program.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send runs in its own goroutine so a log
// call from inside a Bubble Tea command cannot deadlock the program.
func (w *LogWriter) Write(b []byte) (int, error) {
	entry := parseLine(strings.TrimRight(string(b), "\n"))
	go w.program.Send(DebugLogMsg{Entry: entry})
	return len(b), nil
}

// categories maps a message's leading "word:" to a debug panel column value.
var categories = map[string]string{
	"hook":     "hook",
	"hotkey":   "hook",
	"ptt":      "ptt",
	"capture":  "capture",
	"chime":    "chime",
	"keyboard": "device",
	"device":   "device",
	"theme":    "ui",
}

// parseLine splits "[DEBUG] HH:MM:SS.micros category: message" into fields.
func parseLine(line string) DebugEntry {
	entry := DebugEntry{Category: "debug", Message: line}

	msg := strings.TrimPrefix(line, "[DEBUG] ")
	if len(msg) >= 8 && msg[2] == ':' && msg[5] == ':' {
		if i := strings.IndexByte(msg, ' '); i > 0 {
			entry.Time, msg = msg[:i], msg[i+1:]
		}
	}
	entry.Message = msg

	word := strings.ToLower(msg)
	if i := strings.IndexAny(word, ": "); i > 0 {
		word = word[:i]
	}
	if cat, ok := categories[word]; ok {
		entry.Category = cat
	}
	return entry
}
