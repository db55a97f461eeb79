package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// The border takes 2 columns and the padding 4. lipgloss Width() includes
// padding but not the border.
const (
	panelWidth         = 80
	panelWidthForStyle = panelWidth - 2
	panelContentWidth  = panelWidth - 6
)

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	label := "  PTTKEY  "
	bars := panelContentWidth - len(label)
	b.WriteString(st.title.Render(strings.Repeat("▓", bars/2) + label + strings.Repeat("▓", bars-bars/2)))
	b.WriteString("\n")
	b.WriteString(m.renderHookLine())
	b.WriteString("\n\n")

	b.WriteString(st.label.Render("Status:  "))
	b.WriteString(m.renderBadge())
	if m.State == StateTransmitting && m.Capture != nil {
		b.WriteString(st.body.Render("  "))
		b.WriteString(m.renderMeter())
	}
	b.WriteString("\n\n")

	b.WriteString(st.label.Render("Presses: "))
	b.WriteString(st.body.Render(fmt.Sprintf("%d", m.Presses)))
	if m.LastHold > 0 {
		b.WriteString(st.label.Render("   Last hold: "))
		b.WriteString(st.hold.Render(formatHold(m.LastHold)))
	}
	b.WriteString("\n")

	if m.Capture != nil {
		b.WriteString(st.label.Render("Last clip: "))
		if m.LastClip != "" {
			b.WriteString(st.clip.Render(filepath.Base(m.LastClip)))
		} else {
			b.WriteString(st.body.Render("(none yet)"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(st.key.Render(fmt.Sprintf("Key: %s (hold to talk)", strings.TrimPrefix(m.KeyName, "KEY_"))))
	b.WriteString("\n")
	hints := fmt.Sprintf("t theme (%s)  q quit", m.ThemeName)
	if m.LastClip != "" {
		hints = "y copy clip path  " + hints
	}
	b.WriteString(st.hint.Render(hints))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return st.border.Width(panelWidthForStyle).Render(b.String())
}

func formatHold(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func (m Model) renderHookLine() string {
	var hook string
	switch {
	case !m.hookKnown:
		hook = st.hint.Render("...")
	case m.HookActive:
		hook = st.ok.Render("✓") + st.hint.Render(" ("+m.HookMode+")")
	default:
		hook = st.bad.Render("✗") + st.hint.Render(" ("+m.HookMode+")")
	}
	line := st.hint.Render("Hook: ") + hook
	if m.Capture == nil {
		return line + st.hint.Render("  Capture: off")
	}

	mic := st.hint.Render("...")
	if m.micChecked {
		if m.MicDetected {
			mic = st.ok.Render("✓")
			if m.MicDeviceName != "" {
				mic += st.hint.Render(" (" + m.MicDeviceName + ")")
			}
		} else {
			mic = st.bad.Render("✗")
		}
	}
	return line + st.hint.Render("  Mic: ") + mic
}

func (m Model) renderBadge() string {
	switch m.State {
	case StateTransmitting:
		return st.transmitting.Render("● Transmitting")
	case StateError:
		text := m.LastError
		if len(text) > 50 {
			text = text[:50] + "..."
		}
		return st.fault.Render("● Error: " + text)
	default:
		return st.idle.Render("● Idle")
	}
}

const meterWidth = 20

func (m Model) renderMeter() string {
	filled := int(math.Round(math.Sqrt(m.AudioLevel) * meterWidth))
	filled = max(0, min(filled, meterWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	return st.meterLabel.Render("Mic  ") + st.meter.Render(bar)
}

const debugPanelMaxLines = 5

// Debug table columns; a row must fit in panelContentWidth.
const (
	colTimeWidth     = 15
	colCategoryWidth = 10
	colSepWidth      = 3
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - colSepWidth*2
)

func truncate(s string, width int, ellipsis bool) string {
	if len(s) <= width {
		return s
	}
	if ellipsis {
		return s[:width-3] + "..."
	}
	return s[:width]
}

func (m Model) renderDebugPanel() string {
	sep := st.dbgSep.Render(" │ ")
	rule := st.dbgRule.Render(strings.Repeat("─", panelContentWidth))
	row := func(at, cat, msg string, header bool) string {
		ts, cs, ms := st.dbgTime, st.dbgCategory, st.dbgMsg
		if header {
			ts, cs, ms = st.dbgHeader, st.dbgHeader, st.dbgHeader
		}
		return ts.Width(colTimeWidth).Render(at) + sep +
			cs.Width(colCategoryWidth).Render(cat) + sep +
			ms.Width(colMsgWidth).Render(msg)
	}

	lines := []string{st.dbgTitle.Render("Debug"), rule, row("TIME", "TYPE", "MESSAGE", true), rule}

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, e := range entries {
		lines = append(lines, row(
			truncate(e.Time, colTimeWidth, false),
			truncate(e.Category, colCategoryWidth, false),
			truncate(e.Message, colMsgWidth, true),
			false))
	}
	return strings.Join(lines, "\n")
}
