package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/pttkey/internal/config"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name       string
	Primary    lipgloss.Color // title, transmit badge, mic meter
	Secondary  lipgloss.Color // labels, key text, border
	Accent     lipgloss.Color // last clip path
	Error      lipgloss.Color // error badge, hook down
	Success    lipgloss.Color // idle badge, hook up
	Warning    lipgloss.Color // hold time, debug category
	Background lipgloss.Color // panel background
	Text       lipgloss.Color // body text
	Dimmed     lipgloss.Color // quit text, debug text, visualizer label
	Separator  lipgloss.Color // debug separator
}

var themes = map[string]Theme{
	"synthwave": {
		Name:       "Synthwave",
		Primary:    lipgloss.Color("#FF6AC1"),
		Secondary:  lipgloss.Color("#00E5FF"),
		Accent:     lipgloss.Color("#B388FF"),
		Error:      lipgloss.Color("#FF8A80"),
		Success:    lipgloss.Color("#64FFDA"),
		Warning:    lipgloss.Color("#FFAB40"),
		Background: lipgloss.Color("#1A1A2E"),
		Text:       lipgloss.Color("#E0E0E0"),
		Dimmed:     lipgloss.Color("#666666"),
		Separator:  lipgloss.Color("#444444"),
	},
	"everforest": {
		Name:       "Everforest",
		Primary:    lipgloss.Color("#A7C080"),
		Secondary:  lipgloss.Color("#7FBBB3"),
		Accent:     lipgloss.Color("#D699B6"),
		Error:      lipgloss.Color("#E67E80"),
		Success:    lipgloss.Color("#83C092"),
		Warning:    lipgloss.Color("#DBBC7F"),
		Background: lipgloss.Color("#2D353B"),
		Text:       lipgloss.Color("#D3C6AA"),
		Dimmed:     lipgloss.Color("#859289"),
		Separator:  lipgloss.Color("#4F585E"),
	},
	"gruvbox": {
		Name:       "Gruvbox",
		Primary:    lipgloss.Color("#FB4934"),
		Secondary:  lipgloss.Color("#83A598"),
		Accent:     lipgloss.Color("#D3869B"),
		Error:      lipgloss.Color("#FB4934"),
		Success:    lipgloss.Color("#B8BB26"),
		Warning:    lipgloss.Color("#FABD2F"),
		Background: lipgloss.Color("#282828"),
		Text:       lipgloss.Color("#EBDBB2"),
		Dimmed:     lipgloss.Color("#928374"),
		Separator:  lipgloss.Color("#504945"),
	},
	"monochrome": {
		Name:       "Monochrome",
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#CCCCCC"),
		Accent:     lipgloss.Color("#AAAAAA"),
		Error:      lipgloss.Color("#FF0000"),
		Success:    lipgloss.Color("#FFFFFF"),
		Warning:    lipgloss.Color("#CCCCCC"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#FFFFFF"),
		Dimmed:     lipgloss.Color("#888888"),
		Separator:  lipgloss.Color("#444444"),
	},
}

// themeOrder defines the fixed cycle order for theme toggling.
var themeOrder = []string{"synthwave", "everforest", "gruvbox", "monochrome"}

// ThemeNames returns the names of all available built-in themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// LoadTheme returns the theme with the given name (case-insensitive).
// Falls back to synthwave if the name is not recognized.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["synthwave"]
}

// NextTheme returns the theme after the given one in the cycle order.
func NextTheme(current string) Theme {
	current = strings.ToLower(current)
	for i, name := range themeOrder {
		if name == current {
			next := themeOrder[(i+1)%len(themeOrder)]
			return themes[next]
		}
	}
	return themes[themeOrder[0]]
}


// RegisterCustomThemes adds the configured themes to the cycle. Unnamed
// themes and names already taken are skipped.
func RegisterCustomThemes(custom []config.CustomTheme) {
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if _, taken := themes[key]; key == "" || taken {
			continue
		}
		themes[key] = Theme{
			Name:       ct.Name,
			Primary:    lipgloss.Color(ct.Primary),
			Secondary:  lipgloss.Color(ct.Secondary),
			Accent:     lipgloss.Color(ct.Accent),
			Error:      lipgloss.Color(ct.Error),
			Success:    lipgloss.Color(ct.Success),
			Warning:    lipgloss.Color(ct.Warning),
			Background: lipgloss.Color(ct.Background),
			Text:       lipgloss.Color(ct.Text),
			Dimmed:     lipgloss.Color(ct.Dimmed),
			Separator:  lipgloss.Color(ct.Separator),
		}
		themeOrder = append(themeOrder, key)
	}
}

// styles is every lipgloss style the view renders with, derived from a Theme.
type styles struct {
	title, border, label, key, hint, body lipgloss.Style
	idle, transmitting, fault             lipgloss.Style
	clip, hold, ok, bad                   lipgloss.Style
	meter, meterLabel                     lipgloss.Style
	dbgTitle, dbgRule, dbgHeader, dbgTime lipgloss.Style
	dbgCategory, dbgMsg, dbgSep           lipgloss.Style
}

var st = newStyles(themes["synthwave"])

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Background(t.Background)
	}
	return styles{
		title:  fg(t.Primary).Bold(true).MarginBottom(1),
		border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Secondary).Padding(1, 2).Background(t.Background),
		label:  fg(t.Secondary).Bold(true),
		key:    fg(t.Secondary),
		hint:   fg(t.Dimmed),
		body:   fg(t.Text),

		idle:         fg(t.Success).Bold(true),
		transmitting: fg(t.Primary).Bold(true),
		fault:        fg(t.Error).Bold(true),

		clip: fg(t.Accent).Italic(true),
		hold: fg(t.Warning),
		ok:   fg(t.Success).Bold(true),
		bad:  fg(t.Error).Bold(true),

		meter:      fg(t.Primary),
		meterLabel: fg(t.Dimmed),

		dbgTitle:    fg(t.Dimmed).Bold(true),
		dbgRule:     fg(t.Dimmed),
		dbgHeader:   fg(t.Dimmed).Bold(true),
		dbgTime:     fg(t.Dimmed),
		dbgCategory: fg(t.Warning),
		dbgMsg:      fg(t.Dimmed),
		dbgSep:      fg(t.Separator),
	}
}

// applyTheme switches the styles the view renders with.
func applyTheme(t Theme) {
	st = newStyles(t)
}
