package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evgengiga/dashbord/internal/dashboard"
)

// Theme names accepted by GetTheme.
const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title           lipgloss.Style
	Subtitle        lipgloss.Style
	Normal          lipgloss.Style
	Bold            lipgloss.Style
	Header          lipgloss.Style
	Selected        lipgloss.Style
	Total           lipgloss.Style
	Favorable       lipgloss.Style
	Unfavorable     lipgloss.Style
	HeatHigh        lipgloss.Style
	HeatMid         lipgloss.Style
	HeatLow         lipgloss.Style
	Link            lipgloss.Style
	Placeholder     lipgloss.Style
	StatusDefault   lipgloss.Style
	StatusCompleted lipgloss.Style
	StatusWaiting   lipgloss.Style
	StatusActive    lipgloss.Style
	StatusError     lipgloss.Style
	StatusWarning   lipgloss.Style
	StatusInfo      lipgloss.Style
	ErrorBanner     lipgloss.Style
	BorderedBox     lipgloss.Style
	Name            string
	Primary         lipgloss.Color
	Muted           lipgloss.Color
	Border          lipgloss.Color
	Foreground      lipgloss.Color
	Background      lipgloss.Color
	Error           lipgloss.Color
}

type palette struct {
	name       string
	primary    string
	foreground string
	background string
	muted      string
	border     string
	highlight  string
	success    string
	warning    string
	danger     string
	info       string
	heatHigh   string
	heatMid    string
	heatLow    string
}

func build(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	return Theme{
		Name:       p.name,
		Primary:    lipgloss.Color(p.primary),
		Muted:      lipgloss.Color(p.muted),
		Border:     lipgloss.Color(p.border),
		Foreground: fg,
		Background: lipgloss.Color(p.background),
		Error:      lipgloss.Color(p.danger),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.highlight)).
			Foreground(fg).
			Bold(true),
		Total: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Favorable: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)),
		Unfavorable: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)),
		HeatHigh: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.heatHigh)).
			Bold(true),
		HeatMid: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.heatMid)),
		HeatLow: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.heatLow)),
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Underline(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),

		StatusDefault: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		StatusCompleted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)),
		StatusWaiting: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)),
		StatusActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)),

		ErrorBanner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.danger)).
			Foreground(lipgloss.Color(p.danger)).
			Padding(0, 2),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
	}
}

// Dark is the default theme.
var Dark = build(palette{
	name:       NameDark,
	primary:    "#a78bfa",
	foreground: "#fafafa",
	background: "#1a1a1a",
	muted:      "#737373",
	border:     "#404040",
	highlight:  "#3f3f46",
	success:    "#10b981",
	warning:    "#f59e0b",
	danger:     "#ef4444",
	info:       "#60a5fa",
	heatHigh:   "#34d399",
	heatMid:    "#fbbf24",
	heatLow:    "#f87171",
})

// Light suits terminals with a light background.
var Light = build(palette{
	name:       NameLight,
	primary:    "#6d28d9",
	foreground: "#171717",
	background: "#fafafa",
	muted:      "#737373",
	border:     "#d4d4d4",
	highlight:  "#e4e4e7",
	success:    "#047857",
	warning:    "#b45309",
	danger:     "#b91c1c",
	info:       "#1d4ed8",
	heatHigh:   "#047857",
	heatMid:    "#a16207",
	heatLow:    "#b91c1c",
})

// GetTheme returns a theme by name, falling back to Dark.
func GetTheme(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), NameLight) {
		return Light
	}
	return Dark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == NameLight {
		return Dark
	}
	return Light
}

// Cell returns the style for a cell visual class.
func (t Theme) Cell(class dashboard.VisualClass) lipgloss.Style {
	switch class {
	case dashboard.ClassFavorable:
		return t.Favorable
	case dashboard.ClassUnfavorable:
		return t.Unfavorable
	case dashboard.ClassHeatHigh:
		return t.HeatHigh
	case dashboard.ClassHeatMid:
		return t.HeatMid
	case dashboard.ClassHeatLow:
		return t.HeatLow
	default:
		return t.Normal
	}
}

// Status returns the style for a detail record status.
func (t Theme) Status(class dashboard.StatusClass) lipgloss.Style {
	switch class {
	case dashboard.StatusCompleted:
		return t.StatusCompleted
	case dashboard.StatusWaiting:
		return t.StatusWaiting
	case dashboard.StatusActive:
		return t.StatusActive
	default:
		return t.StatusDefault
	}
}
