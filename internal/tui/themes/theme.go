package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	Cursor        lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	Modal         lipgloss.Style
	RoundedBox    lipgloss.Style
	Help          lipgloss.Style
	Spinner       lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default clinical blue theme.
var Default = newTheme(palette{
	primary:    "#3A86FF",
	secondary:  "#8ECAE6",
	success:    "#06D6A0",
	warning:    "#FFD166",
	errColor:   "#EF476F",
	info:       "#8ECAE6",
	foreground: "#F5F7FA",
	border:     "#3D4451",
	muted:      "#7A8290",
	subtle:     "#A9B1BD",
	onPrimary:  "#0B1320",
	highlight:  "#1F2A3A",
})

// HighContrast favours legibility on reading-room monitors.
var HighContrast = newTheme(palette{
	primary:    "#FFFFFF",
	secondary:  "#FFD166",
	success:    "#00FF87",
	warning:    "#FFD700",
	errColor:   "#FF5F5F",
	info:       "#5FD7FF",
	foreground: "#FFFFFF",
	border:     "#FFFFFF",
	muted:      "#BCBCBC",
	subtle:     "#E4E4E4",
	onPrimary:  "#000000",
	highlight:  "#303030",
})

type palette struct {
	primary, secondary, success, warning, errColor, info    string
	foreground, border, muted, subtle, onPrimary, highlight string
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Success:    lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.errColor),
		Info:       lipgloss.Color(p.info),
		Foreground: lipgloss.Color(p.foreground),
		Border:     lipgloss.Color(p.border),
		Muted:      lipgloss.Color(p.muted),

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.foreground)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)).
			Width(18),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(p.highlight)).
			Foreground(lipgloss.Color(p.foreground)).
			Bold(true),

		// Component styles
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.primary)).
			Padding(1, 3),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			MarginTop(1),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.primary)),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),
	}
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "high-contrast":
		return HighContrast
	default:
		return Default
	}
}
