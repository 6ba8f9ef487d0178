package styles

import "github.com/charmbracelet/lipgloss"

// Palette is one set of terminal colors; the active palette is swapped
// at runtime when the user toggles the theme.
type Palette struct {
	Background string
	Surface    string
	Foreground string
	Muted      string
	Accent     string
	Live       string
	Warning    string
	Danger     string
	Info       string
}

// Dark is the default palette (Dracula-derived)
var Dark = Palette{
	Background: "#282a36",
	Surface:    "#44475a",
	Foreground: "#f8f8f2",
	Muted:      "#6272a4",
	Accent:     "#bd93f9",
	Live:       "#50fa7b",
	Warning:    "#f1fa8c",
	Danger:     "#ff5555",
	Info:       "#8be9fd",
}

// Light is the alternate palette
var Light = Palette{
	Background: "#fafafa",
	Surface:    "#e4e4e7",
	Foreground: "#27272a",
	Muted:      "#71717a",
	Accent:     "#7c3aed",
	Live:       "#16a34a",
	Warning:    "#ca8a04",
	Danger:     "#dc2626",
	Info:       "#0284c7",
}

var (
	AppStyle lipgloss.Style

	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style

	StatusBarStyle       lipgloss.Style
	StatusBarActiveStyle lipgloss.Style
	StatusBarDangerStyle lipgloss.Style

	SectionHeaderStyle lipgloss.Style

	ListItemStyle         lipgloss.Style
	ListItemSelectedStyle lipgloss.Style

	CardStyle      lipgloss.Style
	CardTitleStyle lipgloss.Style

	ScoreStyle    lipgloss.Style
	MinuteStyle   lipgloss.Style
	TeamNameStyle lipgloss.Style

	BadgeLiveStyle     lipgloss.Style
	BadgeNeutralStyle  lipgloss.Style
	BadgeFinishedStyle lipgloss.Style

	ChatUserStyle   lipgloss.Style
	ChatSystemStyle lipgloss.Style
	ChatTimeStyle   lipgloss.Style
	TypingStyle     lipgloss.Style

	InputPromptStyle lipgloss.Style

	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	HelpStyle    lipgloss.Style

	StatBarHome  lipgloss.Style
	StatBarAway  lipgloss.Style
	DividerStyle lipgloss.Style
)

// Apply rebuilds every style from the given palette
func Apply(p Palette) {
	AppStyle = lipgloss.NewStyle().
		Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Accent)).
		Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Info))

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Background(lipgloss.Color(p.Surface)).
		Padding(0, 1)

	StatusBarActiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Live)).
		Background(lipgloss.Color(p.Surface)).
		Bold(true).
		Padding(0, 1)

	StatusBarDangerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Danger)).
		Background(lipgloss.Color(p.Surface)).
		Bold(true).
		Padding(0, 1)

	SectionHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Info)).
		MarginTop(1)

	ListItemStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		PaddingLeft(2)

	ListItemSelectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Accent)).
		Bold(true).
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(p.Accent))

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Accent)).
		Padding(1, 2).
		MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Accent)).
		Bold(true)

	ScoreStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Foreground))

	MinuteStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Live)).
		Bold(true)

	TeamNameStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground))

	BadgeLiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Background)).
		Background(lipgloss.Color(p.Live)).
		Bold(true).
		Padding(0, 1)

	BadgeNeutralStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Background)).
		Background(lipgloss.Color(p.Muted)).
		Padding(0, 1)

	BadgeFinishedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Background)).
		Background(lipgloss.Color(p.Warning)).
		Padding(0, 1)

	ChatUserStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Info)).
		Bold(true)

	ChatSystemStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Italic(true)

	ChatTimeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted))

	TypingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Italic(true)

	InputPromptStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Accent)).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Danger)).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Warning)).
		Bold(true)

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Info)).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Italic(true)

	StatBarHome = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Accent))

	StatBarAway = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Info))

	DividerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Surface))
}

func init() {
	Apply(Dark)
}

// Truncate truncates text to maxLen runes and adds "..." if needed.
// Counting runes keeps accented team and player names intact.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// RenderDivider renders a horizontal divider
func RenderDivider(width int) string {
	divider := ""
	for i := 0; i < width; i++ {
		divider += "─"
	}
	return DividerStyle.Render(divider)
}

// RenderStatBar renders one home/away statistic as opposing bars
func RenderStatBar(home, away, width int) string {
	total := home + away
	if width < 2 {
		width = 2
	}
	homeWidth := width / 2
	if total > 0 {
		homeWidth = width * home / total
	}

	bar := ""
	for i := 0; i < homeWidth; i++ {
		bar += "█"
	}
	left := StatBarHome.Render(bar)

	bar = ""
	for i := homeWidth; i < width; i++ {
		bar += "█"
	}
	return left + StatBarAway.Render(bar)
}
