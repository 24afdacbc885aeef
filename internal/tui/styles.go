package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#fdba74")
	muted   = lipgloss.Color("#78716c")
	danger  = lipgloss.Color("#ef4444")
	surface = lipgloss.Color("#44403c")
)

// Styles groups the lipgloss styles used by the browser.
type Styles struct {
	Header   lipgloss.Style
	Button   lipgloss.Style
	Sidebar  lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
	Notice   lipgloss.Style
	Form     lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Disputed lipgloss.Style
	Spinner  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Button:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#1c1917")).Background(accent),
		Sidebar:  lipgloss.NewStyle().PaddingRight(2).MarginRight(1).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(surface),
		Selected: lipgloss.NewStyle().Bold(true).Underline(true),
		Item:     lipgloss.NewStyle(),
		Cursor:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Notice:   lipgloss.NewStyle().Foreground(danger),
		Form:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(surface).Padding(0, 1).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(muted).Width(10),
		Focused:  lipgloss.NewStyle().Foreground(accent).Bold(true).Width(10),
		Disputed: lipgloss.NewStyle().Foreground(danger).Bold(true),
		Spinner:  lipgloss.NewStyle().Foreground(accent),
	}
}

// Tag renders a category name in its color. An empty color leaves it plain.
func (s Styles) Tag(name, color string) string {
	st := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if color != "" {
		st = st.Background(lipgloss.Color(color)).Foreground(lipgloss.Color("#ffffff"))
	}
	return st.Render("#" + name)
}
