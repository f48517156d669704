package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header     lipgloss.Style
	Subtitle   lipgloss.Style
	ListHeader lipgloss.Style
	ListItem   lipgloss.Style
	ListIndex  lipgloss.Style
	Textarea   lipgloss.Style
	Help       lipgloss.Style
	Footer     lipgloss.Style
	Accent     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Thinking   lipgloss.Style
	Status     lipgloss.Style
	Subtle     lipgloss.Style
	Tree       lipgloss.Style

	DiffMeta lipgloss.Style
	DiffHunk lipgloss.Style
	DiffAdd  lipgloss.Style
	DiffDel  lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			Faint(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),

		ListHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			PaddingLeft(2),

		ListIndex: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true),

		Textarea: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AD8CFF")),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")).
			Bold(true),

		Thinking: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		Status: lipgloss.NewStyle().
			Background(lipgloss.Color("#AD8CFF")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),

		Tree: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			PaddingLeft(2),

		DiffMeta: lipgloss.NewStyle().Bold(true),
		DiffHunk: lipgloss.NewStyle().Foreground(lipgloss.Color("#00B7C7")),
		DiffAdd:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3DDC97")),
		DiffDel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5C5C")),
	}
}

// PlainStyles renders everything unstyled, for --plain and non-terminal output.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Header: s, Subtitle: s, ListHeader: s, ListItem: s.PaddingLeft(2), ListIndex: s,
		Textarea: s, Help: s, Footer: s, Accent: s, Error: s, Success: s, Thinking: s,
		Status: s, Subtle: s, Tree: s.PaddingLeft(2),
		DiffMeta: s, DiffHunk: s, DiffAdd: s, DiffDel: s,
	}
}
