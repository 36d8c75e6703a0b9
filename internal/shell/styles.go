package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.Color("#00C832")
	amber  = lipgloss.Color("#FFB000")
	red    = lipgloss.Color("#FF5F56")
	silver = lipgloss.Color("#AAAAAA")
)

type styles struct {
	header lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	muted  lipgloss.Style
}

// newStyles binds the palette to out. Colors are dropped when out is not a
// terminal, so piped or captured output stays plain.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header: r.NewStyle().Foreground(green).Bold(true),
		warn:   r.NewStyle().Foreground(amber),
		err:    r.NewStyle().Foreground(red).Bold(true),
		muted:  r.NewStyle().Foreground(silver),
	}
}
