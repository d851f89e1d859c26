package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Colour palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourError)
)

// printer renders styled lines when the command writes to a terminal and
// plain text otherwise.
type printer struct {
	cmd    *cobra.Command
	styled bool
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{cmd: cmd, styled: isTerminal(cmd.OutOrStdout())}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Title prints a heading underlined to its width.
func (p *printer) Title(s string) {
	p.cmd.Println(p.render(titleStyle, s))
	if !p.styled {
		p.cmd.Println(strings.Repeat("=", len(s)))
	}
	p.cmd.Println()
}

func (p *printer) Printf(format string, args ...any) {
	p.cmd.Printf(format, args...)
}

func (p *printer) Muted(s string) {
	p.cmd.Println(p.render(mutedStyle, s))
}

func (p *printer) Success(s string) {
	p.cmd.Println(p.render(successStyle, s))
}

func (p *printer) Warning(s string) {
	p.cmd.Println(p.render(warningStyle, s))
}

func (p *printer) Error(s string) {
	p.cmd.Println(p.render(errorStyle, s))
}
