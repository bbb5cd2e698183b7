// Package output provides styled terminal rendering helpers for closetwatch.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette used by the Style* variables.
var (
	ColorPrimary = lipgloss.Color("#7e57c2") // headers
	ColorSuccess = lipgloss.Color("#43a047") // improvements, well-used items
	ColorError   = lipgloss.Color("#e53935") // regressions, unworn items
	ColorWarning = lipgloss.Color("#ffb300")
	ColorMuted   = lipgloss.Color("#9e9e9e") // rules, timestamps, secondary text
	ColorEco     = lipgloss.Color("#2e7d32")
)

// Styles provides reusable lipgloss styles. They are rebuilt by SetNoColor.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleEco     lipgloss.Style
	StyleBold    lipgloss.Style
	StyleLabel   lipgloss.Style
	StyleValue   lipgloss.Style
)

func init() {
	applyStyles(true)
}

var noColor bool

// SetNoColor switches every Style* variable to plain or colored rendering.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(!disabled)
}

// IsNoColor reports whether output is plain.
func IsNoColor() bool {
	return noColor
}

// AutoDetectColor disables color when stdout is not a terminal or NO_COLOR
// is set.
func AutoDetectColor() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		SetNoColor(true)
	}
}

func applyStyles(color bool) {
	if !color {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleSuccess = plain
		StyleError = plain
		StyleWarning = plain
		StyleMuted = plain
		StyleEco = plain
		StyleBold = plain
		StyleLabel = plain.Width(26)
		StyleValue = plain
		return
	}
	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleEco = lipgloss.NewStyle().Foreground(ColorEco).Bold(true)
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleLabel = lipgloss.NewStyle().Width(26)
	StyleValue = lipgloss.NewStyle().Bold(true)
}
