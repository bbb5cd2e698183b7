package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 20

// ruleWidth is the length of the rule drawn under section headers.
var ruleWidth = 66

// SetRuleWidth sets the section rule length. Values below 20 are ignored.
func SetRuleWidth(w int) {
	if w >= 20 {
		ruleWidth = w
	}
}

// cells splits width into filled and empty cells for frac in [0,1].
func cells(frac float64, width int) (filled, empty int) {
	if width <= 0 {
		width = defaultBarWidth
	}
	filled = int(frac * float64(width))
	filled = max(0, min(width, filled))
	return filled, width - filled
}

// scoreStyle grades a 0-100 score: 70 and up is good, below 40 is poor.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 70:
		return StyleSuccess
	case score >= 40:
		return StyleWarning
	}
	return StyleError
}

// ScoreBar draws a 0-100 score such as the sustainability score, for
// example "██████████░░░░░░░░░░ 50/100".
func ScoreBar(score float64, width int) string {
	on, off := cells(score/100, width)
	bar := strings.Repeat("█", on) + strings.Repeat("░", off)
	return scoreStyle(score).Render(bar) + " " + StyleMuted.Render(fmt.Sprintf("%.0f/100", score))
}

// ShareBar draws count out of total, used for category breakdowns.
func ShareBar(count, total, width int) string {
	frac := 0.0
	if total > 0 {
		frac = float64(count) / float64(total)
	}
	on, off := cells(frac, width)
	return StyleSuccess.Render(strings.Repeat("▇", on)) + StyleMuted.Render(strings.Repeat("·", off))
}

// TrendArrow marks a metric change between two track snapshots. Green means
// the change went the good way for the metric.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}
	label := fmt.Sprintf("▼ %.1f", delta)
	if delta > 0 {
		label = fmt.Sprintf("▲ +%.1f", delta)
	}
	if (delta > 0) == higherIsBetter {
		return StyleSuccess.Render(label)
	}
	return StyleError.Render(label)
}

// Section renders a header followed by a rule.
func Section(title string) string {
	return "\n " + StyleHeader.Render(title) + "\n " + StyleMuted.Render(strings.Repeat("─", ruleWidth))
}

// KeyValue renders one aligned label/value line.
func KeyValue(label, value string) string {
	return " " + StyleLabel.Render(label) + StyleValue.Render(value)
}
