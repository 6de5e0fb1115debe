package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional label and percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a bar filled to done/total.
func NewProgressBar(label string, done, total, width int) ProgressBar {
	var pct float64
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	return ProgressBar{Label: label, Percent: pct, ShowPercent: true, Width: width}
}

// View renders the bar in Width columns.
func (p ProgressBar) View() string {
	var out string
	if p.Label != "" {
		out = theme.Body.Render(p.Label) + "  "
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6
	}
	barWidth := max(p.Width-lipgloss.Width(out)-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	out += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		out += theme.Dim.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}
	return out
}
