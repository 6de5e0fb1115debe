// Package preview shows one question read-only with its answer.
package preview

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// PreviewScreen scrolls through a rendered question.
type PreviewScreen struct {
	pv    bank.Preview
	vp    viewport.Model
	width int
}

var _ screen.Screen = (*PreviewScreen)(nil)
var _ screen.KeyHintProvider = (*PreviewScreen)(nil)

// New creates a preview of pv.
func New(pv bank.Preview) *PreviewScreen {
	vp := viewport.New()
	vp.SoftWrap = true
	return &PreviewScreen{pv: pv, vp: vp}
}

func (p *PreviewScreen) Init() tea.Cmd {
	return nil
}

func (p *PreviewScreen) Title() string {
	return fmt.Sprintf("Question #%d", p.pv.Order)
}

func (p *PreviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PreviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

func (p *PreviewScreen) View(width, height int) string {
	inner := max(width-8, 20)
	if inner != p.width {
		p.width = inner
		p.vp.SetContent(Render(p.pv, inner))
	}
	p.vp.SetWidth(inner)
	p.vp.SetHeight(max(height-2, 1))
	return lipgloss.NewStyle().Padding(1, 4).Render(p.vp.View())
}

// Render lays out a preview: label and order, the text, the options and
// the answer.
func Render(pv bank.Preview, width int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(pv.Label))
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  #%d", pv.Order)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(pv.Text))
	b.WriteString("\n\n")
	for _, c := range pv.Choices {
		b.WriteString(theme.Body.Render(fmt.Sprintf("  %s. %s", c.Letter, c.Text)) + "\n")
	}
	if pv.Blanks > 0 {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  %d blank(s)", pv.Blanks)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("Answer: ") + theme.Correct.Render(pv.Answer))
	return b.String()
}
