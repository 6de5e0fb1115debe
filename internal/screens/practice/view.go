package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return centered(width, height, theme.Dim.Render("…"))
	case phaseDone:
		return s.renderDone(width, height)
	case phaseError:
		return centered(width, height, theme.ErrorText.Render(s.errMsg)+"\n\n"+theme.Hint.Render("Esc to go back"))
	}
	return s.renderQuestion(width, height)
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *PracticeScreen) renderDone(width, height int) string {
	msg := theme.Title.Render("Every question has been answered.")
	if s.answeredHere > 0 {
		msg += "\n\n" + theme.Body.Render(fmt.Sprintf("This round: %d / %d correct", s.correctHere, s.answeredHere))
	}
	msg += "\n\n" + theme.Hint.Render("Move questions back from the Answered list to practise them again.")
	return centered(width, height, msg)
}

func (s *PracticeScreen) renderQuestion(width, height int) string {
	inner := max(width-8, 20)
	var b strings.Builder

	p := s.svc.Builder().Profile()
	st := s.svc.Bank().Stats()
	b.WriteString(theme.Label.Render(p.HeaderLabel(string(s.q.Type))))
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  #%d  ·  %d left", s.q.SequenceIndex+1, st.Unanswered)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Render(s.q.DisplayText()))
	b.WriteString("\n\n")

	if s.q.Type == question.FillBlank {
		for _, in := range s.inputs {
			b.WriteString(in.View() + "\n")
		}
	} else {
		b.WriteString(s.choices.View())
	}

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(inner))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (s *PracticeScreen) renderFeedback(width int) string {
	var b strings.Builder
	if s.result.Correct {
		b.WriteString(theme.Correct.Render("✓ Correct"))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Incorrect"))
	}
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("Your answer:    ") + theme.Body.Render(s.result.Given) + "\n")
	b.WriteString(theme.Dim.Render("Correct answer: ") + theme.Correct.Render(s.result.Expected) + "\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("not saved: "+s.errMsg) + "\n")
	}

	switch {
	case s.explaining:
		b.WriteString("\n" + theme.Hint.Render("Asking for an explanation…"))
	case s.explainErr != nil:
		b.WriteString("\n" + theme.ErrorText.Render("Explanation unavailable: "+s.explainErr.Error()))
	case s.explanation != nil:
		b.WriteString("\n" + renderExplanation(s.explanation.Summary, s.explanation.Steps, s.explanation.Pitfall, width))
	}
	return b.String()
}

func renderExplanation(summary string, steps []string, pitfall string, width int) string {
	var b strings.Builder
	b.WriteString(summary)
	for i, step := range steps {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, step)
	}
	if pitfall != "" {
		b.WriteString("\n\nWatch out: " + pitfall)
	}
	return theme.Card.Width(width).Render(b.String())
}
