// Package stats shows bank counts and how the current session went.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// StatsScreen is read-only; esc returns.
type StatsScreen struct {
	svc *session.Service
}

var _ screen.Screen = (*StatsScreen)(nil)

// New creates the stats screen.
func New(svc *session.Service) *StatsScreen {
	return &StatsScreen{svc: svc}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	bk := s.svc.Bank()
	st := bk.Stats()
	p := s.svc.Builder().Profile()
	inner := min(max(width-8, 20), 70)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Bank"))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%s  ·  import %s", bk.Source(), shortID(bk.ImportID()))))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Answered", st.Answered, st.Total, inner).View())
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions: %d unanswered, %d answered", st.Total, st.Unanswered, st.Answered)))
	b.WriteString("\n\n")
	for _, name := range profile.KnownTypes {
		n := st.ByType[question.Type(name)]
		if n == 0 {
			continue
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("  %-8s %d", p.HeaderLabel(name), n)) + "\n")
	}

	sum := s.svc.Summary()
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("This session"))
	b.WriteString("\n")
	if sum.TotalAnswered == 0 {
		b.WriteString(theme.Hint.Render("No answers yet."))
	} else {
		mins := int(sum.Duration.Minutes())
		secs := int(sum.Duration.Seconds()) % 60
		b.WriteString(theme.Body.Render(fmt.Sprintf("Answered: %d   Correct: %d   Accuracy: %.0f%%   Time: %d:%02d",
			sum.TotalAnswered, sum.TotalCorrect, sum.Accuracy*100, mins, secs)))
		b.WriteString("\n\n")
		for _, name := range profile.KnownTypes {
			r, ok := sum.ByType[question.Type(name)]
			if !ok {
				continue
			}
			b.WriteString(theme.Body.Render(fmt.Sprintf("  %-8s %d/%d correct", p.HeaderLabel(name), r.Correct, r.Attempted)) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 4).Render(b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
