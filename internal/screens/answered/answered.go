// Package answered lists answered questions, newest first, and lets the
// learner preview, move back or delete them.
package answered

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/preview"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

// changedMsg reports a move back or delete.
type changedMsg struct {
	verb string
	n    int
	err  error
}

// AnsweredScreen is the answered list.
type AnsweredScreen struct {
	svc     *session.Service
	items   []bank.Preview
	cursor  int
	offset  int
	confirm bool
	status  string
	errMsg  string
}

var _ screen.Screen = (*AnsweredScreen)(nil)
var _ screen.KeyHintProvider = (*AnsweredScreen)(nil)
var _ screen.EscapeCapturer = (*AnsweredScreen)(nil)

// New creates the answered list.
func New(svc *session.Service) *AnsweredScreen {
	a := &AnsweredScreen{svc: svc}
	a.reload()
	return a
}

func (a *AnsweredScreen) reload() {
	a.items = a.svc.Bank().AnsweredPreviews()
	a.cursor = min(a.cursor, max(len(a.items)-1, 0))
}

func (a *AnsweredScreen) Init() tea.Cmd {
	return nil
}

func (a *AnsweredScreen) Title() string {
	return "Answered"
}

func (a *AnsweredScreen) CapturesEscape() bool {
	return a.confirm
}

func (a *AnsweredScreen) KeyHints() []layout.KeyHint {
	if a.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Preview"},
		{Key: "U", Description: "Move back"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (a *AnsweredScreen) selected() (bank.Preview, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return bank.Preview{}, false
	}
	return a.items[a.cursor], true
}

func (a *AnsweredScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		a.reload()
		a.status, a.errMsg = "", ""
		if msg.err != nil {
			a.errMsg = msg.err.Error()
		} else if msg.n > 0 {
			a.status = fmt.Sprintf("%s 1 question", msg.verb)
		}
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg.String())
	}
	return a, nil
}

func (a *AnsweredScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	if a.confirm {
		switch key {
		case "y", "Y":
			a.confirm = false
			return a, a.mutate("Deleted", a.svc.Delete)
		case "n", "N", "esc":
			a.confirm = false
		}
		return a, nil
	}

	switch key {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter":
		if pv, ok := a.selected(); ok {
			return a, router.Push(preview.New(pv))
		}
	case "u", "U":
		return a, a.mutate("Moved back", a.svc.MoveBack)
	case "d", "D":
		if _, ok := a.selected(); ok {
			a.confirm = true
		}
	}
	return a, nil
}

func (a *AnsweredScreen) mutate(verb string, op func(context.Context, ...int) (int, error)) tea.Cmd {
	pv, ok := a.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		n, err := op(context.Background(), pv.Index)
		return changedMsg{verb: verb, n: n, err: err}
	}
}

func (a *AnsweredScreen) View(width, height int) string {
	if len(a.items) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Hint.Render("Nothing answered yet."))
	}

	inner := max(width-6, 20)
	rows := max(height-4, 1)
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+rows {
		a.offset = a.cursor - rows + 1
	}

	var b strings.Builder
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%d answered, newest first", len(a.items))))
	b.WriteString("\n\n")
	for i := a.offset; i < min(a.offset+rows, len(a.items)); i++ {
		line := truncate(a.items[i].Title(), inner-2)
		if i == a.cursor {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}

	switch {
	case a.confirm:
		pv, _ := a.selected()
		b.WriteString("\n" + theme.Incorrect.Render(fmt.Sprintf("Delete question #%d from the bank? (y/n)", pv.Order)))
	case a.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(a.errMsg))
	case a.status != "":
		b.WriteString("\n" + theme.Hint.Render(a.status))
	}

	return lipgloss.NewStyle().Padding(1, 3).Render(b.String())
}

// truncate shortens s to width cells, ending with an ellipsis.
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= width {
		return s
	}
	out := []rune(s)
	for len(out) > 0 && lipgloss.Width(string(out))+1 > width {
		out = out[:len(out)-1]
	}
	return string(out) + "…"
}
