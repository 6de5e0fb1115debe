// Package home is the TUI's start screen.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/answered"
	"github.com/abhisek/quizbank/internal/screens/importer"
	"github.com/abhisek/quizbank/internal/screens/practice"
	"github.com/abhisek/quizbank/internal/screens/stats"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

const (
	itemPractice = iota
	itemAnswered
	itemImport
	itemStats
	itemQuit
)

// HomeScreen shows the bank summary and the main menu.
type HomeScreen struct {
	svc       *session.Service
	explainer *explain.Service
	menu      components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. explainer may be nil.
func New(svc *session.Service, explainer *explain.Service) *HomeScreen {
	h := &HomeScreen{svc: svc, explainer: explainer}
	h.menu = components.NewMenu([]components.MenuItem{
		itemPractice: {Label: "Practice", Action: func() tea.Cmd {
			return router.Push(practice.New(h.svc, h.explainer))
		}},
		itemAnswered: {Label: "Answered", Action: func() tea.Cmd {
			return router.Push(answered.New(h.svc))
		}},
		itemImport: {Label: "Import", Action: func() tea.Cmd {
			return router.Push(importer.New(h.svc, h.explainer))
		}},
		itemStats: {Label: "Stats", Action: func() tea.Cmd {
			return router.Push(stats.New(h.svc))
		}},
		itemQuit: {Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	h.refresh()
	return h
}

// refresh enables the items the current bank supports.
func (h *HomeScreen) refresh() {
	st := h.svc.Bank().Stats()
	h.menu.Items[itemPractice].Disabled = st.Unanswered == 0
	h.menu.Items[itemPractice].Hint = fmt.Sprintf("%d left", st.Unanswered)
	h.menu.Items[itemAnswered].Disabled = st.Answered == 0
	h.menu.Items[itemAnswered].Hint = fmt.Sprintf("%d", st.Answered)
	h.menu.Items[itemStats].Disabled = st.Total == 0

	if h.menu.Items[h.menu.Selected].Disabled {
		h.menu.Selected = itemImport
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()

	var b strings.Builder
	b.WriteString(layout.Center(theme.Title.Render("Question Bank Practice"), width))
	b.WriteString("\n\n")

	bk := h.svc.Bank()
	if bk.Len() == 0 {
		b.WriteString(layout.Center(theme.Hint.Render("No questions yet. Import a .docx or .txt bank to start."), width))
	} else {
		st := bk.Stats()
		line := fmt.Sprintf("%s  ·  %d questions  ·  %d unanswered  ·  %d answered",
			bk.Source(), st.Total, st.Unanswered, st.Answered)
		b.WriteString(layout.Center(theme.Dim.Render(line), width))
	}
	b.WriteString("\n\n")

	menu := lipgloss.NewStyle().Width(30).Render(h.menu.View())
	b.WriteString(layout.Center(menu, width))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		AlignVertical(lipgloss.Center).
		Render(b.String())
}
