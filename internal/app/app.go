// Package app is the root bubbletea model of the terminal UI.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/home"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/layout"
)

// Options wires the TUI. Explainer may be nil when no LLM is configured.
type Options struct {
	Session   *session.Service
	Explainer *explain.Service
	Logger    logrus.FieldLogger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    *session.Service
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		router: router.New(home.New(opts.Session, opts.Explainer)),
		svc:    opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ec, ok := m.router.Active().(screen.EscapeCapturer); ok && ec.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) keyHints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	st := m.svc.Bank().Stats()
	header := layout.RenderHeader(title, layout.BankStatus{Unanswered: st.Unanswered, Answered: st.Answered}, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithField("session_id", opts.Session.ID()).Debug("tui started")

	if _, err := tea.NewProgram(newAppModel(opts)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	sum := opts.Session.Summary()
	log.WithFields(logrus.Fields{
		"session_id": sum.SessionID,
		"answered":   sum.TotalAnswered,
		"correct":    sum.TotalCorrect,
	}).Info("tui exited")
	return nil
}
