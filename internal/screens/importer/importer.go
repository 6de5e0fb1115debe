// Package importer reads a bank document into the practice pools.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/practice"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
	"github.com/abhisek/quizbank/internal/ui/theme"
)

var encodings = []docreader.Encoding{
	docreader.EncodingAuto,
	docreader.EncodingUTF8,
	docreader.EncodingGB18030,
	docreader.EncodingUTF16,
}

// importedMsg carries the outcome of an import.
type importedMsg struct {
	Report session.ImportReport
	Err    error
}

// ImportScreen asks for a path and shows what the parse found.
type ImportScreen struct {
	svc       *session.Service
	explainer *explain.Service
	input     components.TextInput
	encoding  int

	busy   bool
	done   bool
	report *session.ImportReport
	err    error
}

var _ screen.Screen = (*ImportScreen)(nil)
var _ screen.KeyHintProvider = (*ImportScreen)(nil)

// New creates the import screen. explainer is handed on to practice.
func New(svc *session.Service, explainer *explain.Service) *ImportScreen {
	return &ImportScreen{
		svc:       svc,
		explainer: explainer,
		input:     components.NewTextInput("File:", "path to a .docx, .txt or .md bank", 0),
	}
}

func (s *ImportScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *ImportScreen) Title() string {
	return "Import"
}

func (s *ImportScreen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start practice"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Import"},
		{Key: "Tab", Description: "Encoding"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case importedMsg:
		s.busy = false
		s.report, s.err = &msg.Report, msg.Err
		s.done = msg.Err == nil
		if msg.Report.Diagnostics.Paragraphs == 0 && msg.Err != nil {
			s.report = nil
		}
		if !s.done {
			return s, s.input.Focus()
		}
		s.input.Blur()
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			if s.done {
				return s, func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: practice.New(s.svc, s.explainer)}
				}
			}
			return s, s.start()
		case "tab":
			if !s.done {
				s.encoding = (s.encoding + 1) % len(encodings)
			}
			return s, nil
		}
	}

	if s.done {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ImportScreen) start() tea.Cmd {
	path := expandHome(strings.TrimSpace(s.input.Value()))
	if path == "" {
		return nil
	}
	s.busy, s.err, s.report = true, nil, nil
	opts := docreader.Options{Encoding: encodings[s.encoding]}
	return func() tea.Msg {
		report, err := s.svc.ImportFile(context.Background(), path, opts)
		return importedMsg{Report: report, Err: err}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (s *ImportScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Import a question bank"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("Encoding: " + string(encodings[s.encoding])))
	b.WriteString("\n\n")

	if s.busy {
		b.WriteString(theme.Hint.Render("Reading…"))
	}
	if s.err != nil {
		msg := s.err.Error()
		if errors.Is(s.err, session.ErrNoQuestions) {
			msg = "No questions found. Check the section headers and answer lines."
		}
		b.WriteString(theme.ErrorText.Render(msg) + "\n\n")
	}
	if s.report != nil {
		if s.done {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("Imported %d questions from %s", s.report.Questions, s.report.Source)))
			b.WriteString("\n\n")
		}
		b.WriteString(RenderDiagnostics(s.report.Diagnostics))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 4).Render(b.String())
}

// RenderDiagnostics summarises a parse: counts, then each dropped block.
func RenderDiagnostics(d segment.Diagnostics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paragraphs: %d   Blank: %d   Headers: %d   Before first header: %d\n",
		d.Paragraphs, d.Blank, d.Headers, d.Discarded)
	if len(d.Dropped) == 0 {
		return theme.Dim.Render(b.String())
	}
	fmt.Fprintf(&b, "Dropped blocks: %d (no answer line %d, empty %d, faulty %d)\n",
		len(d.Dropped),
		d.DroppedBy(segment.ReasonNoAnswerMarker),
		d.DroppedBy(segment.ReasonEmptyContent),
		d.DroppedBy(segment.ReasonBuildFault))
	const shown = 5
	for i, drop := range d.Dropped {
		if i == shown {
			fmt.Fprintf(&b, "  … %d more\n", len(d.Dropped)-shown)
			break
		}
		fmt.Fprintf(&b, "  [%s] %s\n", drop.Reason, drop.Line)
	}
	return theme.Dim.Render(b.String())
}
