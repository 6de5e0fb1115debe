// Package practice is the screen that draws questions and grades answers.
package practice

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/ui/components"
	"github.com/abhisek/quizbank/internal/ui/layout"
)

const explainPoll = 250 * time.Millisecond

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseFeedback
	phaseDone
	phaseError
)

// PracticeScreen runs one question at a time until the pool is empty.
type PracticeScreen struct {
	svc       *session.Service
	explainer *explain.Service

	phase   phase
	q       question.Question
	shown   time.Time
	choices components.ChoiceList
	inputs  []components.TextInput
	focus   int
	result  question.Result
	errMsg  string

	// seq identifies the current question; ticks for older ones are dropped.
	seq         int
	explaining  bool
	explanation *explain.Explanation
	explainErr  error

	answeredHere int
	correctHere  int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen. explainer may be nil, which hides the
// explain key.
func New(svc *session.Service, explainer *explain.Service) *PracticeScreen {
	return &PracticeScreen{svc: svc, explainer: explainer}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.draw()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
		switch {
		case s.q.Type == question.MultiChoice:
			hints = append(hints, layout.KeyHint{Key: "Letter/Space", Description: "Toggle"})
		case s.q.Type == question.FillBlank && len(s.inputs) > 1:
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next blank"})
		case s.q.Type != question.FillBlank:
			hints = append(hints, layout.KeyHint{Key: "Letter/↑↓", Description: "Choose"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	case phaseFeedback:
		hints := []layout.KeyHint{{Key: "N", Description: "Next"}}
		if s.explainer != nil {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PracticeScreen) draw() tea.Cmd {
	return func() tea.Msg {
		q, err := s.svc.Bank().Draw()
		return drawnMsg{Question: q, Err: err}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case drawnMsg:
		return s.handleDrawn(msg)
	case gradedMsg:
		return s.handleGraded(msg)
	case explainTickMsg:
		return s.handleExplainTick(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && s.q.Type == question.FillBlank && len(s.inputs) > 0 {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleDrawn(msg drawnMsg) (screen.Screen, tea.Cmd) {
	s.seq++
	s.explaining, s.explanation, s.explainErr = false, nil, nil
	s.result = question.Result{}
	s.errMsg = ""

	if errors.Is(msg.Err, bank.ErrEmpty) {
		s.phase = phaseDone
		return s, nil
	}
	if msg.Err != nil {
		s.phase, s.errMsg = phaseError, msg.Err.Error()
		return s, nil
	}

	s.phase = phaseAnswering
	s.q = msg.Question
	s.shown = time.Now()
	s.inputs, s.focus = nil, 0

	if s.q.Type == question.FillBlank {
		n := s.q.BlankCount()
		for i := range n {
			label := ""
			if n > 1 {
				label = fmt.Sprintf("%d.", i+1)
			}
			s.inputs = append(s.inputs, components.NewTextInput(label, "type your answer", 0))
		}
		return s, s.inputs[0].Focus()
	}

	opts := s.svc.Builder().DisplayOptions(s.q)
	choices := make([]components.Choice, 0, len(opts))
	for _, l := range slices.Sorted(maps.Keys(opts)) {
		choices = append(choices, components.Choice{Letter: l, Text: opts[l]})
	}
	s.choices = components.NewChoiceList(choices, s.q.Type == question.MultiChoice)
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseAnswering:
		if key == "enter" {
			return s.submit()
		}
		if s.q.Type == question.FillBlank {
			return s.handleFillKey(msg)
		}
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd

	case phaseFeedback:
		switch key {
		case "n", "N", "enter":
			return s, s.draw()
		case "e", "E":
			return s, s.requestExplanation()
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleFillKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	move := 0
	switch msg.String() {
	case "tab", "down":
		move = 1
	case "shift+tab", "up":
		move = -1
	}
	if move != 0 && len(s.inputs) > 1 {
		s.inputs[s.focus].Blur()
		s.focus = (s.focus + move + len(s.inputs)) % len(s.inputs)
		return s, s.inputs[s.focus].Focus()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// response collects the learner's answer in the form the grader expects.
func (s *PracticeScreen) response() question.Response {
	switch s.q.Type {
	case question.FillBlank:
		fills := make([]string, len(s.inputs))
		for i, in := range s.inputs {
			fills[i] = in.Value()
		}
		return question.Response{Fills: fills}
	case question.MultiChoice:
		return question.Response{Choices: s.choices.Selected()}
	default:
		var r question.Response
		if sel := s.choices.Selected(); len(sel) > 0 {
			r.Choice = sel[0]
		}
		return r
	}
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	idx, resp, elapsed := s.q.SequenceIndex, s.response(), time.Since(s.shown)
	s.phase = phaseLoading
	return s, func() tea.Msg {
		res, err := s.svc.Answer(context.Background(), idx, resp, elapsed)
		return gradedMsg{Result: res, Err: err}
	}
}

func (s *PracticeScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	// A failed snapshot still leaves a graded answer.
	if msg.Result == (question.Result{}) && msg.Err != nil {
		s.phase, s.errMsg = phaseError, msg.Err.Error()
		return s, nil
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
	}

	s.phase = phaseFeedback
	s.result = msg.Result
	s.answeredHere++
	if msg.Result.Correct {
		s.correctHere++
	}

	if s.q.Type == question.FillBlank {
		for i := range s.inputs {
			s.inputs[i].Submit(blankCorrect(s.q, i, s.inputs[i].Value()))
		}
	} else {
		s.choices.Reveal(s.q.Answer)
	}
	return s, nil
}

// blankCorrect grades blank i on its own.
func blankCorrect(q question.Question, i int, value string) bool {
	if i >= len(q.Answer) {
		return false
	}
	one := question.Question{Type: question.FillBlank, Answer: q.Answer[i : i+1]}
	return question.Grade(one, question.Response{Fills: []string{value}})
}

func (s *PracticeScreen) requestExplanation() tea.Cmd {
	if s.explainer == nil || s.explaining {
		return nil
	}
	s.explaining, s.explanation, s.explainErr = true, nil, nil
	s.explainer.Request(context.Background(), explain.Input{Question: s.q, Given: s.result.Given})
	return s.pollExplanation()
}

func (s *PracticeScreen) pollExplanation() tea.Cmd {
	seq := s.seq
	return tea.Tick(explainPoll, func(time.Time) tea.Msg {
		return explainTickMsg{Seq: seq}
	})
}

func (s *PracticeScreen) handleExplainTick(msg explainTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.seq || !s.explaining {
		return s, nil
	}
	exp, ok, err := s.explainer.Consume()
	if !ok {
		return s, s.pollExplanation()
	}
	s.explaining = false
	s.explanation, s.explainErr = exp, err
	return s, nil
}
