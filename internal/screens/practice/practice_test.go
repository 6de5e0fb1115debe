package practice

import (
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/llm"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/screens/screentest"
	"github.com/abhisek/quizbank/internal/session"
)

const (
	singleBank = "单选题\n1．What color is the sky?\nA. Red\nB. Blue\n正确答案：B\n"
	multiBank  = "多选题\n2. Pick the primes\nA. 2\nB. 4\nC. 5\n正确答案：CA\n"
	tfBank     = "判断题\n3. The sun is a star.\n正确答案：正确\n"
	fillBank   = "填空题\n4. ___ and ___\n正确答案：1 salt 2 pepper\n"
)

func started(t *testing.T, svc *session.Service, explainer *explain.Service) *PracticeScreen {
	t.Helper()
	s := New(svc, explainer)
	s.Update(screentest.Run(s.Init()))
	require.Equal(t, phaseAnswering, s.phase)
	return s
}

func press(s *PracticeScreen, keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		s.Update(k)
	}
}

// submit presses enter and delivers the grading result.
func submit(t *testing.T, s *PracticeScreen) {
	t.Helper()
	_, cmd := s.Update(screentest.SpecialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	s.Update(screentest.Run(cmd))
	require.Equal(t, phaseFeedback, s.phase)
}

func TestPracticeSingleChoice(t *testing.T) {
	svc := screentest.NewService(t, singleBank)
	s := started(t, svc, nil)

	view := s.View(100, 30)
	assert.Contains(t, view, "What color is the sky?")
	assert.Contains(t, view, "单选题")

	press(s, screentest.KeyPress('b'))
	submit(t, s)

	assert.True(t, s.result.Correct)
	assert.Equal(t, 1, svc.Bank().Stats().Answered)
	view = s.View(100, 30)
	assert.Contains(t, view, "Correct answer")
	assert.Contains(t, view, "B. Blue")

	_, cmd := s.Update(screentest.KeyPress('n'))
	s.Update(screentest.Run(cmd))
	assert.Equal(t, phaseDone, s.phase)
	assert.Contains(t, s.View(100, 30), "Every question has been answered")
}

func TestPracticeWrongChoice(t *testing.T) {
	svc := screentest.NewService(t, singleBank)
	s := started(t, svc, nil)

	// The cursor starts on A.
	submit(t, s)
	assert.False(t, s.result.Correct)
	assert.Equal(t, 1, svc.Summary().TotalAnswered)
	assert.Equal(t, 0, svc.Summary().TotalCorrect)
}

func TestPracticeMultiChoiceToggles(t *testing.T) {
	s := started(t, screentest.NewService(t, multiBank), nil)

	press(s, screentest.KeyPress('c'), screentest.KeyPress('b'), screentest.KeyPress('a'), screentest.KeyPress('b'))
	assert.Equal(t, question.Response{Choices: []string{"A", "C"}}, s.response())

	submit(t, s)
	assert.True(t, s.result.Correct)
}

func TestPracticeTrueFalse(t *testing.T) {
	s := started(t, screentest.NewService(t, tfBank), nil)

	assert.Contains(t, s.View(100, 30), "是 (正确)")
	press(s, screentest.KeyPress('a'))
	submit(t, s)
	assert.True(t, s.result.Correct)
}

func TestPracticeFillBlanks(t *testing.T) {
	s := started(t, screentest.NewService(t, fillBank), nil)
	require.Len(t, s.inputs, 2)

	for _, r := range "salt" {
		press(s, screentest.KeyPress(r))
	}
	press(s, screentest.SpecialKey(tea.KeyTab))
	for _, r := range "Pepper" {
		press(s, screentest.KeyPress(r))
	}
	assert.Equal(t, question.Response{Fills: []string{"salt", "Pepper"}}, s.response())

	submit(t, s)
	assert.True(t, s.result.Correct)
}

func TestPracticeFillMarksEachBlank(t *testing.T) {
	s := started(t, screentest.NewService(t, fillBank), nil)

	for _, r := range "sugar" {
		press(s, screentest.KeyPress(r))
	}
	press(s, screentest.SpecialKey(tea.KeyTab))
	for _, r := range "pepper" {
		press(s, screentest.KeyPress(r))
	}
	submit(t, s)

	assert.False(t, s.result.Correct)
	assert.Contains(t, s.inputs[0].View(), "✗")
	assert.Contains(t, s.inputs[1].View(), "✓")
}

func TestPracticeEmptyBank(t *testing.T) {
	s := New(screentest.NewService(t, ""), nil)
	s.Update(screentest.Run(s.Init()))
	assert.Equal(t, phaseDone, s.phase)
}

func TestPracticeExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"summary": "The sky scatters blue light.", "steps": ["Sunlight is white."], "pitfall": "Sunsets are red."}`,
	)})
	svc := screentest.NewService(t, singleBank)
	cfg := explain.DefaultConfig()
	cfg.Every = 0
	s := started(t, svc, explain.NewService(mock, svc.Builder(), cfg))

	// Explain is only offered after answering.
	press(s, screentest.KeyPress('e'))
	assert.False(t, s.explaining)

	press(s, screentest.KeyPress('a'))
	submit(t, s)

	_, cmd := s.Update(screentest.KeyPress('e'))
	require.NotNil(t, cmd)
	assert.True(t, s.explaining)
	assert.Contains(t, s.View(100, 30), "Asking for an explanation")

	for i := 0; i < 40 && s.explaining; i++ {
		_, cmd = s.Update(screentest.Run(cmd))
	}
	require.False(t, s.explaining)
	require.NoError(t, s.explainErr)
	require.NotNil(t, s.explanation)
	assert.Contains(t, s.View(100, 30), "The sky scatters blue light.")

	assert.Len(t, mock.Calls(), 1)
}

func TestPracticeStaleExplainTickIgnored(t *testing.T) {
	s := started(t, screentest.NewService(t, singleBank), nil)
	s.explaining = true
	_, cmd := s.Update(explainTickMsg{Seq: s.seq - 1})
	assert.Nil(t, cmd)
	assert.True(t, s.explaining)
}

func TestPracticeKeyHints(t *testing.T) {
	svc := screentest.NewService(t, singleBank)
	s := started(t, svc, nil)
	submit(t, s)

	for _, h := range s.KeyHints() {
		assert.NotEqual(t, "E", h.Key)
	}

	withLLM := started(t, screentest.NewService(t, singleBank),
		explain.NewService(llm.NewMockProvider(), svc.Builder(), explain.DefaultConfig()))
	submit(t, withLLM)
	assert.Equal(t, "E", withLLM.KeyHints()[1].Key)
}
