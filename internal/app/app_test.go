package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/screens/screentest"
)

// choiceBank has no fill-in questions, so no text input starts blinking.
const choiceBank = "单选题\n1．What color is the sky?\nA. Red\nB. Blue\n正确答案：B\n" +
	"判断题\n2. The sun is a star.\n正确答案：正确\n"

func sized(t *testing.T, text string) AppModel {
	t.Helper()
	m := newAppModel(Options{Session: screentest.NewService(t, text)})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(AppModel)
}

// deliver feeds msg and every message its command produces back into m.
func deliver(m AppModel, msg tea.Msg) AppModel {
	for i := 0; msg != nil && i < 10; i++ {
		updated, cmd := m.Update(msg)
		m = updated.(AppModel)
		msg = screentest.Run(cmd)
	}
	return m
}

func TestViewShowsHeaderAndMenu(t *testing.T) {
	m := sized(t, choiceBank)
	content := m.render()
	assert.Contains(t, content, "quizbank")
	assert.Contains(t, content, "Home")
	assert.Contains(t, content, "○ 2")
	assert.Contains(t, content, "Practice")
}

func TestTooSmall(t *testing.T) {
	m := newAppModel(Options{Session: screentest.NewService(t, "")})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")
}

func TestEscPopsToHome(t *testing.T) {
	m := sized(t, choiceBank)

	m = deliver(m, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Practice", m.router.Active().Title())

	m = deliver(m, screentest.SpecialKey(tea.KeyEscape))
	assert.Equal(t, 1, m.router.Depth())

	// Esc on the home screen does nothing.
	m = deliver(m, screentest.SpecialKey(tea.KeyEscape))
	assert.Equal(t, 1, m.router.Depth())
}

func TestCtrlCQuits(t *testing.T) {
	m := sized(t, "")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	_, ok := screentest.Run(cmd).(tea.QuitMsg)
	assert.True(t, ok)
}

func TestEscapeCapturedDuringConfirm(t *testing.T) {
	m := sized(t, choiceBank)

	// Practice, answer, back home, then open the answered list.
	m = deliver(m, screentest.SpecialKey(tea.KeyEnter))
	m = deliver(m, screentest.SpecialKey(tea.KeyEnter))
	m = deliver(m, screentest.SpecialKey(tea.KeyEscape))
	m = deliver(m, screentest.SpecialKey(tea.KeyDown))
	m = deliver(m, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, "Answered", m.router.Active().Title())

	m = deliver(m, screentest.KeyPress('d'))
	require.Contains(t, m.render(), "Delete question")
	m = deliver(m, screentest.SpecialKey(tea.KeyEscape))
	assert.Equal(t, "Answered", m.router.Active().Title())
	assert.Equal(t, 2, m.router.Depth())
	assert.NotContains(t, m.render(), "Delete question")
}
