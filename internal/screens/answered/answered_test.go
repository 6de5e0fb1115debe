package answered

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/router"
	"github.com/abhisek/quizbank/internal/screens/preview"
	"github.com/abhisek/quizbank/internal/screens/screentest"
	"github.com/abhisek/quizbank/internal/session"
)

func answeredService(t *testing.T) *session.Service {
	t.Helper()
	svc := screentest.NewService(t, screentest.Bank)
	ctx := context.Background()
	_, err := svc.Answer(ctx, 0, question.Response{Choice: "B"}, 0)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, 2, question.Response{Choice: "A"}, 0)
	require.NoError(t, err)
	return svc
}

func TestAnsweredListNewestFirst(t *testing.T) {
	a := New(answeredService(t))
	require.Len(t, a.items, 2)
	assert.Equal(t, 2, a.items[0].Index)
	assert.Equal(t, 0, a.items[1].Index)

	view := a.View(100, 30)
	assert.Contains(t, view, "2 answered")
	assert.Contains(t, view, "The sun is a star.")
}

func TestAnsweredEnterOpensPreview(t *testing.T) {
	a := New(answeredService(t))
	a.Update(screentest.SpecialKey(tea.KeyDown))

	_, cmd := a.Update(screentest.SpecialKey(tea.KeyEnter))
	msg, ok := screentest.Run(cmd).(router.PushScreenMsg)
	require.True(t, ok)
	p, ok := msg.Screen.(*preview.PreviewScreen)
	require.True(t, ok)
	assert.Equal(t, "Question #1", p.Title())
}

func TestAnsweredMoveBack(t *testing.T) {
	svc := answeredService(t)
	a := New(svc)

	_, cmd := a.Update(screentest.KeyPress('u'))
	a.Update(screentest.Run(cmd))

	assert.Len(t, a.items, 1)
	assert.Equal(t, 2, svc.Bank().Stats().Unanswered)
	assert.Contains(t, svc.Bank().Unanswered(), 2)
	assert.Contains(t, a.View(100, 30), "Moved back 1 question")
}

func TestAnsweredDeleteNeedsConfirmation(t *testing.T) {
	svc := answeredService(t)
	a := New(svc)

	a.Update(screentest.KeyPress('d'))
	assert.True(t, a.CapturesEscape())
	assert.Contains(t, a.View(100, 30), "Delete question #3")

	_, cmd := a.Update(screentest.KeyPress('n'))
	assert.Nil(t, cmd)
	assert.False(t, a.confirm)
	assert.Equal(t, 4, svc.Bank().Len())

	a.Update(screentest.KeyPress('d'))
	_, cmd = a.Update(screentest.KeyPress('y'))
	a.Update(screentest.Run(cmd))
	assert.Equal(t, 3, svc.Bank().Len())
	require.Len(t, a.items, 1)
	assert.Equal(t, 0, a.cursor)
}

func TestAnsweredEmpty(t *testing.T) {
	a := New(screentest.NewService(t, screentest.Bank))
	assert.Contains(t, a.View(80, 24), "Nothing answered yet.")

	_, cmd := a.Update(screentest.KeyPress('u'))
	assert.Nil(t, cmd)
	a.Update(screentest.KeyPress('d'))
	assert.False(t, a.confirm)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "a b", truncate("a\nb", 10))
}
