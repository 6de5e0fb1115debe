package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/screens/screentest"
)

func TestPreviewShowsAnswer(t *testing.T) {
	svc := screentest.NewService(t, screentest.Bank)
	pv, err := svc.Bank().Preview(0)
	require.NoError(t, err)

	p := New(pv)
	assert.Equal(t, "Question #1", p.Title())

	view := p.View(100, 30)
	assert.Contains(t, view, "What color is the sky?")
	assert.Contains(t, view, "A. Red")
	assert.Contains(t, view, "B. Blue")
}

func TestRenderTrueFalseAndFill(t *testing.T) {
	svc := screentest.NewService(t, screentest.Bank)

	tf, err := svc.Bank().Preview(2)
	require.NoError(t, err)
	out := Render(tf, 80)
	assert.Contains(t, out, "判断题")
	assert.Contains(t, out, "是 (正确)")

	fill, err := svc.Bank().Preview(3)
	require.NoError(t, err)
	out = Render(fill, 80)
	assert.Contains(t, out, "2 blank(s)")
	assert.Contains(t, out, "salt | pepper")
}
