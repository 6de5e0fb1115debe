package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var abcd = []Choice{{"A", "Red"}, {"B", "Blue"}, {"C", "Green"}, {"D", "Black"}}

func TestChoiceListSingle(t *testing.T) {
	c := NewChoiceList(abcd, false)
	assert.Equal(t, []string{"A"}, c.Selected())

	c, _ = c.Update(specialKey(tea.KeyDown))
	c, _ = c.Update(specialKey(tea.KeyDown))
	assert.Equal(t, []string{"C"}, c.Selected())

	c, _ = c.Update(keyPress('b'))
	assert.Equal(t, []string{"B"}, c.Selected())

	c, _ = c.Update(specialKey(tea.KeyUp))
	c, _ = c.Update(specialKey(tea.KeyUp))
	assert.Equal(t, []string{"A"}, c.Selected())
}

func TestChoiceListMultiToggles(t *testing.T) {
	c := NewChoiceList(abcd, true)
	assert.Empty(t, c.Selected())

	c, _ = c.Update(keyPress('c'))
	c, _ = c.Update(keyPress('a'))
	assert.Equal(t, []string{"A", "C"}, c.Selected())

	c, _ = c.Update(keyPress('c'))
	assert.Equal(t, []string{"A"}, c.Selected())

	c, _ = c.Update(specialKey(tea.KeyDown))
	c, _ = c.Update(specialKey(tea.KeySpace))
	assert.Equal(t, []string{"A", "B"}, c.Selected())
	assert.Contains(t, c.View(), "[x] B. Blue")
}

func TestChoiceListFrozenAfterReveal(t *testing.T) {
	c := NewChoiceList(abcd, false)
	c.Reveal([]string{"B"})
	c, _ = c.Update(keyPress('d'))
	assert.Equal(t, []string{"A"}, c.Selected())
	assert.NotContains(t, c.View(), "▸")
}

func TestMenuSkipsDisabled(t *testing.T) {
	ran := ""
	m := NewMenu([]MenuItem{
		{Label: "Practice", Disabled: true},
		{Label: "Import", Action: func() tea.Cmd { ran = "import"; return nil }},
		{Label: "Off", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { ran = "quit"; return nil }},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)

	m.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "import", ran)
	assert.Contains(t, m.View(), "▸ Import")
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("", 1, 4, 40)
	assert.InDelta(t, 0.25, p.Percent, 1e-9)
	assert.Contains(t, p.View(), "25%")

	empty := NewProgressBar("x", 0, 0, 20)
	assert.Zero(t, empty.Percent)
}

func TestTextInputSubmitFreezes(t *testing.T) {
	ti := NewTextInput("1.", "answer", 0)
	ti.Focus()
	ti, _ = ti.Update(keyPress('h'))
	ti, _ = ti.Update(keyPress('i'))
	assert.Equal(t, "hi", ti.Value())

	ti.Submit(true)
	ti, _ = ti.Update(keyPress('x'))
	assert.Equal(t, "hi", ti.Value())
	assert.Contains(t, ti.View(), "✓")
	assert.False(t, ti.Focused())
}
