package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/ui/theme"
)

// Choice is one lettered option.
type Choice struct {
	Letter string
	Text   string
}

// ChoiceList selects one option, or several when Multi is set. Arrows move
// the cursor; a letter key jumps to its option. In single mode the option
// under the cursor is the selection; in multi mode space and letter keys
// toggle.
type ChoiceList struct {
	Choices []Choice
	Multi   bool
	Cursor  int

	picked   map[string]bool
	revealed bool
	correct  map[string]bool
}

// NewChoiceList creates a list with nothing picked.
func NewChoiceList(choices []Choice, multi bool) ChoiceList {
	return ChoiceList{
		Choices: choices,
		Multi:   multi,
		picked:  map[string]bool{},
	}
}

// Update handles navigation and selection until the answer is revealed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Multi && c.Cursor < len(c.Choices) {
			c.toggle(c.Choices[c.Cursor].Letter)
		}
	default:
		i := c.indexOf(key)
		if i < 0 {
			break
		}
		c.Cursor = i
		if c.Multi {
			c.toggle(c.Choices[i].Letter)
		}
	}
	return c, nil
}

func (c ChoiceList) indexOf(key string) int {
	return slices.IndexFunc(c.Choices, func(ch Choice) bool {
		return strings.EqualFold(ch.Letter, key)
	})
}

func (c *ChoiceList) toggle(letter string) {
	if c.picked == nil {
		c.picked = map[string]bool{}
	}
	c.picked[letter] = !c.picked[letter]
}

// Selected returns the chosen letters in display order.
func (c ChoiceList) Selected() []string {
	if !c.Multi {
		if c.Cursor < len(c.Choices) {
			return []string{c.Choices[c.Cursor].Letter}
		}
		return nil
	}
	var out []string
	for _, ch := range c.Choices {
		if c.picked[ch.Letter] {
			out = append(out, ch.Letter)
		}
	}
	return out
}

// Reveal freezes the list and highlights the correct letters.
func (c *ChoiceList) Reveal(correct []string) {
	c.revealed = true
	c.correct = map[string]bool{}
	for _, l := range correct {
		c.correct[l] = true
	}
}

// View renders one line per option.
func (c ChoiceList) View() string {
	chosen := map[string]bool{}
	for _, l := range c.Selected() {
		chosen[l] = true
	}

	var b strings.Builder
	for i, ch := range c.Choices {
		prefix := "  "
		if i == c.Cursor && !c.revealed {
			prefix = "▸ "
		}
		box := ""
		if c.Multi {
			box = "[ ] "
			if chosen[ch.Letter] {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%s%s. %s", prefix, box, ch.Letter, ch.Text)

		switch {
		case c.revealed && c.correct[ch.Letter]:
			line = theme.Correct.Render(line)
		case c.revealed && chosen[ch.Letter]:
			line = theme.Incorrect.Render(line)
		case c.revealed:
			line = theme.Dim.Render(line)
		case i == c.Cursor || chosen[ch.Letter]:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
