package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and a graded mark.
type TextInput struct {
	Label     string
	Model     textinput.Model
	submitted bool
	valid     bool
}

// NewTextInput creates an unfocused input. charLimit 0 means unlimited.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	return TextInput{Label: label, Model: ti}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update forwards key presses to the input until it is submitted.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.submitted {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and the mark once graded.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Label != "" {
		view = theme.Label.Render(t.Label) + " " + view
	}
	if t.submitted {
		if t.valid {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the current input.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Submit freezes the input and marks it graded.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
	t.Model.Blur()
}
