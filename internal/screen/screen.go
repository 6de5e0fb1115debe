// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbank/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	// Init returns the command to run when the screen is opened.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, without header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that want their own footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeCapturer is implemented by screens that handle esc themselves
// while CapturesEscape reports true, such as during a confirmation.
type EscapeCapturer interface {
	CapturesEscape() bool
}
