package segment

import (
	"unicode/utf8"

	"github.com/abhisek/quizbank/internal/question"
)

// Reason names why a block produced no question.
type Reason string

const (
	ReasonNoAnswerMarker Reason = "no_answer_marker"
	ReasonEmptyContent   Reason = "empty_content"
	ReasonBuildFault     Reason = "build_fault"
)

// Drop describes one block that was discarded at flush time.
type Drop struct {
	Reason Reason        `json:"reason" yaml:"reason"`
	Type   question.Type `json:"type" yaml:"type"`
	// Line is the first non-blank line of the block, shortened.
	Line string `json:"line" yaml:"line"`
	Err  error  `json:"-" yaml:"-"`
}

// Diagnostics counts what a parse saw and skipped.
type Diagnostics struct {
	Paragraphs int    `json:"paragraphs" yaml:"paragraphs"`
	Blank      int    `json:"blank" yaml:"blank"`
	Headers    int    `json:"headers" yaml:"headers"`
	Discarded  int    `json:"discarded" yaml:"discarded"`
	Dropped    []Drop `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// DroppedBy counts drops with the given reason.
func (d Diagnostics) DroppedBy(r Reason) int {
	n := 0
	for _, drop := range d.Dropped {
		if drop.Reason == r {
			n++
		}
	}
	return n
}

const maxDropLine = 40

func newDrop(reason Reason, typ question.Type, lines []string, err error) *Drop {
	d := &Drop{Reason: reason, Type: typ, Err: err}
	for _, l := range lines {
		if l = question.TrimSpace(l); l != "" {
			d.Line = truncate(l, maxDropLine)
			break
		}
	}
	return d
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
