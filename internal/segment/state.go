// Package segment groups raw document paragraphs into question blocks and
// builds them into questions in a single pass.
//
// The segmenter is an explicit state machine. A State holds the active
// question type and the buffered content lines; the transitions OnHeader,
// OnContent and OnEnd are pure functions returning the next State and at most
// one emitted question or dropped block.
package segment

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quizbank/internal/question"
)

// State is the accumulator between two paragraphs.
type State struct {
	// Active is the type announced by the last header, "" before any header.
	Active question.Type

	// Buffer holds content lines since the last flush. An entry may itself
	// contain newlines.
	Buffer []string

	// Next is the sequence index the next emitted question receives.
	Next int
}

// Step is the observable effect of one transition.
type Step struct {
	Question  *question.Question
	Drop      *Drop
	Header    bool
	Discarded bool
	Skipped   bool
}

// Feed classifies one raw paragraph and applies the matching transition.
// Blank paragraphs leave the state untouched.
func (s *Segmenter) Feed(st State, paragraph string) (State, Step) {
	text := question.TrimSpace(paragraph)
	if text == "" {
		return st, Step{Skipped: true}
	}
	text = s.profile.StripArrows(text)
	if name, ok := s.profile.DetectHeader(text); ok {
		typ, _ := question.ParseType(name)
		return s.OnHeader(st, typ)
	}
	return s.OnContent(st, text)
}

// OnHeader flushes the pending block under the previous type, then starts a
// new section of type typ.
func (s *Segmenter) OnHeader(st State, typ question.Type) (State, Step) {
	next, step := s.flush(st)
	next.Active = typ
	step.Header = true
	return next, step
}

// OnContent buffers line under the active type and flushes as soon as the
// line carries the answer marker. Without an active type the line is
// discarded.
func (s *Segmenter) OnContent(st State, line string) (State, Step) {
	if st.Active == "" {
		return st, Step{Discarded: true}
	}
	st.Buffer = append(slices.Clip(st.Buffer), line)
	if s.profile.HasAnswerMarker(line) {
		return s.flush(st)
	}
	return st, Step{}
}

// OnEnd flushes whatever is still buffered.
func (s *Segmenter) OnEnd(st State) (State, Step) {
	return s.flush(st)
}

// flush turns the buffer into at most one question. The buffer is cleared
// whether or not a question is emitted.
func (s *Segmenter) flush(st State) (State, Step) {
	buffer := st.Buffer
	st.Buffer = nil
	if len(buffer) == 0 || st.Active == "" {
		return st, Step{}
	}

	lines := splitLines(strings.Join(buffer, "\n"))
	answerAt := slices.IndexFunc(lines, s.profile.HasAnswerMarker)
	switch {
	case answerAt < 0:
		return st, Step{Drop: newDrop(ReasonNoAnswerMarker, st.Active, lines, nil)}
	case answerAt == 0:
		return st, Step{Drop: newDrop(ReasonEmptyContent, st.Active, lines, nil)}
	}

	options := make([]string, 0, answerAt-1)
	for _, l := range lines[1:answerAt] {
		options = append(options, question.TrimSpace(l))
	}
	q, err := s.builder.Build(question.Block{
		Type:       st.Active,
		Stem:       question.TrimSpace(lines[0]),
		Options:    options,
		AnswerLine: question.TrimSpace(lines[answerAt]),
	}, st.Next)
	if err != nil {
		return st, Step{Drop: newDrop(ReasonBuildFault, st.Active, lines, err)}
	}
	st.Next++
	return st, Step{Question: &q}
}

// splitLines splits on line boundaries the way a word processor export
// does: \n, \r\n, \r, vertical tab, form feed and the Unicode separators.
// A trailing line break does not produce an empty last line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	afterCR := false
	for i, r := range s {
		if afterCR {
			afterCR = false
			if r == '\n' {
				start = i + 1
				continue
			}
		}
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, s[start:i])
			start = i + utf8.RuneLen(r)
			afterCR = r == '\r'
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
