// Package question turns one segmented block of bank text into a normalized
// Question and grades learner responses against it.
package question

import (
	"sort"
	"strings"

	"github.com/abhisek/quizbank/internal/profile"
)

// Type identifies the answer grammar of a question.
type Type string

const (
	SingleChoice Type = profile.SingleChoice
	MultiChoice  Type = profile.MultiChoice
	FillBlank    Type = profile.FillBlank
	TrueFalse    Type = profile.TrueFalse
)

// ParseType converts a profile type name into a Type.
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case SingleChoice, MultiChoice, FillBlank, TrueFalse:
		return t, true
	}
	return "", false
}

// HasOptions reports whether questions of this type carry lettered options.
func (t Type) HasOptions() bool {
	return t == SingleChoice || t == MultiChoice
}

// Question is one normalized bank entry. It is built once and not mutated
// afterwards, except for the true/false display fallback in ResolveTrueFalse.
type Question struct {
	Type Type `json:"type" yaml:"type"`

	// DisplayNumber is the numbering token as written in the document,
	// e.g. "3." or "12．". Empty when the stem had none.
	DisplayNumber string `json:"display_number" yaml:"display_number"`

	// Body is the stem with the numbering token removed.
	Body string `json:"body" yaml:"body"`

	// Options maps an option letter to its text. Only choice questions
	// have options; nil otherwise.
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`

	// Answer holds the normalized answer:
	//   single_choice, true_false: zero or one letter ("A"/"B" for true_false)
	//   multi_choice: distinct letters sorted ascending, possibly none
	//   fill_blank: one or more blank values in order
	Answer []string `json:"answer,omitempty" yaml:"answer,omitempty"`

	// RawAnswer is the answer annotation line as it appeared in the block.
	RawAnswer string `json:"raw_answer" yaml:"raw_answer"`

	// SequenceIndex is the zero-based extraction order.
	SequenceIndex int `json:"sequence_index" yaml:"sequence_index"`
}

// DisplayText joins the numbering token and the body.
func (q Question) DisplayText() string {
	if q.DisplayNumber != "" {
		return q.DisplayNumber + " " + q.Body
	}
	return q.Body
}

// Choice returns the single answer letter of a single-choice or true/false
// question, or "" when it has none.
func (q Question) Choice() string {
	if len(q.Answer) == 0 {
		return ""
	}
	return q.Answer[0]
}

// SortedOptions returns option letters in ascending order.
func (q Question) SortedOptions() []string {
	letters := make([]string, 0, len(q.Options))
	for l := range q.Options {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// BlankCount returns how many inputs a fill-in question needs: the number of
// parsed blanks, else the number of "___" runs in the body, at least one.
func (q Question) BlankCount() int {
	if n := len(q.Answer); n > 0 {
		return n
	}
	if n := strings.Count(q.Body, "___"); n > 0 {
		return n
	}
	return 1
}
