package question

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Response is a learner's answer to one question. Only the field matching
// the question type is read.
type Response struct {
	Choice  string   `json:"choice,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Fills   []string `json:"fills,omitempty"`
}

// Result is the outcome of grading a response.
type Result struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	Given    string `json:"given"`
}

func (r Response) values(t Type) []string {
	switch t {
	case SingleChoice, TrueFalse:
		if c := normalizeLetter(r.Choice); c != "" {
			return []string{c}
		}
		return nil
	case MultiChoice:
		return normalizeLetters(r.Choices)
	default:
		return r.Fills
	}
}

// Grade compares r against the answer of q.
//
// Normalization rules:
// - Input is NFKC-normalized, so full-width letters and digits match
// - Whitespace is trimmed and letters compare case-insensitively
// - Multi-choice needs exactly the answer set; order and repeats are ignored
// - Fill-in needs every blank, in order
// - A question without an answer never grades correct
func Grade(q Question, r Response) bool {
	if len(q.Answer) == 0 {
		return false
	}
	switch q.Type {
	case SingleChoice, TrueFalse:
		return normalizeLetter(r.Choice) == normalizeLetter(q.Answer[0])
	case MultiChoice:
		return slices.Equal(normalizeLetters(r.Choices), normalizeLetters(q.Answer))
	case FillBlank:
		if len(r.Fills) != len(q.Answer) {
			return false
		}
		for i, want := range q.Answer {
			if !strings.EqualFold(normalizeText(r.Fills[i]), normalizeText(want)) {
				return false
			}
		}
		return true
	}
	return false
}

// Check grades r and renders both sides for feedback.
func (b *Builder) Check(q Question, r Response) Result {
	return Result{
		Correct:  Grade(q, r),
		Expected: b.FormatAnswer(q),
		Given:    b.FormatResponse(q, r),
	}
}

func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func normalizeLetter(s string) string {
	return strings.ToUpper(normalizeText(s))
}

func normalizeLetters(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		l := normalizeLetter(s)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
