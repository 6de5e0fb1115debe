// Package profile holds the locale tables that drive question-bank parsing:
// the section header keywords, the answer marker, and the separator sets used
// when splitting numbering, options and answers.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Question type names used by header tables.
const (
	SingleChoice = "single_choice"
	MultiChoice  = "multi_choice"
	FillBlank    = "fill_blank"
	TrueFalse    = "true_false"
)

// KnownTypes lists every type name a header may map to.
var KnownTypes = []string{SingleChoice, MultiChoice, FillBlank, TrueFalse}

// ErrInvalid is returned by Validate for unusable profiles.
var ErrInvalid = errors.New("invalid profile")

// HeaderKeyword maps a section header substring to a question type.
type HeaderKeyword struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Type    string `yaml:"type" json:"type"`
}

// TrueFalseLabels are the fixed option texts shown for true/false questions.
type TrueFalseLabels struct {
	Affirmative string `yaml:"affirmative" json:"affirmative"`
	Negative    string `yaml:"negative" json:"negative"`
}

// Profile is the full set of literal tables for one bank dialect.
type Profile struct {
	Name string `yaml:"name" json:"name"`

	// Headers is checked in order; the first keyword contained in a line wins.
	Headers []HeaderKeyword `yaml:"headers" json:"headers"`

	AnswerMarker string `yaml:"answer_marker" json:"answer_marker"`

	// ArrowChars are removed from every line before classification.
	ArrowChars string `yaml:"arrow_chars" json:"arrow_chars"`

	// NumberSeparators may follow the leading question number. A whitespace
	// character here enables all Unicode whitespace.
	NumberSeparators string `yaml:"number_separators" json:"number_separators"`

	OptionLetters    string `yaml:"option_letters" json:"option_letters"`
	OptionSeparators string `yaml:"option_separators" json:"option_separators"`

	// AnswerTrimChars are stripped from both ends of the answer text once the
	// marker is removed.
	AnswerTrimChars string `yaml:"answer_trim_chars" json:"answer_trim_chars"`

	// Affirmative and Negative are matched against the upper-cased answer.
	Affirmative []string `yaml:"affirmative" json:"affirmative"`
	Negative    []string `yaml:"negative" json:"negative"`

	TrueFalseLabels TrueFalseLabels `yaml:"true_false_labels" json:"true_false_labels"`

	// Unanswered is shown in place of a missing answer.
	Unanswered string `yaml:"unanswered" json:"unanswered"`
}

// Default returns the simplified Chinese exam-bank profile.
func Default() Profile {
	return Profile{
		Name: "zh-CN",
		Headers: []HeaderKeyword{
			{Keyword: "单选题", Type: SingleChoice},
			{Keyword: "多选题", Type: MultiChoice},
			{Keyword: "填空题", Type: FillBlank},
			{Keyword: "判断题", Type: TrueFalse},
		},
		AnswerMarker:     "正确答案",
		ArrowChars:       "↓←",
		NumberSeparators: "．. 、",
		OptionLetters:    "ABCDEFG",
		OptionSeparators: ". ",
		AnswerTrimChars:  "：: ",
		Affirmative:      []string{"A", "是", "正确"},
		Negative:         []string{"B", "否", "错误"},
		TrueFalseLabels: TrueFalseLabels{
			Affirmative: "是 (正确)",
			Negative:    "否 (错误)",
		},
		Unanswered: "未提供",
	}
}

// Validate reports the first problem that would make parsing misbehave.
func (p *Profile) Validate() error {
	if len(p.Headers) == 0 {
		return fmt.Errorf("%w: no header keywords", ErrInvalid)
	}
	if strings.TrimSpace(p.AnswerMarker) == "" {
		return fmt.Errorf("%w: answer_marker is empty", ErrInvalid)
	}
	seen := make(map[string]bool, len(p.Headers))
	for i, h := range p.Headers {
		if strings.TrimSpace(h.Keyword) == "" {
			return fmt.Errorf("%w: headers[%d]: keyword is empty", ErrInvalid, i)
		}
		if !isKnownType(h.Type) {
			return fmt.Errorf("%w: headers[%d]: unknown type %q", ErrInvalid, i, h.Type)
		}
		if strings.Contains(h.Keyword, p.AnswerMarker) || strings.Contains(p.AnswerMarker, h.Keyword) {
			return fmt.Errorf("%w: headers[%d]: keyword %q overlaps answer marker", ErrInvalid, i, h.Keyword)
		}
		if seen[h.Keyword] {
			return fmt.Errorf("%w: headers[%d]: duplicate keyword %q", ErrInvalid, i, h.Keyword)
		}
		seen[h.Keyword] = true
	}
	if p.OptionLetters == "" {
		return fmt.Errorf("%w: option_letters is empty", ErrInvalid)
	}
	for _, r := range p.OptionLetters {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%w: option_letters: %q is not a letter", ErrInvalid, r)
		}
	}
	if p.NumberSeparators == "" {
		return fmt.Errorf("%w: number_separators is empty", ErrInvalid)
	}
	if p.OptionSeparators == "" {
		return fmt.Errorf("%w: option_separators is empty", ErrInvalid)
	}
	return nil
}

// DetectHeader returns the type of the first header keyword contained in line.
func (p *Profile) DetectHeader(line string) (string, bool) {
	for _, h := range p.Headers {
		if strings.Contains(line, h.Keyword) {
			return h.Type, true
		}
	}
	return "", false
}

// HeaderLabel returns the keyword announcing typ, or typ itself.
func (p *Profile) HeaderLabel(typ string) string {
	for _, h := range p.Headers {
		if h.Type == typ {
			return h.Keyword
		}
	}
	return typ
}

// StripArrows removes every arrow character from line.
func (p *Profile) StripArrows(line string) string {
	if p.ArrowChars == "" {
		return line
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(p.ArrowChars, r) {
			return -1
		}
		return r
	}, line)
}

// HasAnswerMarker reports whether line carries the answer annotation.
func (p *Profile) HasAnswerMarker(line string) bool {
	return strings.Contains(line, p.AnswerMarker)
}

func isKnownType(t string) bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}
