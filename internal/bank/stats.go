package bank

import (
	"fmt"
	"maps"
	"slices"

	"github.com/abhisek/quizbank/internal/question"
)

// Stats counts the bank and its pools.
type Stats struct {
	Total      int                   `json:"total"`
	Unanswered int                   `json:"unanswered"`
	Answered   int                   `json:"answered"`
	ByType     map[question.Type]int `json:"by_type"`
}

// Stats returns the current counts.
func (b *Bank) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Stats{
		Total:      len(b.questions),
		Unanswered: len(b.unanswered),
		Answered:   len(b.answered),
		ByType:     map[question.Type]int{},
	}
	for _, q := range b.questions {
		s.ByType[q.Type]++
	}
	return s
}

// Choice is one lettered option, in display order.
type Choice struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Preview is a read-only rendering of one question.
type Preview struct {
	Index   int           `json:"index"`
	Type    question.Type `json:"type"`
	Label   string        `json:"label"`
	Order   int           `json:"order"`
	Text    string        `json:"text"`
	Choices []Choice      `json:"choices,omitempty"`
	Blanks  int           `json:"blanks,omitempty"`
	Answer  string        `json:"answer"`
}

// Title is the one-line list entry: type label, original order and text.
func (p Preview) Title() string {
	return fmt.Sprintf("%s (#%d) %s", p.Label, p.Order, p.Text)
}

// Preview renders question idx.
func (b *Bank) Preview(idx int) (Preview, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.resolve(idx)
	if err != nil {
		return Preview{}, err
	}
	return b.preview(q), nil
}

// AnsweredPreviews renders the answered list, most recent first.
func (b *Bank) AnsweredPreviews() []Preview {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Preview, 0, len(b.answered))
	for _, idx := range b.answered {
		q, err := b.resolve(idx)
		if err != nil {
			continue
		}
		out = append(out, b.preview(q))
	}
	return out
}

func (b *Bank) preview(q question.Question) Preview {
	p := b.builder.Profile()
	pv := Preview{
		Index:  q.SequenceIndex,
		Type:   q.Type,
		Label:  p.HeaderLabel(string(q.Type)),
		Order:  q.SequenceIndex + 1,
		Text:   q.DisplayText(),
		Answer: b.builder.FormatAnswer(q),
	}
	opts := b.builder.DisplayOptions(q)
	for _, l := range slices.Sorted(maps.Keys(opts)) {
		pv.Choices = append(pv.Choices, Choice{Letter: l, Text: opts[l]})
	}
	if q.Type == question.FillBlank {
		pv.Blanks = q.BlankCount()
	}
	return pv
}
