package question

import "strings"

// ResolveTrueFalse applies the display-time check for true/false questions:
// an answer other than "A" or "B" is recomputed from the raw annotation with
// the affirmative and negative markers, and cleared when neither matches.
// Other question types are returned unchanged.
func (b *Builder) ResolveTrueFalse(q Question) Question {
	if q.Type != TrueFalse {
		return q
	}
	if c := q.Choice(); c == "A" || c == "B" {
		return q
	}
	if letter := b.trueFalseLetter(b.CleanAnswer(q.RawAnswer)); letter != "" {
		q.Answer = []string{letter}
	} else {
		q.Answer = nil
	}
	return q
}

// DisplayOptions returns the options to present: the fixed affirmative and
// negative labels for true/false, the parsed options for choice questions,
// nil otherwise.
func (b *Builder) DisplayOptions(q Question) map[string]string {
	switch q.Type {
	case TrueFalse:
		return map[string]string{
			"A": b.profile.TrueFalseLabels.Affirmative,
			"B": b.profile.TrueFalseLabels.Negative,
		}
	case SingleChoice, MultiChoice:
		return q.Options
	}
	return nil
}

// FormatAnswer renders the correct answer of q for people.
func (b *Builder) FormatAnswer(q Question) string {
	return b.formatValues(q, q.Answer)
}

// FormatResponse renders a learner response in the same form as FormatAnswer.
func (b *Builder) FormatResponse(q Question, r Response) string {
	return b.formatValues(q, r.values(q.Type))
}

func (b *Builder) formatValues(q Question, values []string) string {
	if len(values) == 0 {
		return b.profile.Unanswered
	}
	switch q.Type {
	case SingleChoice, TrueFalse:
		letter := values[0]
		if text, ok := b.DisplayOptions(q)[letter]; ok && text != "" {
			return letter + ". " + text
		}
		return letter
	case MultiChoice:
		return strings.Join(values, "")
	default:
		return strings.Join(values, " | ")
	}
}
