package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizbank/internal/question"
)

const systemPrompt = `You are a patient tutor reviewing a quiz question with a learner.
Explain why the reference answer is correct. Treat the reference answer as authoritative.
Reply in the language the question is written in. Keep every step short and concrete.`

func buildUserMessage(b *question.Builder, in Input) string {
	q := in.Question
	p := b.Profile()
	var sb strings.Builder

	fmt.Fprintf(&sb, "Question type: %s\n", p.HeaderLabel(string(q.Type)))
	fmt.Fprintf(&sb, "Question: %s\n", q.DisplayText())
	if opts := b.DisplayOptions(q); len(opts) > 0 {
		sb.WriteString("Options:\n")
		for _, letter := range (question.Question{Options: opts}).SortedOptions() {
			fmt.Fprintf(&sb, "  %s. %s\n", letter, opts[letter])
		}
	}
	fmt.Fprintf(&sb, "Reference answer: %s\n", b.FormatAnswer(q))
	if in.Given != "" {
		fmt.Fprintf(&sb, "Learner answered: %s\n", in.Given)
	}
	return sb.String()
}
