package practice

import (
	"github.com/abhisek/quizbank/internal/question"
)

// drawnMsg carries the next question, or bank.ErrEmpty.
type drawnMsg struct {
	Question question.Question
	Err      error
}

// gradedMsg is sent once an answer has been graded and persisted.
type gradedMsg struct {
	Result question.Result
	Err    error
}

// explainTickMsg polls the explanation service.
type explainTickMsg struct {
	Seq int
}
