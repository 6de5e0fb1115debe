package session

import (
	"time"

	"github.com/abhisek/quizbank/internal/question"
)

// TypeResult tallies answers for one question type.
type TypeResult struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

// State tracks the answers given since the session started.
type State struct {
	ID      string
	Started time.Time

	// TotalAnswered counts submissions, repeats included.
	TotalAnswered int
	TotalCorrect  int
	ByType        map[question.Type]*TypeResult

	// Elapsed sums the answer times reported by callers.
	Elapsed time.Duration
}

func newState(id string, now time.Time) *State {
	return &State{ID: id, Started: now, ByType: map[question.Type]*TypeResult{}}
}

// Record adds one graded answer.
func (s *State) Record(t question.Type, correct bool, elapsed time.Duration) {
	s.TotalAnswered++
	tr, ok := s.ByType[t]
	if !ok {
		tr = &TypeResult{}
		s.ByType[t] = tr
	}
	tr.Attempted++
	if correct {
		s.TotalCorrect++
		tr.Correct++
	}
	s.Elapsed += elapsed
}
