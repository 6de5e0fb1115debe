package session

import (
	"time"

	"github.com/abhisek/quizbank/internal/question"
)

// Summary is the end-of-session report.
type Summary struct {
	SessionID     string                       `json:"session_id"`
	Duration      time.Duration                `json:"duration"`
	TotalAnswered int                          `json:"total_answered"`
	TotalCorrect  int                          `json:"total_correct"`
	Accuracy      float64                      `json:"accuracy"`
	ByType        map[question.Type]TypeResult `json:"by_type"`
}

// BuildSummary creates a Summary from state as of now.
func BuildSummary(state *State, now time.Time) Summary {
	var accuracy float64
	if state.TotalAnswered > 0 {
		accuracy = float64(state.TotalCorrect) / float64(state.TotalAnswered)
	}
	byType := make(map[question.Type]TypeResult, len(state.ByType))
	for t, r := range state.ByType {
		byType[t] = *r
	}
	return Summary{
		SessionID:     state.ID,
		Duration:      now.Sub(state.Started),
		TotalAnswered: state.TotalAnswered,
		TotalCorrect:  state.TotalCorrect,
		Accuracy:      accuracy,
		ByType:        byType,
	}
}
