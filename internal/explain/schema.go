package explain

import "github.com/abhisek/quizbank/internal/llm"

// ExplanationSchema is the structured output of one explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the reference answer of a quiz question is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two sentences stating why the reference answer is right",
				"minLength":   1,
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-5 short reasoning steps",
			},
			"pitfall": map[string]any{
				"type":        "string",
				"description": "The most likely mistake, or the learner's mistake when one is given. Empty if none",
			},
		},
		"required":             []any{"summary", "steps", "pitfall"},
		"additionalProperties": false,
	},
}
