package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestGeminiAliases(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiAliases))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":        "object",
		"description": "explanation",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"verdict": map[string]any{"type": "string", "enum": []any{"agree", "disagree"}},
		},
		"required": []string{"summary", "steps"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "explanation", s.Description)
	assert.Equal(t, []string{"summary", "steps"}, s.Required)
	assert.Equal(t, genai.TypeArray, s.Properties["steps"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["steps"].Items.Type)
	assert.Equal(t, []string{"agree", "disagree"}, s.Properties["verdict"].Enum)
}

func TestGeminiRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), Config{Model: "gemini-flash"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
