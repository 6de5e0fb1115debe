// Package llm talks to hosted language models. Every provider returns
// structured JSON when a Schema is given and validates it before returning.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response per request.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON matching it. The response is
	// validated against the schema before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// NewRequest returns a one-message request.
func NewRequest(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason says why generation ended.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the generated output.
type Response struct {
	// Content is the JSON object when the request had a Schema, the raw
	// text otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish validates provider output against the request and wraps it.
func finish(req Request, content json.RawMessage, model string, stop StopReason, usage Usage) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &Error{Kind: ErrTruncated, Content: content}
	}
	if err := req.Schema.Validate(content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// defaultMaxTokens applies when a request leaves MaxTokens zero.
const defaultMaxTokens = 1024

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}

// resolveModel maps a short alias to a model ID. Unknown names pass through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
