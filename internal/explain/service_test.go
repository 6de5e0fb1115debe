package explain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/llm"
	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/question"
)

func validExplanationJSON() json.RawMessage {
	return json.RawMessage(`{
		"summary": "Rayleigh scattering makes the sky look blue.",
		"steps": ["Sunlight contains all colors.", "Short wavelengths scatter the most."],
		"pitfall": "Red is the color of sunsets, not of the daytime sky."
	}`)
}

func testBuilder(t *testing.T) *question.Builder {
	t.Helper()
	b, err := question.NewBuilder(profile.Default())
	require.NoError(t, err)
	return b
}

func skyQuestion() question.Question {
	return question.Question{
		Type:          question.SingleChoice,
		DisplayNumber: "1．",
		Body:          "What color is the sky?",
		Options:       map[string]string{"A": "Red", "B": "Blue"},
		Answer:        []string{"B"},
	}
}

func noThrottle() Config {
	cfg := DefaultConfig()
	cfg.Every = 0
	return cfg
}

func waitConsume(t *testing.T, s *Service) (*Explanation, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if exp, ok, err := s.Consume(); ok {
			return exp, err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("explanation never became ready")
	return nil, nil
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExplanationJSON()})
	svc := NewService(mock, testBuilder(t), noThrottle())

	exp, err := svc.Explain(t.Context(), Input{Question: skyQuestion(), Given: "A. Red"})
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering makes the sky look blue.", exp.Summary)
	assert.Len(t, exp.Steps, 2)
	assert.NotEmpty(t, exp.Pitfall)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, ExplanationSchema, req.Schema)
	assert.Equal(t, 600, req.MaxTokens)
	user := req.Messages[0].Content
	assert.Contains(t, user, "Question type: 单选题")
	assert.Contains(t, user, "Question: 1． What color is the sky?")
	assert.Contains(t, user, "  A. Red\n  B. Blue\n")
	assert.Contains(t, user, "Reference answer: B. Blue")
	assert.Contains(t, user, "Learner answered: A. Red")
}

func TestPromptUsesTrueFalseLabels(t *testing.T) {
	b := testBuilder(t)
	msg := buildUserMessage(b, Input{Question: question.Question{
		Type:   question.TrueFalse,
		Body:   "The sun is a star.",
		Answer: []string{"A"},
	}})
	assert.Contains(t, msg, "  A. 是 (正确)\n")
	assert.Contains(t, msg, "Reference answer: A. 是 (正确)")
	assert.NotContains(t, msg, "Learner answered")
}

func TestExplainRejectsInvalidOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary": ""}`)})
	svc := NewService(mock, testBuilder(t), noThrottle())

	_, err := svc.Explain(t.Context(), Input{Question: skyQuestion()})
	assert.ErrorIs(t, err, llm.ErrInvalidResponse)
}

func TestRequestAndConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExplanationJSON()})
	svc := NewService(mock, testBuilder(t), noThrottle())

	_, ok, _ := svc.Consume()
	assert.False(t, ok, "nothing requested yet")

	svc.Request(t.Context(), Input{Question: skyQuestion()})
	exp, err := waitConsume(t, svc)
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering makes the sky look blue.", exp.Summary)

	_, ok, _ = svc.Consume()
	assert.False(t, ok, "consume clears the result")
}

func TestRequestProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.Error{Kind: llm.ErrUnavailable}})
	svc := NewService(mock, testBuilder(t), noThrottle())

	svc.Request(t.Context(), Input{Question: skyQuestion()})
	exp, err := waitConsume(t, svc)
	assert.Nil(t, exp)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

// blockingProvider holds the first call until release is closed.
type blockingProvider struct {
	release chan struct{}
	first   chan struct{}
	calls   int
	replies []string
}

func (p *blockingProvider) ModelID() string { return "blocking" }

func (p *blockingProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.calls++
	reply := p.replies[p.calls-1]
	if p.calls == 1 {
		close(p.first)
		<-p.release
	}
	return &llm.Response{Content: json.RawMessage(reply), Model: "blocking"}, nil
}

func TestRequestKeepsOnlyLatest(t *testing.T) {
	p := &blockingProvider{
		release: make(chan struct{}),
		first:   make(chan struct{}),
		replies: []string{
			`{"summary":"stale","steps":[],"pitfall":""}`,
			`{"summary":"fresh","steps":[],"pitfall":""}`,
		},
	}
	svc := NewService(p, testBuilder(t), noThrottle())

	svc.Request(t.Context(), Input{Question: skyQuestion()})
	<-p.first
	svc.Request(t.Context(), Input{Question: skyQuestion()})

	exp, err := waitConsume(t, svc)
	require.NoError(t, err)
	assert.Equal(t, "fresh", exp.Summary)

	close(p.release)
	time.Sleep(20 * time.Millisecond)
	_, ok, _ := svc.Consume()
	assert.False(t, ok, "stale result must be dropped")
}

func TestRequestThrottled(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExplanationJSON()})
	cfg := DefaultConfig()
	cfg.Every = time.Hour
	cfg.Burst = 1
	svc := NewService(mock, testBuilder(t), cfg)

	svc.Request(t.Context(), Input{Question: skyQuestion()})
	_, err := waitConsume(t, svc)
	require.NoError(t, err)

	svc.Request(t.Context(), Input{Question: skyQuestion()})
	exp, ok, err := svc.Consume()
	assert.True(t, ok)
	assert.Nil(t, exp)
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Len(t, mock.Calls(), 1)
}

func TestExplainThrottleHonorsContext(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validExplanationJSON()},
		llm.MockResponse{Content: validExplanationJSON()},
	)
	cfg := DefaultConfig()
	cfg.Every = time.Hour
	cfg.Burst = 1
	svc := NewService(mock, testBuilder(t), cfg)

	_, err := svc.Explain(t.Context(), Input{Question: skyQuestion()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err = svc.Explain(ctx, Input{Question: skyQuestion()})
	assert.ErrorIs(t, err, ErrThrottled)
}
