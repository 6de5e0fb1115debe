// Package explain asks an LLM why the reference answer of a question is
// correct.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/abhisek/quizbank/internal/llm"
	"github.com/abhisek/quizbank/internal/question"
)

// ErrThrottled is returned when requests arrive faster than Config allows.
var ErrThrottled = errors.New("explanation requests throttled")

// Input is the question to explain and, optionally, the learner's answer
// in display form.
type Input struct {
	Question question.Question
	Given    string
}

// Explanation is a generated walkthrough of a reference answer.
type Explanation struct {
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
	Pitfall string   `json:"pitfall"`
}

// Service generates explanations, synchronously with Explain or in the
// background with Request and Consume.
type Service struct {
	provider llm.Provider
	builder  *question.Builder
	cfg      Config
	limiter  *rate.Limiter

	mu      sync.Mutex
	gen     int
	pending *Explanation
	err     error
	ready   bool
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, builder *question.Builder, cfg Config) *Service {
	limit := rate.Inf
	if cfg.Every > 0 {
		limit = rate.Every(cfg.Every)
	}
	return &Service{
		provider: provider,
		builder:  builder,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, max(cfg.Burst, 1)),
	}
}

// Explain generates an explanation, waiting for the throttle if needed.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThrottled, err)
	}
	return s.generate(ctx, in)
}

// Request starts generation in the background. Only the latest request is
// kept: a result from an earlier one is discarded. A throttled request is
// ready immediately with ErrThrottled.
func (s *Service) Request(ctx context.Context, in Input) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending, s.err, s.ready = nil, nil, false
	if !s.limiter.Allow() {
		s.err, s.ready = ErrThrottled, true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go func() {
		exp, err := s.generate(ctx, in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.pending, s.err, s.ready = exp, err, true
	}()
}

// Consume returns the result of the latest Request once it is ready and
// clears it. ok is false while generation is still running.
func (s *Service) Consume() (exp *Explanation, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false, nil
	}
	exp, err = s.pending, s.err
	s.pending, s.err, s.ready = nil, nil, false
	return exp, true, err
}

func (s *Service) generate(ctx context.Context, in Input) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	req := llm.NewRequest(systemPrompt, buildUserMessage(s.builder, in))
	req.Schema = ExplanationSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explanation: %w", err)
	}

	var exp Explanation
	if err := json.Unmarshal(resp.Content, &exp); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &exp, nil
}
