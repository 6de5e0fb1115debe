package segment

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/question"
)

// Segmenter runs the block state machine with one profile.
type Segmenter struct {
	profile profile.Profile
	builder *question.Builder
	log     logrus.FieldLogger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithProfile replaces the default locale tables.
func WithProfile(p profile.Profile) Option {
	return func(s *Segmenter) { s.profile = p }
}

// WithLogger sets the logger used for dropped blocks.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Segmenter) { s.log = l }
}

// New creates a Segmenter. It fails only for an invalid profile.
func New(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{
		profile: profile.Default(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.profile.Validate(); err != nil {
		return nil, err
	}
	b, err := question.NewBuilder(s.profile)
	if err != nil {
		return nil, fmt.Errorf("new builder: %w", err)
	}
	s.builder = b
	return s, nil
}

// Builder returns the question builder bound to the segmenter's profile.
func (s *Segmenter) Builder() *question.Builder {
	return s.builder
}

// Result is the output of one parse.
type Result struct {
	Questions   []question.Question
	Diagnostics Diagnostics
}

// Parse consumes paragraphs in order and returns the questions built from
// them. Malformed blocks never fail the parse; they are dropped and
// reported in the diagnostics.
func (s *Segmenter) Parse(paragraphs iter.Seq[string]) Result {
	var (
		res Result
		st  State
	)
	for p := range paragraphs {
		res.Diagnostics.Paragraphs++
		var step Step
		st, step = s.Feed(st, p)
		s.record(&res, step)
	}
	_, step := s.OnEnd(st)
	s.record(&res, step)
	return res
}

func (s *Segmenter) record(res *Result, step Step) {
	d := &res.Diagnostics
	switch {
	case step.Skipped:
		d.Blank++
	case step.Discarded:
		d.Discarded++
	}
	if step.Header {
		d.Headers++
	}
	if step.Question != nil {
		res.Questions = append(res.Questions, *step.Question)
	}
	if step.Drop != nil {
		d.Dropped = append(d.Dropped, *step.Drop)
		s.logDrop(*step.Drop)
	}
}

func (s *Segmenter) logDrop(d Drop) {
	entry := s.log.WithFields(logrus.Fields{
		"reason": d.Reason,
		"type":   d.Type,
		"line":   d.Line,
	})
	if d.Reason == ReasonBuildFault {
		entry.WithError(d.Err).Warn("question dropped")
		return
	}
	entry.Debug("block dropped")
}

// Parse is a convenience wrapper around New and Segmenter.Parse.
func Parse(paragraphs iter.Seq[string], opts ...Option) (Result, error) {
	s, err := New(opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Parse(paragraphs), nil
}
