// Package bank keeps the practice pools of an imported question bank: the
// unanswered pool questions are drawn from, and the answered list, newest
// first.
package bank

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/quizbank/internal/question"
)

var (
	// ErrEmpty is returned by Draw when every question has been answered.
	ErrEmpty = errors.New("no unanswered questions")

	// ErrNotFound is returned for a sequence index that is not in the bank.
	ErrNotFound = errors.New("question not found")
)

// Bank holds the questions of one import and both practice pools. Pools
// hold question sequence indexes. A Bank is safe for concurrent use.
type Bank struct {
	mu      sync.Mutex
	builder *question.Builder
	rng     *rand.Rand

	importID   string
	source     string
	questions  []question.Question
	byIndex    map[int]int
	unanswered []int
	answered   []int
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand sets the random source used for drawing and shuffling.
func WithRand(r *rand.Rand) Option {
	return func(b *Bank) { b.rng = r }
}

// New returns an empty bank. The builder's profile drives answer display
// and the true/false check.
func New(builder *question.Builder, opts ...Option) *Bank {
	b := &Bank{
		builder: builder,
		byIndex: map[int]int{},
	}
	for _, o := range opts {
		o(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

// Builder returns the question builder the bank displays and grades with.
func (b *Bank) Builder() *question.Builder {
	return b.builder
}

// Import replaces the bank with questions. Every question starts
// unanswered, in random order. It returns the new import ID.
func (b *Bank) Import(questions []question.Question, source string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.importID = uuid.NewString()
	b.source = source
	b.setQuestions(questions)
	b.unanswered = make([]int, 0, len(questions))
	for _, q := range questions {
		b.unanswered = append(b.unanswered, q.SequenceIndex)
	}
	b.answered = nil
	b.shuffle()
	return b.importID
}

func (b *Bank) setQuestions(questions []question.Question) {
	b.questions = slices.Clone(questions)
	b.byIndex = make(map[int]int, len(questions))
	for i, q := range b.questions {
		b.byIndex[q.SequenceIndex] = i
	}
}

func (b *Bank) shuffle() {
	b.rng.Shuffle(len(b.unanswered), func(i, j int) {
		b.unanswered[i], b.unanswered[j] = b.unanswered[j], b.unanswered[i]
	})
}

// ImportID identifies the current import, "" before the first one.
func (b *Bank) ImportID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.importID
}

// Source is the file name the current questions were imported from.
func (b *Bank) Source() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.questions)
}

// Questions returns every question in extraction order.
func (b *Bank) Questions() []question.Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.questions)
}

// Question returns the question with sequence index idx as it is displayed.
func (b *Bank) Question(idx int) (question.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolve(idx)
}

// resolve looks up idx and applies the true/false display check, keeping
// the recomputed answer.
func (b *Bank) resolve(idx int) (question.Question, error) {
	pos, ok := b.byIndex[idx]
	if !ok {
		return question.Question{}, fmt.Errorf("%w: %d", ErrNotFound, idx)
	}
	q := b.builder.ResolveTrueFalse(b.questions[pos])
	b.questions[pos] = q
	return q, nil
}

// Unanswered returns the unanswered pool.
func (b *Bank) Unanswered() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.unanswered)
}

// Answered returns the answered list, most recent first.
func (b *Bank) Answered() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.answered)
}

// Draw picks an unanswered question uniformly at random. The question stays
// unanswered until it is submitted.
func (b *Bank) Draw() (question.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.unanswered) == 0 {
		return question.Question{}, ErrEmpty
	}
	return b.resolve(b.unanswered[b.rng.IntN(len(b.unanswered))])
}

// Submit grades r against question idx. An unanswered question moves to
// the front of the answered list; answering it again only grades.
func (b *Bank) Submit(idx int, r question.Response) (question.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.resolve(idx)
	if err != nil {
		return question.Result{}, err
	}
	res := b.builder.Check(q, r)

	if i := slices.Index(b.unanswered, idx); i >= 0 {
		b.unanswered = slices.Delete(b.unanswered, i, i+1)
		b.answered = slices.Insert(b.answered, 0, idx)
	}
	return res, nil
}

// MoveBack returns answered questions to the unanswered pool and reshuffles
// it. Indexes not in the answered list are ignored. It returns how many
// questions moved.
func (b *Bank) MoveBack(idxs ...int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	moved := 0
	for _, idx := range idxs {
		i := slices.Index(b.answered, idx)
		if i < 0 {
			continue
		}
		b.answered = slices.Delete(b.answered, i, i+1)
		b.unanswered = append(b.unanswered, idx)
		moved++
	}
	if moved > 0 {
		b.shuffle()
	}
	return moved
}

// Delete removes questions from the bank and both pools. It returns how
// many questions were removed.
func (b *Bank) Delete(idxs ...int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	drop := make(map[int]bool, len(idxs))
	for _, idx := range idxs {
		if _, ok := b.byIndex[idx]; ok {
			drop[idx] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	gone := func(idx int) bool { return drop[idx] }
	b.setQuestions(slices.DeleteFunc(b.questions, func(q question.Question) bool {
		return drop[q.SequenceIndex]
	}))
	b.unanswered = slices.DeleteFunc(b.unanswered, gone)
	b.answered = slices.DeleteFunc(b.answered, gone)
	return len(drop)
}
