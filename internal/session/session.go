// Package session runs practice over a bank: importing documents, grading
// answers and persisting every change as a snapshot plus an event.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/store"
)

// ErrNoQuestions is returned by Import when a document yields no question.
// The current bank is kept.
var ErrNoQuestions = errors.New("document contains no questions")

// Options wires a Service. Both repos may be nil, in which case nothing is
// persisted.
type Options struct {
	Bank         *bank.Bank
	Segmenter    *segment.Segmenter
	SnapshotRepo store.SnapshotRepo
	EventRepo    store.EventRepo
	Logger       logrus.FieldLogger
}

// Service is safe for concurrent use.
type Service struct {
	bank      *bank.Bank
	seg       *segment.Segmenter
	snapshots store.SnapshotRepo
	events    store.EventRepo
	log       logrus.FieldLogger
	now       func() time.Time

	mu    sync.Mutex
	state *State
}

// New starts a session with a fresh ID.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		bank:      opts.Bank,
		seg:       opts.Segmenter,
		snapshots: opts.SnapshotRepo,
		events:    opts.EventRepo,
		log:       log,
		now:       time.Now,
	}
	s.state = newState(uuid.NewString(), s.now())
	return s
}

// Bank returns the bank the session practices on.
func (s *Service) Bank() *bank.Bank { return s.bank }

// Builder returns the question builder shared by the bank and segmenter.
func (s *Service) Builder() *question.Builder { return s.bank.Builder() }

// ID returns the session ID recorded with every answer event.
func (s *Service) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ID
}

// Summary reports the answers given so far.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildSummary(s.state, s.now())
}

// Load restores the bank from the latest snapshot. It reports false when
// nothing was saved.
func (s *Service) Load(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	return bank.Load(ctx, s.snapshots, s.bank)
}

// Parse reads and segments a document without touching the bank.
func (s *Service) Parse(data []byte, format docreader.Format, opts docreader.Options) (segment.Result, error) {
	paragraphs, err := docreader.Read(data, format, opts)
	if err != nil {
		return segment.Result{}, err
	}
	return s.seg.Parse(slices.Values(paragraphs)), nil
}

// ImportReport describes a finished import.
type ImportReport struct {
	ImportID    string              `json:"import_id"`
	Source      string              `json:"source"`
	Format      docreader.Format    `json:"format"`
	Questions   int                 `json:"questions"`
	Diagnostics segment.Diagnostics `json:"diagnostics"`
}

// Import parses a document and replaces the bank with its questions.
func (s *Service) Import(ctx context.Context, data []byte, format docreader.Format, source string, opts docreader.Options) (ImportReport, error) {
	res, err := s.Parse(data, format, opts)
	if err != nil {
		return ImportReport{}, fmt.Errorf("parse %s: %w", source, err)
	}
	report := ImportReport{
		Source:      source,
		Format:      format,
		Questions:   len(res.Questions),
		Diagnostics: res.Diagnostics,
	}
	if len(res.Questions) == 0 {
		return report, ErrNoQuestions
	}
	prev := s.bank.Snapshot()
	importID := s.bank.Import(res.Questions, source)

	if err := s.recordImport(ctx, importID, source, format, res.Diagnostics, report.Questions); err != nil {
		// Keep the bank in step with the last saved snapshot.
		if rerr := s.bank.Restore(prev); rerr != nil {
			return report, errors.Join(err, rerr)
		}
		return report, err
	}
	report.ImportID = importID

	s.log.WithFields(logrus.Fields{
		"import_id": report.ImportID,
		"source":    source,
		"questions": report.Questions,
		"dropped":   len(res.Diagnostics.Dropped),
	}).Info("bank imported")
	return report, nil
}

// recordImport appends the import event, then saves the new bank.
func (s *Service) recordImport(ctx context.Context, importID, source string, format docreader.Format, d segment.Diagnostics, questions int) error {
	if s.events != nil {
		p := s.Builder().Profile()
		err := s.events.AppendImport(ctx, store.ImportEventData{
			ImportID:  importID,
			Source:    source,
			Format:    string(format),
			Profile:   p.Name,
			Questions: questions,
			Dropped:   len(d.Dropped),
			Discarded: d.Discarded,
		})
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
	}
	return s.save(ctx)
}

// ImportFile reads path, choosing the reader by its extension, and imports
// it under its base name.
func (s *Service) ImportFile(ctx context.Context, path string, opts docreader.Options) (ImportReport, error) {
	format, err := docreader.Detect(path)
	if err != nil {
		return ImportReport{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Import(ctx, data, format, filepath.Base(path), opts)
}

// Restore replaces the bank with previously exported data.
func (s *Service) Restore(ctx context.Context, data store.ProgressSnapshotData) error {
	if err := s.bank.Restore(data); err != nil {
		return err
	}
	return s.save(ctx)
}

// Answer grades a response to question idx, moves the question to the
// answered list and records the attempt. elapsed is the time the learner
// spent on the question, zero if unknown.
func (s *Service) Answer(ctx context.Context, idx int, r question.Response, elapsed time.Duration) (question.Result, error) {
	q, err := s.bank.Question(idx)
	if err != nil {
		return question.Result{}, err
	}
	res, err := s.bank.Submit(idx, r)
	if err != nil {
		return question.Result{}, err
	}

	s.mu.Lock()
	s.state.Record(q.Type, res.Correct, elapsed)
	sessionID := s.state.ID
	s.mu.Unlock()

	if s.events != nil {
		err := s.events.AppendAnswer(ctx, store.AnswerEventData{
			ImportID:      s.bank.ImportID(),
			SessionID:     sessionID,
			QuestionIndex: idx,
			QuestionType:  string(q.Type),
			QuestionText:  q.DisplayText(),
			Expected:      res.Expected,
			Given:         res.Given,
			Correct:       res.Correct,
			TimeMs:        elapsed.Milliseconds(),
		})
		if err != nil {
			return res, fmt.Errorf("record answer: %w", err)
		}
	}
	return res, s.save(ctx)
}

// MoveBack returns answered questions to the unanswered pool.
func (s *Service) MoveBack(ctx context.Context, idxs ...int) (int, error) {
	n := s.bank.MoveBack(idxs...)
	if n == 0 {
		return 0, nil
	}
	return n, s.save(ctx)
}

// Delete removes questions from the bank.
func (s *Service) Delete(ctx context.Context, idxs ...int) (int, error) {
	n := s.bank.Delete(idxs...)
	if n == 0 {
		return 0, nil
	}
	return n, s.save(ctx)
}

func (s *Service) save(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	if err := bank.Save(ctx, s.snapshots, s.bank); err != nil {
		s.log.WithError(err).Warn("snapshot not saved")
		return err
	}
	return nil
}
