package session

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/store"
)

const sampleBank = "期末题库\n" +
	"单选题\n" +
	"1．What color is the sky?\nA. Red\nB. Blue\n正确答案：B\n" +
	"多选题\n" +
	"2. Pick the primes\nA. 2\nB. 4\nC. 5\n正确答案：CA\n" +
	"判断题\n" +
	"3. The sun is a star.\n正确答案：正确\n" +
	"填空题\n" +
	"4. ___ and ___\n" +
	"5. Orphan without answer\n正确答案：1 foo 2 bar\n"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return newServiceWith(t, st), st
}

func newServiceWith(t *testing.T, st *store.Store) *Service {
	t.Helper()
	seg, err := segment.New(segment.WithLogger(quietLogger()))
	require.NoError(t, err)
	return New(Options{
		Bank:         bank.New(seg.Builder(), bank.WithRand(rand.New(rand.NewPCG(3, 4)))),
		Segmenter:    seg,
		SnapshotRepo: st.SnapshotRepo(),
		EventRepo:    st.EventRepo(),
		Logger:       quietLogger(),
	})
}

func importSample(t *testing.T, s *Service) ImportReport {
	t.Helper()
	report, err := s.Import(context.Background(), []byte(sampleBank), docreader.FormatText, "bank.txt", docreader.Options{})
	require.NoError(t, err)
	return report
}

func TestParseDoesNotTouchBank(t *testing.T) {
	s, _ := newTestService(t)

	res, err := s.Parse([]byte(sampleBank), docreader.FormatText, docreader.Options{})
	require.NoError(t, err)
	assert.Len(t, res.Questions, 4)
	assert.Equal(t, 1, res.Diagnostics.Discarded)
	assert.Equal(t, 0, s.Bank().Len())
}

func TestImport(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()

	report := importSample(t, s)
	assert.NotEmpty(t, report.ImportID)
	assert.Equal(t, 4, report.Questions)
	assert.Equal(t, docreader.FormatText, report.Format)
	assert.Equal(t, 4, s.Bank().Len())

	imports, err := st.EventRepo().QueryImports(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, report.ImportID, imports[0].ImportID)
	assert.Equal(t, "text", imports[0].Format)
	assert.Equal(t, 1, imports[0].Discarded)

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Data.Progress.Questions, 4)
}

func TestImportWithoutQuestionsKeepsBank(t *testing.T) {
	s, _ := newTestService(t)
	importSample(t, s)

	report, err := s.Import(context.Background(), []byte("no headers here\n"), docreader.FormatText, "empty.txt", docreader.Options{})
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, 1, report.Diagnostics.Discarded)
	assert.Equal(t, 4, s.Bank().Len())
}

// failingImports is an event repo whose import appends fail.
type failingImports struct {
	store.EventRepo
}

func (failingImports) AppendImport(context.Context, store.ImportEventData) error {
	return errors.New("disk full")
}

func TestImportFailureKeepsPreviousBank(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	first := importSample(t, s)
	_, err := s.Answer(ctx, s.Bank().Unanswered()[0], question.Response{}, 0)
	require.NoError(t, err)

	s.events = failingImports{EventRepo: st.EventRepo()}
	other := "单选题\n1. Only one\nA. x\nB. y\n正确答案：A\n"
	report, err := s.Import(ctx, []byte(other), docreader.FormatText, "other.txt", docreader.Options{})
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, report.ImportID)

	assert.Equal(t, first.ImportID, s.Bank().ImportID())
	assert.Equal(t, "bank.txt", s.Bank().Source())
	assert.Equal(t, 4, s.Bank().Len())
	assert.Len(t, s.Bank().Answered(), 1)

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, first.ImportID, snap.Data.Progress.ImportID)
}

func TestImportFile(t *testing.T) {
	s, _ := newTestService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "final.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleBank), 0o644))

	report, err := s.ImportFile(context.Background(), path, docreader.Options{})
	require.NoError(t, err)
	assert.Equal(t, "final.txt", report.Source)
	assert.Equal(t, "final.txt", s.Bank().Source())
	assert.Equal(t, 4, report.Questions)

	_, err = s.ImportFile(context.Background(), filepath.Join(dir, "bank.pdf"), docreader.Options{})
	assert.ErrorIs(t, err, docreader.ErrUnsupportedFormat)

	_, err = s.ImportFile(context.Background(), filepath.Join(dir, "missing.txt"), docreader.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportUnreadableDocument(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Import(context.Background(), []byte("not a zip"), docreader.FormatDOCX, "bad.docx", docreader.Options{})
	assert.Error(t, err)
}

func TestAnswerRecordsAndPersists(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	importSample(t, s)

	res, err := s.Answer(ctx, 0, question.Response{Choice: "b"}, 1500*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "B. Blue", res.Expected)

	res, err = s.Answer(ctx, 2, question.Response{Choice: "B"}, 0)
	require.NoError(t, err)
	assert.False(t, res.Correct)

	assert.Equal(t, []int{2, 0}, s.Bank().Answered())

	answers, err := st.EventRepo().QueryAnswers(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, 2, answers[0].QuestionIndex)
	assert.Equal(t, s.ID(), answers[0].SessionID)
	assert.Equal(t, int64(1500), answers[1].TimeMs)

	sum := s.Summary()
	assert.Equal(t, 2, sum.TotalAnswered)
	assert.Equal(t, 1, sum.TotalCorrect)
	assert.InDelta(t, 0.5, sum.Accuracy, 1e-9)
	assert.Equal(t, TypeResult{Attempted: 1, Correct: 1}, sum.ByType[question.SingleChoice])
	assert.Equal(t, TypeResult{Attempted: 1}, sum.ByType[question.TrueFalse])

	// A fresh service over the same store sees the saved pools.
	again := newServiceWith(t, st)
	ok, err := again.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{2, 0}, again.Bank().Answered())
	assert.NotEqual(t, s.ID(), again.ID())
}

func TestAnswerUnknownQuestion(t *testing.T) {
	s, _ := newTestService(t)
	importSample(t, s)
	_, err := s.Answer(context.Background(), 42, question.Response{}, 0)
	assert.ErrorIs(t, err, bank.ErrNotFound)
	assert.Equal(t, 0, s.Summary().TotalAnswered)
}

func TestMoveBackAndDelete(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	importSample(t, s)

	_, err := s.Answer(ctx, 1, question.Response{Choices: []string{"A", "C"}}, 0)
	require.NoError(t, err)

	n, err := s.MoveBack(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, s.Bank().Answered())

	n, err = s.Delete(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Delete(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Data.Progress.Questions, 3)
	assert.ElementsMatch(t, []int{0, 1, 2}, snap.Data.Progress.Unanswered)
}

func TestWithoutRepos(t *testing.T) {
	seg, err := segment.New(segment.WithLogger(quietLogger()))
	require.NoError(t, err)
	s := New(Options{Bank: bank.New(seg.Builder()), Segmenter: seg, Logger: quietLogger()})
	ctx := context.Background()

	ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	importSample(t, s)
	_, err = s.Answer(ctx, 0, question.Response{Choice: "B"}, 0)
	assert.NoError(t, err)
}

func TestRestore(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()

	data := store.ProgressSnapshotData{
		ImportID:   "imp-9",
		Questions:  []question.Question{{Type: question.FillBlank, Body: "x ___", Answer: []string{"y"}}},
		Unanswered: []int{0},
	}
	require.NoError(t, s.Restore(ctx, data))
	assert.Equal(t, "imp-9", s.Bank().ImportID())

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "imp-9", snap.Data.Progress.ImportID)

	bad := data
	bad.Answered = []int{5}
	assert.ErrorIs(t, s.Restore(ctx, bad), bank.ErrNotFound)
}

func TestBuildSummaryEmpty(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	sum := BuildSummary(newState("s1", start), start.Add(time.Minute))
	assert.Equal(t, "s1", sum.SessionID)
	assert.Equal(t, time.Minute, sum.Duration)
	assert.Zero(t, sum.Accuracy)
	assert.Empty(t, sum.ByType)
}
