// Package screentest builds the services screen tests run against.
package screentest

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/session"
)

// Bank has one question of every type. Question 4 has two blanks.
const Bank = "单选题\n" +
	"1．What color is the sky?\nA. Red\nB. Blue\n正确答案：B\n" +
	"多选题\n" +
	"2. Pick the primes\nA. 2\nB. 4\nC. 5\n正确答案：CA\n" +
	"判断题\n" +
	"3. The sun is a star.\n正确答案：正确\n" +
	"填空题\n" +
	"4. ___ and ___\n正确答案：1 salt 2 pepper\n"

// Quiet returns a logger that writes nowhere.
func Quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewService returns an in-memory session with text imported, or an empty
// bank when text is "".
func NewService(t *testing.T, text string) *session.Service {
	t.Helper()
	seg, err := segment.New(segment.WithLogger(Quiet()))
	if err != nil {
		t.Fatalf("segmenter: %v", err)
	}
	svc := session.New(session.Options{
		Bank:      bank.New(seg.Builder(), bank.WithRand(rand.New(rand.NewPCG(1, 2)))),
		Segmenter: seg,
		Logger:    Quiet(),
	})
	if text != "" {
		if _, err := svc.Import(context.Background(), []byte(text), docreader.FormatText, "bank.txt", docreader.Options{}); err != nil {
			t.Fatalf("import: %v", err)
		}
	}
	return svc
}

// KeyPress is a printable key.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey is a non-printable key such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and returns its message, nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
