package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/profile"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(profile.Default())
	require.NoError(t, err)
	return b
}

func TestSplitStem(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		line     string
		wantNum  string
		wantBody string
	}{
		{"1．What color is the sky?", "1．", "What color is the sky?"},
		{"2. The sun is a star.", "2.", "The sun is a star."},
		{"  12 、 Pick one", "12 、", "Pick one"},
		{"3、以下哪项正确", "3、", "以下哪项正确"},
		{"３．全角数字", "３．", "全角数字"},
		{"Which planet is largest?", "", "Which planet is largest?"},
		{"2024年的题目", "", "2024年的题目"},
		{"   ", "", ""},
	}

	for _, tt := range tests {
		num, body := b.splitStem(tt.line)
		if num != tt.wantNum || body != tt.wantBody {
			t.Errorf("splitStem(%q) = (%q, %q), want (%q, %q)", tt.line, num, body, tt.wantNum, tt.wantBody)
		}
	}
}

func TestParseOptions(t *testing.T) {
	b := newTestBuilder(t)

	got := b.parseOptions([]string{"A. Red", "B Blue", " C.  Green ", "H. Out of range", "a. lower", "note line"})
	assert.Equal(t, map[string]string{"A": "Red", "B": "Blue", "C": "Green"}, got)

	assert.Nil(t, b.parseOptions([]string{"no options here"}))
	assert.Nil(t, b.parseOptions(nil))
}

func TestBuildSingleChoice(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(Block{
		Type:       SingleChoice,
		Stem:       "1．What color is the sky?",
		Options:    []string{"A. Red", "B. Blue"},
		AnswerLine: "正确答案：B",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, SingleChoice, q.Type)
	assert.Equal(t, "1．", q.DisplayNumber)
	assert.Equal(t, "What color is the sky?", q.Body)
	assert.Equal(t, map[string]string{"A": "Red", "B": "Blue"}, q.Options)
	assert.Equal(t, []string{"B"}, q.Answer)
	assert.Equal(t, "正确答案：B", q.RawAnswer)
	assert.Equal(t, 0, q.SequenceIndex)
	assert.Equal(t, "1． What color is the sky?", q.DisplayText())
}

func TestBuildTrueFalseIgnoresOptionLines(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(Block{
		Type:       TrueFalse,
		Stem:       "2. The sun is a star.",
		Options:    []string{"A. yes", "B. no"},
		AnswerLine: "正确答案：正确",
	}, 4)
	require.NoError(t, err)

	assert.Nil(t, q.Options)
	assert.Equal(t, []string{"A"}, q.Answer)
	assert.Equal(t, 4, q.SequenceIndex)
}

func TestBuildUnknownType(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(Block{Type: "essay", Stem: "1. x", AnswerLine: "正确答案：x"}, 0)
	assert.ErrorIs(t, err, ErrBuildFault)
}

func TestAnswerGrammars(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name string
		typ  Type
		line string
		want []string
	}{
		{"single", SingleChoice, "正确答案：B", []string{"B"}},
		{"single first char", SingleChoice, "正确答案: C D", []string{"C"}},
		{"single empty", SingleChoice, "正确答案：", nil},
		{"single trims colons", SingleChoice, "正确答案：：: A", []string{"A"}},

		{"multi sorted", MultiChoice, "正确答案：DBA", []string{"A", "B", "D"}},
		{"multi spaced duplicates", MultiChoice, "正确答案：C A B A", []string{"A", "B", "C"}},
		{"multi punctuation", MultiChoice, "正确答案：A,C;E", []string{"A", "C", "E"}},
		{"multi empty", MultiChoice, "正确答案：", nil},

		{"tf affirmative word", TrueFalse, "正确答案：正确", []string{"A"}},
		{"tf negative word", TrueFalse, "正确答案：错误", []string{"B"}},
		{"tf yes", TrueFalse, "正确答案：是", []string{"A"}},
		{"tf no", TrueFalse, "正确答案：否", []string{"B"}},
		{"tf lower a", TrueFalse, "正确答案：a", []string{"A"}},
		{"tf lower b", TrueFalse, "正确答案：b", []string{"B"}},
		{"tf fallback", TrueFalse, "正确答案：对", []string{"对"}},
		{"tf empty", TrueFalse, "正确答案：", nil},

		{"fill labeled", FillBlank, "正确答案：1 foo 2 bar", []string{"foo", "bar"}},
		{"fill plain", FillBlank, "正确答案：foo bar", []string{"foo", "bar"}},
		{"fill empty", FillBlank, "正确答案：", []string{""}},
		{"fill numbers only", FillBlank, "正确答案：1 2 3", []string{"1", "2", "3"}},
		{"fill trailing label", FillBlank, "正确答案：foo 2", []string{"foo", "2"}},
		{"fill single", FillBlank, "正确答案：北京", []string{"北京"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := b.Build(Block{Type: tt.typ, Stem: "1. stem", AnswerLine: tt.line}, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Answer)
		})
	}
}

func TestSplitBlanks(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"1 foo 2 bar", []string{"foo", "bar"}},
		{"foo bar", []string{"foo", "bar"}},
		{"", []string{""}},
		{"１ 甲 ２ 乙", []string{"甲", "乙"}},
		{"² 对x正确", []string{"对x正确"}},
		{"① 甲 ② 乙", []string{"甲", "乙"}},
		{"½ x", []string{"½", "x"}},
		{"甲\x1f乙", []string{"甲", "乙"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitBlanks(tt.in), "splitBlanks(%q)", tt.in)
	}
}

func TestMultiChoiceAnswerIsSortedAndDistinct(t *testing.T) {
	b := newTestBuilder(t)

	for _, line := range []string{"正确答案：ECBDA", "正确答案：AABBEEDDCC", "正确答案：E D C B A", "正确答案：CEADB"} {
		q, err := b.Build(Block{Type: MultiChoice, Stem: "1. x", AnswerLine: line}, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, q.Answer, line)
	}
}

func TestCleanAnswer(t *testing.T) {
	b := newTestBuilder(t)

	assert.Equal(t, "B", b.CleanAnswer("正确答案：B"))
	assert.Equal(t, "A B", b.CleanAnswer("  正确答案 : A B  "))
	assert.Equal(t, "", b.CleanAnswer("正确答案"))
	assert.Equal(t, "B", b.CleanAnswer("\x1f正确答案：B\x1c"))
}

func TestTrimSpaceIncludesSeparators(t *testing.T) {
	assert.Equal(t, "a b", TrimSpace("\x1c\x1d a b \x1e\x1f"))
	assert.Equal(t, "", TrimSpace("\x1c\u3000\n"))
	assert.True(t, IsSpace('\x1f'))
	assert.False(t, IsSpace('\x1b'))
}

func TestCustomProfile(t *testing.T) {
	p := profile.Default()
	p.AnswerMarker = "Answer"
	p.NumberSeparators = ")"
	p.OptionLetters = "ABCD"
	p.OptionSeparators = ")"
	p.Affirmative = []string{"TRUE"}
	p.Negative = []string{"FALSE"}

	b, err := NewBuilder(p)
	require.NoError(t, err)

	q, err := b.Build(Block{
		Type:       SingleChoice,
		Stem:       "7) Pick one",
		Options:    []string{"A) first", "B) second", "E) fifth"},
		AnswerLine: "Answer: B",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "7)", q.DisplayNumber)
	assert.Equal(t, map[string]string{"A": "first", "B": "second"}, q.Options)
	assert.Equal(t, []string{"B"}, q.Answer)

	q, err = b.Build(Block{Type: TrueFalse, Stem: "8) Water is wet", AnswerLine: "Answer: false"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, q.Answer)
}

func TestBlankCount(t *testing.T) {
	assert.Equal(t, 2, Question{Type: FillBlank, Answer: []string{"a", "b"}}.BlankCount())
	assert.Equal(t, 3, Question{Type: FillBlank, Body: "___ and ___ or ___"}.BlankCount())
	assert.Equal(t, 1, Question{Type: FillBlank, Body: "no blanks"}.BlankCount())
}

func TestSortedOptions(t *testing.T) {
	q := Question{Options: map[string]string{"C": "c", "A": "a", "B": "b"}}
	assert.Equal(t, []string{"A", "B", "C"}, q.SortedOptions())
	assert.Empty(t, Question{}.SortedOptions())
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType("multi_choice")
	assert.True(t, ok)
	assert.Equal(t, MultiChoice, typ)

	_, ok = ParseType("essay")
	assert.False(t, ok)
}
