package question

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abhisek/quizbank/internal/profile"
)

// ErrBuildFault wraps any failure recovered while deriving question fields.
var ErrBuildFault = errors.New("question build fault")

// Block is one segmented question: a stem line, option lines and the line
// carrying the answer marker.
type Block struct {
	Type       Type
	Stem       string
	Options    []string
	AnswerLine string
}

// Builder builds questions using the literal tables of one profile.
type Builder struct {
	profile  profile.Profile
	stemRe   *regexp.Regexp
	optionRe *regexp.Regexp
}

// NewBuilder compiles the stem and option patterns of p.
func NewBuilder(p profile.Profile) (*Builder, error) {
	stemRe, err := regexp.Compile(`^[\s\p{Z}]*(\p{Nd}+[` + charClass(p.NumberSeparators) + `]+)(.*)`)
	if err != nil {
		return nil, fmt.Errorf("compile stem pattern: %w", err)
	}
	optionRe, err := regexp.Compile(`^[\s\p{Z}]*([` + charClass(p.OptionLetters) + `])[` + charClass(p.OptionSeparators) + `]+(.*)`)
	if err != nil {
		return nil, fmt.Errorf("compile option pattern: %w", err)
	}
	return &Builder{profile: p, stemRe: stemRe, optionRe: optionRe}, nil
}

// Profile returns the tables the builder was created with.
func (b *Builder) Profile() profile.Profile {
	return b.profile
}

// Build derives a Question from blk. A fault while deriving fields is
// recovered and returned as an error wrapping ErrBuildFault; the caller is
// expected to drop the block.
func (b *Builder) Build(blk Block, seq int) (q Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			q = Question{}
			err = fmt.Errorf("%w: %v", ErrBuildFault, r)
		}
	}()

	if _, ok := ParseType(string(blk.Type)); !ok {
		return Question{}, fmt.Errorf("%w: unknown type %q", ErrBuildFault, blk.Type)
	}

	q = Question{
		Type:          blk.Type,
		RawAnswer:     blk.AnswerLine,
		SequenceIndex: seq,
	}
	q.DisplayNumber, q.Body = b.splitStem(blk.Stem)
	if blk.Type.HasOptions() {
		q.Options = b.parseOptions(blk.Options)
	}
	q.Answer = b.parseAnswer(blk.Type, b.CleanAnswer(blk.AnswerLine))
	return q, nil
}

// CleanAnswer removes the answer marker and the trim characters around it.
func (b *Builder) CleanAnswer(line string) string {
	s := strings.ReplaceAll(line, b.profile.AnswerMarker, "")
	s = strings.Trim(s, b.profile.AnswerTrimChars)
	return TrimSpace(s)
}

func (b *Builder) splitStem(line string) (string, string) {
	line = TrimSpace(line)
	m := b.stemRe.FindStringSubmatch(line)
	if m == nil {
		return "", line
	}
	return TrimSpace(m[1]), TrimSpace(m[2])
}

func (b *Builder) parseOptions(lines []string) map[string]string {
	var opts map[string]string
	for _, line := range lines {
		m := b.optionRe.FindStringSubmatch(TrimSpace(line))
		if m == nil {
			continue
		}
		if opts == nil {
			opts = make(map[string]string)
		}
		opts[m[1]] = TrimSpace(m[2])
	}
	return opts
}

func (b *Builder) parseAnswer(t Type, cleaned string) []string {
	switch t {
	case SingleChoice:
		return firstRune(cleaned)
	case MultiChoice:
		return distinctLetters(cleaned)
	case TrueFalse:
		if letter := b.trueFalseLetter(cleaned); letter != "" {
			return []string{letter}
		}
		return firstRune(cleaned)
	case FillBlank:
		return splitBlanks(cleaned)
	}
	panic(fmt.Sprintf("no answer grammar for %q", t))
}

// trueFalseLetter maps affirmative markers to "A" and negative markers to
// "B". Affirmative markers are checked first.
func (b *Builder) trueFalseLetter(cleaned string) string {
	upper := strings.ToUpper(cleaned)
	for _, m := range b.profile.Affirmative {
		if m != "" && strings.Contains(upper, strings.ToUpper(m)) {
			return "A"
		}
	}
	for _, m := range b.profile.Negative {
		if m != "" && strings.Contains(upper, strings.ToUpper(m)) {
			return "B"
		}
	}
	return ""
}

func firstRune(s string) []string {
	for _, r := range s {
		return []string{string(r)}
	}
	return nil
}

func distinctLetters(s string) []string {
	seen := make(map[rune]bool)
	var letters []string
	for _, r := range s {
		if !unicode.IsLetter(r) || seen[r] {
			continue
		}
		seen[r] = true
		letters = append(letters, string(r))
	}
	sort.Strings(letters)
	return letters
}

// splitBlanks reads whitespace-separated blanks. A numeric token followed by
// a non-numeric one is a blank label and is skipped.
func splitBlanks(cleaned string) []string {
	tokens := fields(cleaned)
	var blanks []string
	for i := 0; i < len(tokens); {
		if isNumeric(tokens[i]) && i+1 < len(tokens) && !isNumeric(tokens[i+1]) {
			blanks = append(blanks, tokens[i+1])
			i += 2
			continue
		}
		blanks = append(blanks, tokens[i])
		i++
	}
	if len(blanks) == 0 {
		return []string{cleaned}
	}
	return blanks
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

// charClass escapes chars for use inside a regexp character class. Any
// whitespace character stands for every IsSpace character.
func charClass(chars string) string {
	var sb strings.Builder
	space := false
	for _, r := range chars {
		switch {
		case IsSpace(r):
			if !space {
				sb.WriteString(`\s\p{Z}\x{1c}-\x{1f}`)
				space = true
			}
		case r == '-' || r == '^' || r == ']' || r == '\\' || r == '[':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return sb.String()
}
