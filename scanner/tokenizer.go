package scanner

import (
	"strconv"
	"sync"

	"github.com/npillmayer/retrace/grammar"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Literal classes recognized by the DFA.
const (
	litWhitespace int = iota
	litIdentifier
	litNumber
	litString
)

var litNames = []string{"whitespace", "identifier", "number", "string"}

// There are two lexers, one accepting dashes within identifiers and one not.
// Both are compiled on first use and shared between tokenizers.
var lexers [2]struct {
	once  sync.Once
	lexer *lexmachine.Lexer
	err   error
}

func literalLexer(dashes bool) (*lexmachine.Lexer, error) {
	i := 0
	if dashes {
		i = 1
	}
	l := &lexers[i]
	l.once.Do(func() {
		ident := `([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`
		if dashes {
			ident = `([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_|-)*`
		}
		l.lexer = lexmachine.NewLexer()
		l.lexer.Add([]byte(`( |\t|\n|\r)+`), literal(litWhitespace))
		l.lexer.Add([]byte(ident), literal(litIdentifier))
		l.lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), literal(litNumber))
		l.lexer.Add([]byte(`\"[^"]*\"`), literal(litString))
		if l.err = l.lexer.Compile(); l.err != nil {
			tracer().Errorf("Error compiling DFA: %v", l.err)
		}
	})
	return l.lexer, l.err
}

func literal(class int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(class, litNames[class], m), nil
	}
}

// Tokenizer is the scanning engine. It appends tokens to runs, one run per
// call to Advance, and stops at the first position where neither a keyword
// nor an enabled literal class matches.
type Tokenizer struct {
	text       string
	adapter    *Adapter
	dashes     bool
	scanner    *lexmachine.Scanner
	Offset     int // position after everything scanned so far, including trailing whitespace
	Whitespace int // whitespace scanned after the last token
}

// Option configures a tokenizer.
type Option func(*Tokenizer)

// AllowDashes overrides the grammar's setting for dashes within identifiers.
func AllowDashes(b bool) Option {
	return func(t *Tokenizer) {
		t.dashes = b
	}
}

// NewTokenizer creates a tokenizer for text. Keywords are matched and
// literal leaves are emitted through adapter.
func NewTokenizer(text string, adapter *Adapter, opts ...Option) (*Tokenizer, error) {
	t := &Tokenizer{
		text:    text,
		adapter: adapter,
		dashes:  adapter.Dashes,
	}
	for _, opt := range opts {
		opt(t)
	}
	lexer, err := literalLexer(t.dashes)
	if err != nil {
		return nil, err
	}
	if t.scanner, err = lexer.Scanner([]byte(text)); err != nil {
		return nil, err
	}
	return t, nil
}

// Done is true if the complete text has been scanned.
func (t *Tokenizer) Done() bool {
	return t.Offset >= len(t.text)
}

// match returns the literal class and length matching at pos, or -1.
func (t *Tokenizer) match(pos int) (int, int) {
	t.scanner.TC = pos
	tok, err, eos := t.scanner.Next()
	if eos {
		return -1, 0
	}
	if err != nil {
		if _, ok := err.(*machines.UnconsumedInput); !ok {
			tracer().Errorf("scanner error: %v", err)
		}
		return -1, 0
	}
	token := tok.(*lexmachine.Token)
	return token.Type, len(token.Lexeme)
}

func (t *Tokenizer) enabled(class int) grammar.Symbol {
	switch class {
	case litIdentifier:
		return t.adapter.Identifier
	case litNumber:
		return t.adapter.Number
	case litString:
		return t.adapter.String
	}
	return grammar.Epsilon
}

// Advance scans tokens into a new run chained to prev. It returns the run and
// true if scanning should continue with another run. Scanning stops at the
// end of the text or at text it cannot tokenize; Done tells them apart.
func (t *Tokenizer) Advance(prev *Run) (*Run, bool) {
	run := NewRun(prev)
	for !run.full() {
		pos := t.Offset
		if pos >= len(t.text) {
			return run, false
		}
		class, n := t.match(pos)
		if class == litWhitespace {
			t.Offset += n
			t.Whitespace += n
			continue
		}
		litsym := t.enabled(class)
		if litsym == grammar.Epsilon {
			n = 0
		}
		kwsym, kwlen, isEnd := t.adapter.MatchKeyword(t.text[pos:])
		switch {
		case kwlen > 0 && kwlen >= n:
			run.Append(kwsym, uint64(t.Whitespace), uint64(kwlen))
			tracer().Debugf("keyword %q at %d", t.text[pos:pos+kwlen], pos)
			if isEnd {
				run.AppendPseudo(grammar.BracketTransition)
			}
			n = kwlen
		case n > 0:
			lexeme := t.text[pos : pos+n]
			switch class {
			case litIdentifier:
				t.adapter.EmitIdentifier(pos, n, lexeme)
			case litNumber:
				f, err := strconv.ParseFloat(lexeme, 64)
				if err != nil {
					tracer().Errorf("number %q: %v", lexeme, err)
				}
				t.adapter.EmitNumber(pos, n, f)
			case litString:
				t.adapter.EmitString(pos, n, lexeme)
			}
			run.Append(litsym, uint64(t.Whitespace), uint64(n))
			tracer().Debugf("%s %q at %d", litNames[class], lexeme, pos)
		default:
			tracer().Infof("cannot tokenize input at offset %d", pos)
			return run, false
		}
		t.Offset += n
		t.Whitespace = 0
	}
	return run, t.Offset < len(t.text)
}
