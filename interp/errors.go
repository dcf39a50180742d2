package interp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/schuko/gconf"
)

// Error kinds. All of them end the current parse.
var (
	// ErrOversizedAutomaton: an automaton exceeds the range of state ids.
	ErrOversizedAutomaton = grammar.ErrOversizedAutomaton
	// ErrUnterminatedScan: text is left which could not be tokenized.
	ErrUnterminatedScan = errors.New("unterminated scan")
	// ErrUnexpectedToken: no transition for a token, not even as a guard bracket.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnbalancedBracket: input ended within a guard bracket.
	ErrUnbalancedBracket = errors.New("unbalanced guard bracket at end of input")
	// ErrInternal: grammar tables disagree with a token stream they accepted.
	ErrInternal = errors.New("internal error")
)

// ScanError reports text which could not be tokenized.
type ScanError struct {
	Offset uint64
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%v at offset %d", ErrUnterminatedScan, e.Offset)
}

// Unwrap returns ErrUnterminatedScan.
func (e *ScanError) Unwrap() error {
	return ErrUnterminatedScan
}

// TokenError reports a token the automata have no transition for.
type TokenError struct {
	Symbol grammar.Symbol
	Name   string // printable name of Symbol
	Index  int    // position in the token stream
	Offset uint64 // text offset of the token
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%v %s (token %d) at offset %d", ErrUnexpectedToken, e.Name, e.Index, e.Offset)
}

// Unwrap returns ErrUnexpectedToken.
func (e *TokenError) Unwrap() error {
	return ErrUnexpectedToken
}

// InternalError reports an inconsistency between grammar tables and a token
// stream. It never denotes a fault in the input text.
type InternalError struct {
	NFAState uint32
	State    grammar.State
	Symbol   grammar.Symbol
	Err      error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%v (%d %s %s): %v", ErrInternal, e.NFAState, e.State, e.Symbol, e.Err)
}

// Is matches ErrInternal.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

var (
	errNoEntry             = errors.New("no action map entry")
	errNoBracketTransition = errors.New("accepting bracket state not followed by a bracket transition")
	errNoBracketState      = errors.New("no reversed bracket state for transition symbol")
	errOpenBrackets        = errors.New("decode bracket stack not empty after leftmost token")
	errBracketUnderflow    = errors.New("decode bracket stack underflow")
)

// internal traces an internal error and panics if configured to do so.
func internal(err *InternalError) error {
	tracer().Errorf("%v", err)
	if gconf.GetBool("panic-on-internal-error") {
		panic(`Grammar tables are inconsistent.

Configuration flag panic-on-internal-error is set to true. It is aimed at helping
to debug a grammar compiler and do a post-mortem of the tables. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-internal-error to its default (false).

` + err.Error())
	}
	return err
}
