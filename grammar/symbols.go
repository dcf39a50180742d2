package grammar

import (
	"fmt"
	"math"
)

// Symbol identifies a token kind. Rules and choices are numbered in a
// separate space and are not symbols.
type Symbol uint32

// Reserved symbols. Neither of them is ever produced by scanning text.
const (
	// Epsilon denotes "no match".
	Epsilon Symbol = math.MaxUint32 - 1
	// BracketTransition is emitted by the scanner right behind an end-token.
	// The forward driver replaces it with the real closing symbol of the
	// bracket automaton.
	BracketTransition Symbol = math.MaxUint32
	// Boundary is the symbol of the synthetic input-boundary token of the
	// reverse pass. It never reaches the forward driver.
	Boundary Symbol = BracketTransition
)

func (s Symbol) String() string {
	switch s {
	case Epsilon:
		return "ε"
	case BracketTransition:
		return "⇥"
	}
	return fmt.Sprintf("#%d", uint32(s))
}

// MaxStates is the number of states an automaton may have at most.
const MaxStates = 1 << 31

// AutomatonKind tells which automaton a state belongs to.
type AutomatonKind uint8

// The two token automata.
const (
	MainAutomaton AutomatonKind = iota
	BracketAutomaton
)

// State is a state of either the main or the bracket automaton. Token runs
// carry states of both automata side by side.
type State struct {
	Kind AutomatonKind
	ID   uint32
}

// Main returns a state of the main automaton.
func Main(id uint32) State {
	return State{Kind: MainAutomaton, ID: id}
}

// Bracket returns a state of the bracket automaton.
func Bracket(id uint32) State {
	return State{Kind: BracketAutomaton, ID: id}
}

// BoundaryState is the state of the synthetic input-boundary token.
var BoundaryState = Main(math.MaxUint32)

// IsBracket is true for states of the bracket automaton.
func (s State) IsBracket() bool {
	return s.Kind == BracketAutomaton
}

func (s State) String() string {
	if s == BoundaryState {
		return "⊥"
	}
	if s.IsBracket() {
		return fmt.Sprintf("b%d", s.ID)
	}
	return fmt.Sprintf("m%d", s.ID)
}
