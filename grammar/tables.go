package grammar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/hashset"
)

// TokenType distinguishes ordinary keywords from end-tokens, which close a
// guard bracket.
type TokenType uint8

// Keywords are normal tokens or end-tokens.
const (
	NormalToken TokenType = iota
	EndToken
)

// MarshalText is part of encoding.TextMarshaler.
func (tt TokenType) MarshalText() ([]byte, error) {
	switch tt {
	case NormalToken:
		return []byte("normal"), nil
	case EndToken:
		return []byte("end"), nil
	}
	return nil, fmt.Errorf("unknown token type %d", uint8(tt))
}

// UnmarshalText is part of encoding.TextUnmarshaler.
func (tt *TokenType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal", "":
		*tt = NormalToken
	case "end":
		*tt = EndToken
	default:
		return fmt.Errorf("unknown token type %q", string(text))
	}
	return nil
}

// Token is an entry of the token table. For keywords, String is the
// spelling; for literal classes it is the class name ("identifier", "number",
// "string").
type Token struct {
	String string    `json:"string" yaml:"string"`
	Type   TokenType `json:"type,omitempty" yaml:"type,omitempty"`
}

// Names of the literal token classes.
const (
	IdentifierToken = "identifier"
	NumberToken     = "number"
	StringToken     = "string"
)

// Tables is the complete set of compiled grammar tables.
type Tables struct {
	Name string `json:"name" yaml:"name"`
	// Tokens[:KeywordCount] are keywords, the rest are literal classes.
	Tokens           []Token   `json:"tokens" yaml:"tokens"`
	KeywordCount     int       `json:"keyword_count" yaml:"keyword_count"`
	AllowDashes      bool      `json:"allow_dashes_in_identifiers,omitempty" yaml:"allow_dashes_in_identifiers,omitempty"`
	Rules            []Rule    `json:"rules" yaml:"rules"`
	Root             uint32    `json:"root_rule" yaml:"root_rule"`
	RootIsExpression bool      `json:"root_is_expression,omitempty" yaml:"root_is_expression,omitempty"`
	Automaton        Automaton `json:"automaton" yaml:"automaton"`
	BracketAutomaton Automaton `json:"bracket_automaton" yaml:"bracket_automaton"`
	Actions          ActionMap `json:"action_map" yaml:"action_map"`
	BracketActions   ActionMap `json:"bracket_action_map" yaml:"bracket_action_map"`
	// Symbols the deterministic automata use for a closed bracket.
	BracketTransitions []Symbol `json:"bracket_transitions,omitempty" yaml:"bracket_transitions,omitempty"`
	// Transition symbol per state of the reversed bracket automaton.
	NFABracketStates []Symbol `json:"nfa_bracket_states,omitempty" yaml:"nfa_bracket_states,omitempty"`
	FinalNFAState    uint32   `json:"final_nfa_state" yaml:"final_nfa_state"`

	once        sync.Once
	transitions *hashset.Set
}

// NumberOfTokens returns the size of the token table. Symbols at or above
// this value have no text.
func (t *Tables) NumberOfTokens() int {
	return len(t.Tokens)
}

// TokenSymbol finds a literal class by name. It returns Epsilon if the
// grammar does not declare the class.
func (t *Tables) TokenSymbol(name string) Symbol {
	for i := t.KeywordCount; i < len(t.Tokens); i++ {
		if t.Tokens[i].String == name {
			return Symbol(i)
		}
	}
	return Epsilon
}

// SymbolName returns a printable name for a symbol.
func (t *Tables) SymbolName(sym Symbol) string {
	if int(sym) < len(t.Tokens) {
		if int(sym) < t.KeywordCount {
			return fmt.Sprintf("%q", t.Tokens[sym].String)
		}
		return t.Tokens[sym].String
	}
	return sym.String()
}

// IsBracketTransition is true if sym is one of the symbols the deterministic
// automata use for a closed bracket.
func (t *Tables) IsBracketTransition(sym Symbol) bool {
	t.once.Do(func() {
		t.transitions = hashset.New()
		for _, s := range t.BracketTransitions {
			t.transitions.Add(s)
		}
	})
	return t.transitions.Contains(sym)
}

// BracketNFAState returns the reversed bracket automaton state whose
// transition symbol is sym.
func (t *Tables) BracketNFAState(sym Symbol) (uint32, bool) {
	for k, s := range t.NFABracketStates {
		if s == sym {
			return uint32(k), true
		}
	}
	return 0, false
}

// --- Validation ------------------------------------------------------------

// ErrOversizedAutomaton is returned for automata exceeding the representable
// range of state ids.
var ErrOversizedAutomaton = errors.New("automaton has too many states")

// ErrInvalidTables is wrapped by every other validation error.
var ErrInvalidTables = errors.New("invalid grammar tables")

func checkStateRange(n int, which string) error {
	if n > MaxStates {
		return fmt.Errorf("%s automaton has %d states: %w", which, n, ErrOversizedAutomaton)
	}
	return nil
}

// Validate checks the tables for consistency. Parsing with tables which do
// not validate is refused.
func (t *Tables) Validate() error {
	if err := checkStateRange(t.Automaton.Size(), "main"); err != nil {
		return err
	}
	if err := checkStateRange(t.BracketAutomaton.Size(), "bracket"); err != nil {
		return err
	}
	if t.KeywordCount < 0 || t.KeywordCount > len(t.Tokens) {
		return fmt.Errorf("%w: keyword count %d out of range", ErrInvalidTables, t.KeywordCount)
	}
	if t.Automaton.Size() == 0 {
		return fmt.Errorf("%w: main automaton is empty", ErrInvalidTables)
	}
	if err := t.validateAutomaton(&t.Automaton, "main"); err != nil {
		return err
	}
	if t.BracketAutomaton.Size() > 0 {
		if err := t.validateAutomaton(&t.BracketAutomaton, "bracket"); err != nil {
			return err
		}
	}
	for _, sym := range t.BracketTransitions {
		if int(sym) < len(t.Tokens) {
			return fmt.Errorf("%w: bracket transition symbol %d collides with token table", ErrInvalidTables, sym)
		}
	}
	if err := validateActionMap(&t.Actions, "main"); err != nil {
		return err
	}
	if err := validateActionMap(&t.BracketActions, "bracket"); err != nil {
		return err
	}
	if int(t.Root) >= len(t.Rules) {
		return fmt.Errorf("%w: root rule %d out of range", ErrInvalidTables, t.Root)
	}
	for i, r := range t.Rules {
		for _, s := range r.Slots {
			if s.Rule != NoRule && int(s.Rule) >= len(t.Rules) {
				return fmt.Errorf("%w: slot %q of rule %d refers to rule %d", ErrInvalidTables, s.Name, i, s.Rule)
			}
		}
	}
	tracer().Debugf("tables %q validated", t.Name)
	return nil
}

func (t *Tables) validateAutomaton(a *Automaton, which string) error {
	n := uint32(a.Size())
	if a.Start >= n {
		return fmt.Errorf("%w: %s automaton start state %d out of range", ErrInvalidTables, which, a.Start)
	}
	for id, s := range a.States {
		for _, e := range s.Edges {
			if e.Target >= n {
				return fmt.Errorf("%w: %s automaton edge %d -> %d out of range", ErrInvalidTables, which, id, e.Target)
			}
		}
	}
	return nil
}

func validateActionMap(m *ActionMap, which string) error {
	for i, e := range m.Entries {
		if len(m.Actions) == 0 && e.ActionIndex == 0 {
			continue
		}
		if int(e.ActionIndex) >= len(m.Actions) {
			return fmt.Errorf("%w: %s action map entry %d has action index %d out of range",
				ErrInvalidTables, which, i, e.ActionIndex)
		}
	}
	return nil
}

// --- Fingerprint -----------------------------------------------------------

// Fingerprint returns a hash over all table contents. Two tables with the same
// fingerprint drive parses identically.
func (t *Tables) Fingerprint() string {
	view := struct {
		Name               string
		Tokens             []Token
		KeywordCount       int
		AllowDashes        bool
		Rules              []Rule
		Root               uint32
		RootIsExpression   bool
		Automaton          Automaton
		BracketAutomaton   Automaton
		Entries            []ActionEntry
		Actions            []Action
		BracketEntries     []ActionEntry
		BracketActions     []Action
		BracketTransitions []Symbol
		NFABracketStates   []Symbol
		FinalNFAState      uint32
	}{
		t.Name, t.Tokens, t.KeywordCount, t.AllowDashes, t.Rules, t.Root,
		t.RootIsExpression, t.Automaton, t.BracketAutomaton,
		t.Actions.Entries, t.Actions.Actions, t.BracketActions.Entries,
		t.BracketActions.Actions, t.BracketTransitions, t.NFABracketStates,
		t.FinalNFAState,
	}
	hash, err := structhash.Hash(view, 1)
	if err != nil {
		tracer().Errorf("cannot fingerprint tables: %v", err)
		return ""
	}
	return hash
}
