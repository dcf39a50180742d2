package grammar

import (
	"fmt"
)

// Builder assembles tables by hand. It is mainly intended for tests and for
// experiments with small grammars. Keywords have to be declared before any
// literal class.
//
//    b := grammar.NewBuilder("G")
//    open := b.Keyword("(")
//    id := b.Literal(grammar.IdentifierToken)
//    b.Rule("List").Slot("items", "Item").Root()
//    b.Rule("Item").TokenSlot("name")
//    b.Main().Edge(0, open, 1).Edge(1, id, 1)
//    b.Entry(0, grammar.Main(1), id, 0, grammar.Act(grammar.TokenSlot, 0))
//    tables, err := b.Tables()
//
type Builder struct {
	t        *Tables
	literals bool
	rules    []*RuleBuilder
	byName   map[string]*RuleBuilder
	nextTr   Symbol
	err      error
}

// TransitionBase is the first symbol handed out by Builder.Transition.
const TransitionBase Symbol = 1 << 30

// NewBuilder creates a builder for tables with a given name.
func NewBuilder(name string) *Builder {
	t := &Tables{Name: name}
	t.Automaton.States = []AutomatonState{}
	return &Builder{
		t:      t,
		byName: make(map[string]*RuleBuilder),
		nextTr: TransitionBase,
	}
}

func (b *Builder) keyword(spelling string, tt TokenType) Symbol {
	if b.literals {
		b.fail(fmt.Errorf("keyword %q declared after literal classes", spelling))
		return Epsilon
	}
	b.t.Tokens = append(b.t.Tokens, Token{String: spelling, Type: tt})
	b.t.KeywordCount = len(b.t.Tokens)
	return Symbol(len(b.t.Tokens) - 1)
}

// Keyword declares a keyword or operator token.
func (b *Builder) Keyword(spelling string) Symbol {
	return b.keyword(spelling, NormalToken)
}

// EndKeyword declares a keyword closing a guard bracket.
func (b *Builder) EndKeyword(spelling string) Symbol {
	return b.keyword(spelling, EndToken)
}

// Literal declares a literal class (identifier, number or string).
func (b *Builder) Literal(class string) Symbol {
	b.literals = true
	b.t.Tokens = append(b.t.Tokens, Token{String: class})
	return Symbol(len(b.t.Tokens) - 1)
}

// AllowDashes lets identifiers contain dashes.
func (b *Builder) AllowDashes() *Builder {
	b.t.AllowDashes = true
	return b
}

// Transition creates a new bracket transition symbol.
func (b *Builder) Transition() Symbol {
	sym := b.nextTr
	b.nextTr++
	b.t.BracketTransitions = append(b.t.BracketTransitions, sym)
	return sym
}

// NFABracketState appends a state to the reversed bracket automaton, selected
// by a bracket transition symbol, and returns its index.
func (b *Builder) NFABracketState(transition Symbol) uint32 {
	b.t.NFABracketStates = append(b.t.NFABracketStates, transition)
	return uint32(len(b.t.NFABracketStates) - 1)
}

// FinalNFAState sets the state the reverse pass starts from.
func (b *Builder) FinalNFAState(s uint32) *Builder {
	b.t.FinalNFAState = s
	return b
}

// --- Rules -----------------------------------------------------------------

// RuleBuilder adds layout information to a rule.
type RuleBuilder struct {
	b     *Builder
	index uint32
	rule  Rule
	refs  []string // rule names for slots, "" for token slots
}

// Rule returns a builder for a rule, creating the rule if necessary.
// Rules are numbered in order of creation.
func (b *Builder) Rule(name string) *RuleBuilder {
	if rb, ok := b.byName[name]; ok {
		return rb
	}
	rb := &RuleBuilder{
		b:     b,
		index: uint32(len(b.rules)),
		rule: Rule{
			Name:        name,
			LeftSlot:    NoRule,
			RightSlot:   NoRule,
			OperandSlot: NoRule,
		},
	}
	b.rules = append(b.rules, rb)
	b.byName[name] = rb
	return rb
}

// Index returns the rule's index.
func (rb *RuleBuilder) Index() uint32 {
	return rb.index
}

// Slot adds a slot holding nodes of another rule.
func (rb *RuleBuilder) Slot(name string, rule string) *RuleBuilder {
	rb.rule.Slots = append(rb.rule.Slots, Slot{Name: name, Rule: NoRule})
	rb.refs = append(rb.refs, rule)
	return rb
}

// TokenSlot adds a slot holding literal tokens.
func (rb *RuleBuilder) TokenSlot(name string) *RuleBuilder {
	rb.rule.Slots = append(rb.rule.Slots, Slot{Name: name, Rule: NoRule})
	rb.refs = append(rb.refs, "")
	return rb
}

// Choice adds a named choice.
func (rb *RuleBuilder) Choice(name string) *RuleBuilder {
	rb.rule.Choices = append(rb.rule.Choices, name)
	return rb
}

// Operator adds an operator. Its choice index is the number of choices plus
// the number of operators declared before it.
func (rb *RuleBuilder) Operator(name string, fix Fixity, assoc Associativity, prec int) *RuleBuilder {
	rb.rule.Operators = append(rb.rule.Operators, Operator{
		Name:          name,
		Fixity:        fix,
		Associativity: assoc,
		Precedence:    prec,
	})
	return rb
}

// Operands declares the slots for left, right and single operands.
func (rb *RuleBuilder) Operands(left, right, operand uint32) *RuleBuilder {
	rb.rule.LeftSlot = left
	rb.rule.RightSlot = right
	rb.rule.OperandSlot = operand
	return rb
}

// Root makes this rule the root rule.
func (rb *RuleBuilder) Root() *RuleBuilder {
	rb.b.t.Root = rb.index
	rb.b.t.RootIsExpression = false
	return rb
}

// ExpressionRoot makes this rule the root rule, with the root being an expression.
func (rb *RuleBuilder) ExpressionRoot() *RuleBuilder {
	rb.b.t.Root = rb.index
	rb.b.t.RootIsExpression = true
	return rb
}

// --- Automata --------------------------------------------------------------

// AutomatonBuilder adds states and edges to an automaton. States are created
// on first mention.
type AutomatonBuilder struct {
	a *Automaton
}

// Main returns a builder for the main automaton.
func (b *Builder) Main() *AutomatonBuilder {
	return &AutomatonBuilder{a: &b.t.Automaton}
}

// Bracket returns a builder for the bracket automaton.
func (b *Builder) Bracket() *AutomatonBuilder {
	return &AutomatonBuilder{a: &b.t.BracketAutomaton}
}

func (ab *AutomatonBuilder) ensure(state uint32) {
	for uint32(len(ab.a.States)) <= state {
		ab.a.States = append(ab.a.States, AutomatonState{TransitionSymbol: Epsilon})
	}
}

// Start sets the start state.
func (ab *AutomatonBuilder) Start(state uint32) *AutomatonBuilder {
	ab.ensure(state)
	ab.a.Start = state
	return ab
}

// Edge adds a transition from one state to another.
func (ab *AutomatonBuilder) Edge(from uint32, sym Symbol, to uint32) *AutomatonBuilder {
	ab.ensure(from)
	ab.ensure(to)
	ab.a.States[from].Edges = append(ab.a.States[from].Edges, Edge{Symbol: sym, Target: to})
	return ab
}

// Accept marks a state as accepting. For the bracket automaton, transition
// is the real token the closing bracket stands for.
func (ab *AutomatonBuilder) Accept(state uint32, transition Symbol) *AutomatonBuilder {
	ab.ensure(state)
	ab.a.States[state].Accepting = true
	ab.a.States[state].TransitionSymbol = transition
	return ab
}

// --- Action maps -----------------------------------------------------------

// Entry adds an action map entry. The map (main or bracket) is selected by
// the kind of state; the boundary state goes to the main map.
func (b *Builder) Entry(nfa uint32, state State, sym Symbol, next uint32, actions ...Action) *Builder {
	return b.TransitionEntry(nfa, state, sym, next, 0, actions...)
}

// TransitionEntry adds an action map entry for a bracket transition token.
// nfaSymbol selects the reversed bracket automaton state to continue from.
func (b *Builder) TransitionEntry(nfa uint32, state State, sym Symbol, next uint32,
	nfaSymbol Symbol, actions ...Action) *Builder {
	//
	m := &b.t.Actions
	if state.IsBracket() {
		m = &b.t.BracketActions
	}
	m.Entries = append(m.Entries, ActionEntry{
		NFAState:    nfa,
		State:       state.ID,
		Symbol:      sym,
		Next:        next,
		NFASymbol:   nfaSymbol,
		ActionIndex: uint32(len(m.Actions)),
	})
	for _, a := range actions {
		if a.Kind == ActionStop {
			b.fail(fmt.Errorf("action list for (%d,%s,%d) contains a stop action", nfa, state, sym))
			break
		}
	}
	m.Actions = append(m.Actions, actions...)
	m.Actions = append(m.Actions, Action{Kind: ActionStop})
	return b
}

// --- Result ----------------------------------------------------------------

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Tables resolves rule references and returns validated tables.
func (b *Builder) Tables() (*Tables, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.t.Rules = make([]Rule, len(b.rules))
	for i, rb := range b.rules {
		for s, ref := range rb.refs {
			if ref == "" {
				continue
			}
			target, ok := b.byName[ref]
			if !ok {
				return nil, fmt.Errorf("%w: rule %q refers to unknown rule %q", ErrInvalidTables, rb.rule.Name, ref)
			}
			rb.rule.Slots[s].Rule = target.index
		}
		b.t.Rules[i] = rb.rule
	}
	if err := b.t.Validate(); err != nil {
		return nil, err
	}
	return b.t, nil
}
